package jsonfmt

import (
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
)

// LicenseNormalizer normalizes a license choice
type LicenseNormalizer struct {
	factory Factory
}

// Normalize returns the licenses fragment. Expressions the spec cannot
// carry come back as a single license named after the expression.
func (n *LicenseNormalizer) Normalize(choice cyclonedx.LicenseChoice) []LicenseChoice {
	s := n.factory.Spec()
	switch licenses := normalize.Licenses(choice, s).(type) {
	case cyclonedx.LicenseExpression:
		return []LicenseChoice{{Expression: string(licenses)}}
	case cyclonedx.DisjunctiveLicenses:
		out := make([]LicenseChoice, 0, len(licenses))
		for _, license := range licenses {
			if normalized := n.normalizeLicense(license); normalized != nil {
				out = append(out, LicenseChoice{License: normalized})
			}
		}
		return out
	default:
		return nil
	}
}

func (n *LicenseNormalizer) normalizeLicense(license cyclonedx.DisjunctiveLicense) *License {
	out := &License{}
	switch {
	case license.ID != "":
		out.ID = license.ID
	case license.Name != "":
		out.Name = license.Name
	default:
		return nil
	}
	if license.Text != "" {
		out.Text = &Attachment{Content: license.Text}
	}
	if n.factory.Spec().SupportsLicenseURL() {
		out.URL = license.URL
	}
	return out
}
