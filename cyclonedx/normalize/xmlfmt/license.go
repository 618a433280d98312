package xmlfmt

import (
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
)

// LicenseNormalizer normalizes the licenses element
type LicenseNormalizer struct {
	factory Factory
}

// Normalize returns the licenses element, or nil without licenses
func (n *LicenseNormalizer) Normalize(choice cyclonedx.LicenseChoice) *Licenses {
	switch licenses := normalize.Licenses(choice, n.factory.Spec()).(type) {
	case cyclonedx.LicenseExpression:
		return &Licenses{Expression: string(licenses)}
	case cyclonedx.DisjunctiveLicenses:
		out := &Licenses{}
		for _, license := range licenses {
			if normalized := n.normalizeLicense(license); normalized != nil {
				out.License = append(out.License, *normalized)
			}
		}
		if len(out.License) == 0 {
			return nil
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
