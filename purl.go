package cdxbom

import (
	"github.com/package-url/packageurl-go"
)

// PURL package type
var (
	GenericPackage   = packageurl.TypeGeneric
	GolangPackage    = packageurl.TypeGolang
	NpmPackage       = packageurl.TypeNPM
	ComposerPackage  = packageurl.TypeComposer
	CocoapodsPackage = packageurl.TypeCocoapods
	GradlePackage    = packageurl.TypeMaven // OSS Index doesn't support gradle PURLs so fall back to maven
)

// PURL returns a package URL for the specified package type, namespace,
// name, and version
func PURL(packageType, namespace, name, version string) string {
	return packageurl.NewPackageURL(packageType, namespace, name, version, nil, "").ToString()
}

// PURL returns the package URL of p, or an empty string when the source
// gave it no PURL type
func (p *Package) PURL() string {
	if p.PURLType == "" {
		return ""
	}
	return PURL(p.PURLType, p.Group, p.Name, p.Version)
}
