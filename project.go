package cdxbom

// Project is the package data read by a Source: the project itself and
// every package it can reach
type Project struct {
	Root     *Package
	Packages []*Package
}

// Package is one package as reported by its package manager
type Package struct {
	// Key identifies the package within its source, e.g. a lockfile path.
	// Requirements may target it instead of the name.
	Key   string
	Name  string
	Group string
	// Version is empty for packages the source could not version.
	// NoVersion marks packages that legitimately have none.
	Version   string
	NoVersion bool

	// Type is the package manager's type tag, e.g. "library",
	// "composer-plugin" or "project"
	Type        string
	PURLType    string
	Description string
	Licenses    []string
	References  []Reference
	// Hashes maps algorithm names, in any common spelling, to hex digests
	Hashes map[string]string

	// Requires and DevRequires list direct requirement targets by key,
	// name or alias
	Requires    []string
	DevRequires []string
	Aliases     []string

	DevOnly bool
	Plugin  bool
}

// Reference is an external link of a package
type Reference struct {
	URL     string
	Type    string
	Comment string
}

// Find returns the root or package with the given name, or nil
func (p *Project) Find(name string) *Package {
	if p.Root != nil && p.Root.Name == name {
		return p.Root
	}
	for _, pkg := range p.Packages {
		if pkg.Name == name || (pkg.Group != "" && pkg.Group+"/"+pkg.Name == name) {
			return pkg
		}
	}
	return nil
}
