// Package builder turns the package data of a Source into a BOM: one
// component per retained package, coalesced by identity, with dependency
// edges resolved between the retained components.
package builder

import (
	"fmt"
	"strings"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/log"
	"github.com/mattermost/cdxbom/spdx"
)

// DevRequirementProperty tags components only reachable through dev
// requirements
const DevRequirementProperty = "cdx:package:isDevRequirement"

// Options controls which packages become components
type Options struct {
	// IncludeDev keeps dev-only packages, tagged with DevRequirementProperty
	IncludeDev bool
	// ExcludePlugins drops packages the source flags as plugins
	ExcludePlugins bool
	// RootVersion is used when the root package has no version
	RootVersion string
	// Tool is the generator's own entry in the metadata
	Tool *cyclonedx.Tool
}

// MissingIdentityError is returned for a package without a name
type MissingIdentityError struct {
	Package *cdxbom.Package
}

func (e *MissingIdentityError) Error() string {
	if e.Package.Key != "" {
		return fmt.Sprintf("package '%s' has no name", e.Package.Key)
	}
	return "package has no name"
}

// MissingVersionError is returned for a package without a version
type MissingVersionError struct {
	Package *cdxbom.Package
}

func (e *MissingVersionError) Error() string {
	return fmt.Sprintf("package '%s' has no version", qualifiedName(e.Package))
}

// Builder builds BOMs
type Builder struct {
	options  Options
	licenses spdx.Dictionary
}

// New returns a Builder
func New(options Options, licenses spdx.Dictionary) *Builder {
	return &Builder{options: options, licenses: licenses}
}

type node struct {
	pkg         *cdxbom.Package
	component   *cyclonedx.Component
	requires    []string
	devRequires []string
}

// Build builds the BOM of project. It fails without a partial result
// when a retained package has no name or no version.
func (b *Builder) Build(project *cdxbom.Project) (*cyclonedx.BOM, error) {
	if project.Root == nil {
		return nil, &MissingIdentityError{Package: &cdxbom.Package{}}
	}

	root, err := b.component(project.Root, b.options.RootVersion)
	if err != nil {
		return nil, err
	}
	root.Type = classify(project.Root, cyclonedx.Application)
	rootNode := &node{
		pkg:         project.Root,
		component:   root,
		requires:    copyOf(project.Root.Requires),
		devRequires: copyOf(project.Root.DevRequires),
	}

	nodes := []*node{}
	identities := map[string]*node{identity(root): rootNode}
	index := newIndex()
	index.add(rootNode)

	for _, pkg := range project.Packages {
		if !b.retain(pkg) {
			continue
		}
		component, err := b.component(pkg, "")
		if err != nil {
			return nil, err
		}

		if existing, ok := identities[identity(component)]; ok {
			log.Debug("coalescing duplicate package '%s'", qualifiedName(pkg))
			existing.requires = append(existing.requires, pkg.Requires...)
			existing.devRequires = append(existing.devRequires, pkg.DevRequires...)
			index.alias(existing, pkg)
			continue
		}

		n := &node{pkg: pkg, component: component, requires: copyOf(pkg.Requires)}
		if pkg.DevOnly {
			component.Properties = append(component.Properties, cyclonedx.Property{Name: DevRequirementProperty, Value: "true"})
		}
		identities[identity(component)] = n
		index.add(n)
		nodes = append(nodes, n)
	}

	// the root follows dev requirements too; everything else is runtime only
	b.resolve(index, rootNode, append(append([]string{}, rootNode.requires...), rootNode.devRequires...))
	for _, n := range nodes {
		b.resolve(index, n, n.requires)
	}

	bom := cyclonedx.NewBOM()
	bom.Metadata = &cyclonedx.MetaData{
		Component: root,
		Tools:     cyclonedx.NewToolRepository(b.options.Tool),
	}
	for _, n := range nodes {
		bom.Components.Add(n.component)
	}
	return bom, nil
}

func (b *Builder) retain(pkg *cdxbom.Package) bool {
	if pkg.DevOnly && !b.options.IncludeDev {
		log.Debug("skipping dev package '%s'", qualifiedName(pkg))
		return false
	}
	if pkg.Plugin && b.options.ExcludePlugins {
		log.Debug("skipping plugin package '%s'", qualifiedName(pkg))
		return false
	}
	return true
}

func (b *Builder) resolve(index *index, n *node, targets []string) {
	for _, target := range targets {
		resolved := index.lookup(target)
		if resolved == nil {
			log.Debug("dropping unresolved requirement '%s' of '%s'", target, qualifiedName(n.pkg))
			continue
		}
		if resolved == n {
			continue
		}
		n.component.Dependencies.Add(resolved.component.BomRef)
	}
}

func (b *Builder) component(pkg *cdxbom.Package, versionOverride string) (*cyclonedx.Component, error) {
	if pkg.Name == "" {
		return nil, &MissingIdentityError{Package: pkg}
	}

	component := cyclonedx.NewComponent(classify(pkg, cyclonedx.Library), pkg.Name, "")
	switch {
	case pkg.Version != "":
		component.SetVersion(pkg.Version)
	case versionOverride != "":
		component.SetVersion(versionOverride)
	case pkg.NoVersion:
		component.ClearVersion()
	default:
		return nil, &MissingVersionError{Package: pkg}
	}

	component.Group = pkg.Group
	component.Description = pkg.Description
	component.PackageURL = pkg.PURL()
	component.Licenses = b.licenseChoice(pkg.Licenses)
	component.Hashes = hashes(pkg.Hashes)
	for _, ref := range pkg.References {
		if ref.URL == "" {
			continue
		}
		component.ExternalReferences = append(component.ExternalReferences, cyclonedx.ExternalReference{
			Type:    cyclonedx.ParseExternalReferenceType(ref.Type),
			URL:     ref.URL,
			Comment: ref.Comment,
		})
	}
	component.BomRef = cyclonedx.NewBomRef(identity(component))
	component.Dependencies = cyclonedx.NewBomRefSet()
	return component, nil
}

// licenseChoice builds the license of a package from its raw strings
func (b *Builder) licenseChoice(raw []string) cyclonedx.LicenseChoice {
	values := make([]string, 0, len(raw))
	for _, value := range raw {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return nil
	}
	if len(values) == 1 && looksLikeExpression(values[0]) {
		if b.licenses.IsValidExpression(values[0]) {
			return cyclonedx.LicenseExpression(values[0])
		}
		log.Debug("treating invalid license expression '%s' as a name", values[0])
	}

	licenses := make(cyclonedx.DisjunctiveLicenses, 0, len(values))
	for _, value := range values {
		if b.licenses.IsKnownSpdxID(value) {
			licenses = append(licenses, cyclonedx.NewLicenseID(b.licenses.Canonicalize(value)))
		} else {
			licenses = append(licenses, cyclonedx.NewLicenseName(value))
		}
	}
	return licenses
}

func looksLikeExpression(value string) bool {
	if strings.ContainsAny(value, "()") {
		return true
	}
	for _, field := range strings.Fields(value) {
		switch strings.ToUpper(field) {
		case "OR", "AND", "WITH":
			return true
		}
	}
	return false
}

func hashes(raw map[string]string) *cyclonedx.HashDictionary {
	out := cyclonedx.NewHashDictionary()
	for alg, content := range raw {
		out.Set(cyclonedx.ParseHashAlgorithm(alg), strings.ToLower(content))
	}
	return out
}

// classify maps a package type tag to a component type
func classify(pkg *cdxbom.Package, fallback cyclonedx.Classification) cyclonedx.Classification {
	switch pkg.Type {
	case "":
		return fallback
	case "project":
		return cyclonedx.Application
	}
	if c := cyclonedx.Classification(pkg.Type); c.IsKnown() {
		return c
	}
	return fallback
}

// identity is the canonical identity of a component, also used as its
// BomRef
func identity(c *cyclonedx.Component) string {
	if c.PackageURL != "" {
		return c.PackageURL
	}
	name := c.Name
	if c.Group != "" {
		name = c.Group + "/" + name
	}
	if version, ok := c.Version(); ok && version != "" {
		return name + "@" + version
	}
	return name
}

// copyOf keeps node slices from sharing backing arrays with the project
func copyOf(names []string) []string {
	return append([]string(nil), names...)
}

func qualifiedName(pkg *cdxbom.Package) string {
	name := pkg.Name
	if pkg.Group != "" {
		name = pkg.Group + "/" + name
	}
	if pkg.Version != "" {
		name += "@" + pkg.Version
	}
	return name
}

// index resolves requirement targets to nodes
type index struct {
	nodes map[string]*node
}

func newIndex() *index {
	return &index{nodes: make(map[string]*node)}
}

func (i *index) add(n *node) {
	i.alias(n, n.pkg)
}

// alias registers every name of pkg for n. The first registration wins.
// A grouped package is never registered under its bare name, so that
// "composer" does not resolve to composer/composer.
func (i *index) alias(n *node, pkg *cdxbom.Package) {
	names := []string{pkg.Key}
	if pkg.Group == "" {
		names = append(names, pkg.Name)
	} else {
		names = append(names, pkg.Group+"/"+pkg.Name)
	}
	names = append(names, pkg.Aliases...)
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, exists := i.nodes[name]; !exists {
			i.nodes[name] = n
		}
	}
}

func (i *index) lookup(target string) *node {
	if n, ok := i.nodes[target]; ok {
		return n
	}
	return i.nodes[strings.ToLower(target)]
}
