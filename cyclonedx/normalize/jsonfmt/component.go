package jsonfmt

import (
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
	"github.com/mattermost/cdxbom/log"
)

// ComponentRepositoryNormalizer normalizes the component list
type ComponentRepositoryNormalizer struct {
	factory Factory
}

// Normalize returns the fragments of every component the spec accepts.
// Rejected components are logged and skipped; the rest are kept in order.
func (n *ComponentRepositoryNormalizer) Normalize(components *cyclonedx.ComponentRepository) []Component {
	return normalize.Collect(components.Components(),
		n.factory.MakeForComponent().Normalize,
		func(c *cyclonedx.Component, err error) {
			log.Warn("skipping component '%s': %v", c.Name, err)
		})
}

// ComponentNormalizer normalizes a single component
type ComponentNormalizer struct {
	factory Factory
}

// Normalize returns the component fragment, or an
// *normalize.UnsupportedComponentTypeError
func (n *ComponentNormalizer) Normalize(c *cyclonedx.Component) (Component, error) {
	s := n.factory.Spec()
	if err := normalize.CheckComponentType(c, s); err != nil {
		return Component{}, err
	}

	out := Component{
		Type:               string(c.Type),
		Group:              c.Group,
		Name:               c.Name,
		Description:        c.Description,
		Hashes:             n.factory.MakeForHashDictionary().Normalize(c.Hashes),
		Licenses:           n.factory.MakeForLicense().Normalize(c.Licenses),
		PURL:               c.PackageURL,
		ExternalReferences: n.factory.MakeForExternalReferenceRepository().Normalize(c.ExternalReferences),
		Properties:         n.factory.MakeForProperties().Normalize(c.Properties),
	}
	if version, ok := normalize.ComponentVersion(c, s); ok {
		out.Version = &version
	}
	if ref, ok := c.BomRef.Value(); ok && s.SupportsBomRef() {
		out.BomRef = &ref
	}
	return out, nil
}

// PropertiesNormalizer normalizes component properties
type PropertiesNormalizer struct {
	factory Factory
}

// Normalize returns the property fragments, or nil when the spec has no
// properties
func (n *PropertiesNormalizer) Normalize(properties []cyclonedx.Property) []Property {
	if !n.factory.Spec().SupportsProperties() {
		return nil
	}
	out := make([]Property, 0, len(properties))
	for _, property := range properties {
		if property.Name == "" {
			continue
		}
		out = append(out, Property{Name: property.Name, Value: property.Value})
	}
	return out
}
