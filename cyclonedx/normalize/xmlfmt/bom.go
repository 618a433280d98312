package xmlfmt

import (
	"encoding/xml"

	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
	"github.com/mattermost/cdxbom/log"
)

// BOMNormalizer normalizes the document root
type BOMNormalizer struct {
	factory Factory
}

// Normalize returns the bom element
func (n *BOMNormalizer) Normalize(bom *cyclonedx.BOM) *Bom {
	s := n.factory.Spec()
	out := &Bom{
		XMLName:    xml.Name{Space: s.XMLNamespace(), Local: "bom"},
		Version:    bom.Version,
		Components: Components{Component: n.factory.MakeForComponentRepository().Normalize(bom.Components)},
	}
	if s.SupportsSerialNumber() {
		out.SerialNumber = bom.SerialNumber
	}
	if s.SupportsMetaData() && bom.Metadata != nil {
		out.Metadata = n.factory.MakeForMetaData().Normalize(bom.Metadata)
	}
	if s.SupportsDependencies() {
		out.Dependencies = n.factory.MakeForDependencies().Normalize(bom)
	}
	return out
}

// MetaDataNormalizer normalizes the metadata element
type MetaDataNormalizer struct {
	factory Factory
}

// Normalize returns the metadata element, or nil when it would be empty
func (n *MetaDataNormalizer) Normalize(metadata *cyclonedx.MetaData) *MetaData {
	out := &MetaData{
		Tools: n.factory.MakeForToolRepository().Normalize(metadata.Tools),
	}
	if metadata.Component != nil {
		component, err := n.factory.MakeForComponent().Normalize(metadata.Component)
		if err != nil {
			log.Warn("omitting metadata component: %v", err)
		} else {
			out.Component = &component
		}
	}
	if out.Tools == nil && out.Component == nil {
		return nil
	}
	return out
}

// ToolRepositoryNormalizer normalizes the tools element
type ToolRepositoryNormalizer struct {
	factory Factory
}

// Normalize returns the tools element, or nil without tools
func (n *ToolRepositoryNormalizer) Normalize(tools *cyclonedx.ToolRepository) *Tools {
	if tools.Len() == 0 {
		return nil
	}
	normalizer := n.factory.MakeForTool()
	out := &Tools{}
	for _, tool := range tools.Tools() {
		out.Tool = append(out.Tool, normalizer.Normalize(tool))
	}
	return out
}

// ToolNormalizer normalizes a tool element
type ToolNormalizer struct {
	factory Factory
}

// Normalize returns the tool element
func (n *ToolNormalizer) Normalize(tool *cyclonedx.Tool) Tool {
	out := Tool{
		Vendor:  tool.Vendor,
		Name:    tool.Name,
		Version: tool.Version,
	}
	if n.factory.Spec().SupportsToolHashes() {
		out.Hashes = n.factory.MakeForHashDictionary().Normalize(tool.Hashes)
	}
	return out
}

// DependenciesNormalizer derives the dependencies element
type DependenciesNormalizer struct {
	factory Factory
}

// Normalize returns the dependency graph, or nil when there is nothing to
// record
func (n *DependenciesNormalizer) Normalize(bom *cyclonedx.BOM) *Dependencies {
	s := n.factory.Spec()
	if !s.SupportsDependencies() || !s.SupportsBomRef() {
		return nil
	}
	root, components := normalize.Universe(bom, s)
	edges := normalize.DependencyGraph(root, components)
	if len(edges) == 0 {
		return nil
	}
	out := &Dependencies{}
	for _, edge := range edges {
		dependency := Dependency{Ref: edge.Ref}
		for _, target := range edge.DependsOn {
			dependency.DependsOn = append(dependency.DependsOn, DependencyRef{Ref: target})
		}
		out.Dependency = append(out.Dependency, dependency)
	}
	return out
}
