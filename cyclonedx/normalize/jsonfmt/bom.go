package jsonfmt

import (
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
	"github.com/mattermost/cdxbom/log"
)

const bomFormat = "CycloneDX"

// BOMNormalizer normalizes the document root
type BOMNormalizer struct {
	factory Factory
}

// Normalize returns the JSON fragment of bom
func (n *BOMNormalizer) Normalize(bom *cyclonedx.BOM) *Bom {
	s := n.factory.Spec()
	out := &Bom{
		BomFormat:   bomFormat,
		SpecVersion: string(s.Version()),
		Version:     bom.Version,
		Components:  n.factory.MakeForComponentRepository().Normalize(bom.Components),
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

// MetaDataNormalizer normalizes the metadata block
type MetaDataNormalizer struct {
	factory Factory
}

// Normalize returns the metadata fragment, or nil when it would be empty
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
	if len(out.Tools) == 0 && out.Component == nil {
		return nil
	}
	return out
}

// ToolRepositoryNormalizer normalizes a tool list
type ToolRepositoryNormalizer struct {
	factory Factory
}

// Normalize returns the tool fragments in order
func (n *ToolRepositoryNormalizer) Normalize(tools *cyclonedx.ToolRepository) []Tool {
	normalizer := n.factory.MakeForTool()
	out := make([]Tool, 0, tools.Len())
	for _, tool := range tools.Tools() {
		out = append(out, normalizer.Normalize(tool))
	}
	return out
}

// ToolNormalizer normalizes a single tool
type ToolNormalizer struct {
	factory Factory
}

// Normalize returns the tool fragment
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

// DependenciesNormalizer derives the dependency section
type DependenciesNormalizer struct {
	factory Factory
}

// Normalize returns one dependency entry per known BomRef
func (n *DependenciesNormalizer) Normalize(bom *cyclonedx.BOM) []Dependency {
	s := n.factory.Spec()
	if !s.SupportsDependencies() || !s.SupportsBomRef() {
		return nil
	}
	root, components := normalize.Universe(bom, s)
	edges := normalize.DependencyGraph(root, components)
	out := make([]Dependency, 0, len(edges))
	for _, edge := range edges {
		out = append(out, Dependency{Ref: edge.Ref, DependsOn: edge.DependsOn})
	}
	return out
}
