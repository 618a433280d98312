// Package jsonfmt normalizes the BOM model into JSON fragments.
//
// Normalizers never reference each other directly. Each one holds the
// Factory it was made by and asks it for sibling normalizers on demand,
// so a caller can swap any single normalizer by wrapping the factory.
package jsonfmt

import "github.com/mattermost/cdxbom/cyclonedx/spec"

// Factory makes the normalizers of this format for one spec version
type Factory interface {
	Spec() *spec.Spec
	MakeForBOM() *BOMNormalizer
	MakeForMetaData() *MetaDataNormalizer
	MakeForToolRepository() *ToolRepositoryNormalizer
	MakeForTool() *ToolNormalizer
	MakeForComponentRepository() *ComponentRepositoryNormalizer
	MakeForComponent() *ComponentNormalizer
	MakeForLicense() *LicenseNormalizer
	MakeForHashDictionary() *HashDictionaryNormalizer
	MakeForHash() *HashNormalizer
	MakeForExternalReferenceRepository() *ExternalReferenceRepositoryNormalizer
	MakeForExternalReference() *ExternalReferenceNormalizer
	MakeForProperties() *PropertiesNormalizer
	MakeForDependencies() *DependenciesNormalizer
}

// StandardFactory is the default Factory
type StandardFactory struct {
	spec *spec.Spec
}

// NewFactory returns a factory bound to s
func NewFactory(s *spec.Spec) *StandardFactory {
	return &StandardFactory{spec: s}
}

// Spec returns the spec version the factory is bound to
func (f *StandardFactory) Spec() *spec.Spec { return f.spec }

// MakeForBOM returns a BOM normalizer
func (f *StandardFactory) MakeForBOM() *BOMNormalizer { return &BOMNormalizer{factory: f} }

// MakeForMetaData returns a metadata normalizer
func (f *StandardFactory) MakeForMetaData() *MetaDataNormalizer {
	return &MetaDataNormalizer{factory: f}
}

// MakeForToolRepository returns a tool repository normalizer
func (f *StandardFactory) MakeForToolRepository() *ToolRepositoryNormalizer {
	return &ToolRepositoryNormalizer{factory: f}
}

// MakeForTool returns a tool normalizer
func (f *StandardFactory) MakeForTool() *ToolNormalizer { return &ToolNormalizer{factory: f} }

// MakeForComponentRepository returns a component repository normalizer
func (f *StandardFactory) MakeForComponentRepository() *ComponentRepositoryNormalizer {
	return &ComponentRepositoryNormalizer{factory: f}
}

// MakeForComponent returns a component normalizer
func (f *StandardFactory) MakeForComponent() *ComponentNormalizer {
	return &ComponentNormalizer{factory: f}
}

// MakeForLicense returns a license normalizer
func (f *StandardFactory) MakeForLicense() *LicenseNormalizer {
	return &LicenseNormalizer{factory: f}
}

// MakeForHashDictionary returns a hash dictionary normalizer
func (f *StandardFactory) MakeForHashDictionary() *HashDictionaryNormalizer {
	return &HashDictionaryNormalizer{factory: f}
}

// MakeForHash returns a hash normalizer
func (f *StandardFactory) MakeForHash() *HashNormalizer { return &HashNormalizer{factory: f} }

// MakeForExternalReferenceRepository returns an external reference list normalizer
func (f *StandardFactory) MakeForExternalReferenceRepository() *ExternalReferenceRepositoryNormalizer {
	return &ExternalReferenceRepositoryNormalizer{factory: f}
}

// MakeForExternalReference returns an external reference normalizer
func (f *StandardFactory) MakeForExternalReference() *ExternalReferenceNormalizer {
	return &ExternalReferenceNormalizer{factory: f}
}

// MakeForProperties returns a properties normalizer
func (f *StandardFactory) MakeForProperties() *PropertiesNormalizer {
	return &PropertiesNormalizer{factory: f}
}

// MakeForDependencies returns a dependency graph normalizer
func (f *StandardFactory) MakeForDependencies() *DependenciesNormalizer {
	return &DependenciesNormalizer{factory: f}
}
