package cyclonedx

// BOM represents the bom element in the CycloneDX spec
type BOM struct {
	// Version is the document revision; it starts at 1.
	Version      int
	SerialNumber string
	Metadata     *MetaData
	Components   *ComponentRepository
}

// NewBOM returns an empty BOM at revision 1
func NewBOM() *BOM {
	return &BOM{
		Version:    1,
		Components: NewComponentRepository(),
	}
}

// MetaData represents bom metadata in the CycloneDX spec
type MetaData struct {
	Component *Component
	Tools     *ToolRepository
}

// Tool describes the software that generated a BOM
type Tool struct {
	Vendor  string
	Name    string
	Version string
	Hashes  *HashDictionary
}

// ToolRepository is an ordered list of tools
type ToolRepository struct {
	tools []*Tool
}

// NewToolRepository returns a repository holding the given tools
func NewToolRepository(tools ...*Tool) *ToolRepository {
	r := &ToolRepository{}
	r.Add(tools...)
	return r
}

// Add appends tools, ignoring nil entries
func (r *ToolRepository) Add(tools ...*Tool) {
	for _, tool := range tools {
		if tool != nil {
			r.tools = append(r.tools, tool)
		}
	}
}

// Tools returns the tools in insertion order
func (r *ToolRepository) Tools() []*Tool {
	if r == nil {
		return nil
	}
	return r.tools
}

// Len returns the number of tools
func (r *ToolRepository) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tools)
}

// KnownBomRefs returns every set BomRef value the BOM can resolve: the
// metadata component's and every repository component's.
func (b *BOM) KnownBomRefs() map[string]bool {
	known := make(map[string]bool)
	if b.Metadata != nil && b.Metadata.Component != nil {
		if value, ok := b.Metadata.Component.BomRef.Value(); ok {
			known[value] = true
		}
	}
	for _, component := range b.Components.Components() {
		if value, ok := component.BomRef.Value(); ok {
			known[value] = true
		}
	}
	return known
}
