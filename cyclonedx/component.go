package cyclonedx

// Component represents a component in the CycloneDX spec
type Component struct {
	Type        Classification
	Group       string
	Name        string
	Description string
	PackageURL  string

	// version is kept private so "no version" stays distinguishable from
	// an empty version string
	version    string
	hasVersion bool

	Licenses           LicenseChoice
	Hashes             *HashDictionary
	ExternalReferences []ExternalReference
	Properties         []Property

	BomRef       BomRef
	Dependencies *BomRefSet
}

// NewComponent returns a component with the given type, name and version
func NewComponent(typ Classification, name, version string) *Component {
	c := &Component{
		Type:         typ,
		Name:         name,
		Hashes:       NewHashDictionary(),
		Dependencies: NewBomRefSet(),
	}
	c.SetVersion(version)
	return c
}

// Version returns the component version and whether one is set
func (c *Component) Version() (string, bool) {
	return c.version, c.hasVersion
}

// SetVersion sets the component version
func (c *Component) SetVersion(version string) {
	c.version = version
	c.hasVersion = true
}

// ClearVersion marks the component as having no version at all
func (c *Component) ClearVersion() {
	c.version = ""
	c.hasVersion = false
}

// Classification represents a classification in the CycloneDX spec
type Classification string

// Classification values
const (
	Application     Classification = "application"
	Framework       Classification = "framework"
	Library         Classification = "library"
	Container       Classification = "container"
	OperatingSystem Classification = "operating-system"
	Device          Classification = "device"
	Firmware        Classification = "firmware"
	File            Classification = "file"
)

// Classifications lists every classification this model knows about
var Classifications = []Classification{
	Application, Framework, Library, Container, OperatingSystem, Device, Firmware, File,
}

// IsKnown reports whether c is one of the known classifications
func (c Classification) IsKnown() bool {
	for _, known := range Classifications {
		if c == known {
			return true
		}
	}
	return false
}

// Property is a name/value pair attached to a component
type Property struct {
	Name  string
	Value string
}

// ComponentRepository is an ordered collection of components
type ComponentRepository struct {
	components []*Component
}

// NewComponentRepository returns a repository holding components
func NewComponentRepository(components ...*Component) *ComponentRepository {
	r := &ComponentRepository{}
	r.Add(components...)
	return r
}

// Add appends components, ignoring nil entries
func (r *ComponentRepository) Add(components ...*Component) {
	for _, component := range components {
		if component != nil {
			r.components = append(r.components, component)
		}
	}
}

// Components returns the components in insertion order
func (r *ComponentRepository) Components() []*Component {
	if r == nil {
		return nil
	}
	return r.components
}

// Len returns the number of components
func (r *ComponentRepository) Len() int {
	if r == nil {
		return 0
	}
	return len(r.components)
}

// FindByBomRef returns the first component whose BomRef equals ref
func (r *ComponentRepository) FindByBomRef(ref BomRef) *Component {
	if !ref.IsSet() {
		return nil
	}
	for _, component := range r.Components() {
		if component.BomRef.Equal(ref) {
			return component
		}
	}
	return nil
}

// Filter returns a new repository with the components keep accepts
func (r *ComponentRepository) Filter(keep func(*Component) bool) *ComponentRepository {
	out := NewComponentRepository()
	for _, component := range r.Components() {
		if keep(component) {
			out.Add(component)
		}
	}
	return out
}
