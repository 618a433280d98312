package jsonfmt

// The types below are the JSON fragments produced by the normalizers.
// Field order is wire order; empty optional fields are omitted.

// Bom is the document root
type Bom struct {
	BomFormat    string       `json:"bomFormat"`
	SpecVersion  string       `json:"specVersion"`
	SerialNumber string       `json:"serialNumber,omitempty"`
	Version      int          `json:"version"`
	Metadata     *MetaData    `json:"metadata,omitempty"`
	Components   []Component  `json:"components"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// MetaData is the metadata block
type MetaData struct {
	Tools     []Tool     `json:"tools,omitempty"`
	Component *Component `json:"component,omitempty"`
}

// Tool describes the generator
type Tool struct {
	Vendor  string `json:"vendor,omitempty"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Hashes  []Hash `json:"hashes,omitempty"`
}

// Component is one component entry
type Component struct {
	Type               string              `json:"type"`
	BomRef             *string             `json:"bom-ref,omitempty"`
	Group              string              `json:"group,omitempty"`
	Name               string              `json:"name"`
	Version            *string             `json:"version,omitempty"`
	Description        string              `json:"description,omitempty"`
	Hashes             []Hash              `json:"hashes,omitempty"`
	Licenses           []LicenseChoice     `json:"licenses,omitempty"`
	PURL               string              `json:"purl,omitempty"`
	ExternalReferences []ExternalReference `json:"externalReferences,omitempty"`
	Properties         []Property          `json:"properties,omitempty"`
}

// Hash is a single digest
type Hash struct {
	Algorithm string `json:"alg"`
	Content   string `json:"content"`
}

// LicenseChoice holds either a license or an expression
type LicenseChoice struct {
	License    *License `json:"license,omitempty"`
	Expression string   `json:"expression,omitempty"`
}

// License is a license given by id or by name
type License struct {
	ID   string      `json:"id,omitempty"`
	Name string      `json:"name,omitempty"`
	Text *Attachment `json:"text,omitempty"`
	URL  string      `json:"url,omitempty"`
}

// Attachment is inline text content
type Attachment struct {
	ContentType string `json:"contentType,omitempty"`
	Content     string `json:"content"`
}

// ExternalReference points at a related resource
type ExternalReference struct {
	URL     string `json:"url"`
	Comment string `json:"comment,omitempty"`
	Type    string `json:"type"`
	Hashes  []Hash `json:"hashes,omitempty"`
}

// Property is a name/value pair
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Dependency is one node of the dependency graph
type Dependency struct {
	Ref       string   `json:"ref"`
	DependsOn []string `json:"dependsOn,omitempty"`
}
