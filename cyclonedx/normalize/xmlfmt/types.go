package xmlfmt

import "encoding/xml"

// Bom is the document root. XMLName carries the versioned namespace and is
// filled in by the BOM normalizer.
type Bom struct {
	XMLName      xml.Name
	SerialNumber string        `xml:"serialNumber,attr,omitempty"`
	Version      int           `xml:"version,attr"`
	Metadata     *MetaData     `xml:"metadata,omitempty"`
	Components   Components    `xml:"components"`
	Dependencies *Dependencies `xml:"dependencies,omitempty"`
}

// MetaData is the metadata block
type MetaData struct {
	Tools     *Tools     `xml:"tools,omitempty"`
	Component *Component `xml:"component,omitempty"`
}

// Tools wraps the tool list
type Tools struct {
	Tool []Tool `xml:"tool"`
}

// Tool describes the generator
type Tool struct {
	Vendor  string  `xml:"vendor,omitempty"`
	Name    string  `xml:"name,omitempty"`
	Version string  `xml:"version,omitempty"`
	Hashes  *Hashes `xml:"hashes,omitempty"`
}

// Components wraps the component list. It is always emitted.
type Components struct {
	Component []Component `xml:"component"`
}

// Component is one component element
type Component struct {
	Type               string              `xml:"type,attr"`
	BomRef             string              `xml:"bom-ref,attr,omitempty"`
	Group              string              `xml:"group,omitempty"`
	Name               string              `xml:"name"`
	Version            *string             `xml:"version"`
	Description        string              `xml:"description,omitempty"`
	Hashes             *Hashes             `xml:"hashes,omitempty"`
	Licenses           *Licenses           `xml:"licenses,omitempty"`
	PURL               string              `xml:"purl,omitempty"`
	Modified           *bool               `xml:"modified"`
	ExternalReferences *ExternalReferences `xml:"externalReferences,omitempty"`
	Properties         *Properties         `xml:"properties,omitempty"`
}

// Hashes wraps a hash list
type Hashes struct {
	Hash []Hash `xml:"hash"`
}

// Hash is a single digest
type Hash struct {
	Algorithm string `xml:"alg,attr"`
	Content   string `xml:",chardata"`
}

// Licenses holds either a license list or one expression
type Licenses struct {
	License    []License `xml:"license"`
	Expression string    `xml:"expression,omitempty"`
}

// License is a license given by id or by name
type License struct {
	ID   string      `xml:"id,omitempty"`
	Name string      `xml:"name,omitempty"`
	Text *Attachment `xml:"text,omitempty"`
	URL  string      `xml:"url,omitempty"`
}

// Attachment is inline text content
type Attachment struct {
	ContentType string `xml:"content-type,attr,omitempty"`
	Content     string `xml:",chardata"`
}

// ExternalReferences wraps a reference list
type ExternalReferences struct {
	Reference []ExternalReference `xml:"reference"`
}

// ExternalReference points at a related resource
type ExternalReference struct {
	Type    string  `xml:"type,attr"`
	URL     string  `xml:"url"`
	Comment string  `xml:"comment,omitempty"`
	Hashes  *Hashes `xml:"hashes,omitempty"`
}

// Properties wraps a property list
type Properties struct {
	Property []Property `xml:"property"`
}

// Property is a name/value pair
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Dependencies wraps the dependency graph
type Dependencies struct {
	Dependency []Dependency `xml:"dependency"`
}

// Dependency is one node of the graph with its direct targets
type Dependency struct {
	Ref       string          `xml:"ref,attr"`
	DependsOn []DependencyRef `xml:"dependency"`
}

// DependencyRef is a target of a Dependency
type DependencyRef struct {
	Ref string `xml:"ref,attr"`
}
