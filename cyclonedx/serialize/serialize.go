// Package serialize renders a BOM as CycloneDX JSON or XML text for a
// chosen spec version.
package serialize

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize/jsonfmt"
	"github.com/mattermost/cdxbom/cyclonedx/normalize/xmlfmt"
	"github.com/mattermost/cdxbom/cyclonedx/spec"
)

const indent = "    "

// UnsupportedSpecVersionError is returned when a serializer is asked for a
// spec version its format was never specified for
type UnsupportedSpecVersionError struct {
	Format  spec.Format
	Version spec.Version
}

func (e *UnsupportedSpecVersionError) Error() string {
	return fmt.Sprintf("spec %s is not available in %s", e.Version, e.Format)
}

// Serializer renders a BOM in one format
type Serializer interface {
	Format() spec.Format
	Serialize(bom *cyclonedx.BOM, version spec.Version, pretty bool) ([]byte, error)
}

// New returns the serializer for format
func New(format spec.Format) (Serializer, error) {
	switch format {
	case spec.JSON:
		return NewJSON(), nil
	case spec.XML:
		return NewXML(), nil
	default:
		return nil, fmt.Errorf("unknown format '%s'", format)
	}
}

func lookup(format spec.Format, version spec.Version) (*spec.Spec, error) {
	s, err := spec.Lookup(version)
	if err != nil {
		return nil, err
	}
	if !s.SupportsFormat(format) {
		return nil, &UnsupportedSpecVersionError{Format: format, Version: version}
	}
	return s, nil
}

// JSONSerializer renders CycloneDX JSON
type JSONSerializer struct {
	factory func(*spec.Spec) jsonfmt.Factory
}

// NewJSON returns a JSON serializer using the standard normalizers
func NewJSON() *JSONSerializer {
	return NewJSONWithFactory(func(s *spec.Spec) jsonfmt.Factory { return jsonfmt.NewFactory(s) })
}

// NewJSONWithFactory returns a JSON serializer that builds its normalizers
// from the given factory constructor
func NewJSONWithFactory(factory func(*spec.Spec) jsonfmt.Factory) *JSONSerializer {
	return &JSONSerializer{factory: factory}
}

// Format returns spec.JSON
func (j *JSONSerializer) Format() spec.Format { return spec.JSON }

// Serialize renders bom under version
func (j *JSONSerializer) Serialize(bom *cyclonedx.BOM, version spec.Version, pretty bool) ([]byte, error) {
	s, err := lookup(spec.JSON, version)
	if err != nil {
		return nil, err
	}
	document := j.factory(s).MakeForBOM().Normalize(bom)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", indent)
	}
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("failed to encode bom: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// XMLSerializer renders CycloneDX XML
type XMLSerializer struct {
	factory func(*spec.Spec) xmlfmt.Factory
}

// NewXML returns an XML serializer using the standard normalizers
func NewXML() *XMLSerializer {
	return NewXMLWithFactory(func(s *spec.Spec) xmlfmt.Factory { return xmlfmt.NewFactory(s) })
}

// NewXMLWithFactory returns an XML serializer that builds its normalizers
// from the given factory constructor
func NewXMLWithFactory(factory func(*spec.Spec) xmlfmt.Factory) *XMLSerializer {
	return &XMLSerializer{factory: factory}
}

// Format returns spec.XML
func (x *XMLSerializer) Format() spec.Format { return spec.XML }

// Serialize renders bom under version, prefixed with an XML declaration
func (x *XMLSerializer) Serialize(bom *cyclonedx.BOM, version spec.Version, pretty bool) ([]byte, error) {
	s, err := lookup(spec.XML, version)
	if err != nil {
		return nil, err
	}
	document := x.factory(s).MakeForBOM().Normalize(bom)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	if pretty {
		encoder.Indent("", indent)
	}
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("failed to encode bom: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode bom: %w", err)
	}
	return buf.Bytes(), nil
}
