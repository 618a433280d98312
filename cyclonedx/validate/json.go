package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mattermost/cdxbom/cyclonedx/spec"
)

//go:embed schema/*.json
var schemaFiles embed.FS

// JSONValidator validates CycloneDX JSON against the bundled JSON schemas
type JSONValidator struct {
	mu      sync.Mutex
	schemas map[spec.Version]*jsonschema.Schema
}

// NewJSON returns a JSON validator
func NewJSON() *JSONValidator {
	return &JSONValidator{schemas: make(map[spec.Version]*jsonschema.Schema)}
}

// Format returns spec.JSON
func (v *JSONValidator) Format() spec.Format { return spec.JSON }

// Validate checks data against the schema of version
func (v *JSONValidator) Validate(data []byte, version spec.Version) (*ValidationError, error) {
	schema, err := v.schema(version)
	if err != nil {
		return nil, err
	}

	var document interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&document); err != nil {
		return nil, &UnparseableDocumentError{Format: spec.JSON, Err: err}
	}

	var messages []string
	if err := schema.Validate(document); err != nil {
		var validationErr *jsonschema.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, err
		}
		messages = leafMessages(validationErr)
	}
	// the schemas accept any string as specVersion
	if object, ok := document.(map[string]interface{}); ok {
		if declared, ok := object["specVersion"].(string); ok && declared != string(version) {
			messages = append(messages, fmt.Sprintf("/specVersion: expected '%s', saw '%s'", version, declared))
		}
	}
	sort.Strings(messages)
	return result(messages), nil
}

func (v *JSONValidator) schema(version spec.Version) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[version]; ok {
		return schema, nil
	}

	s, err := spec.Lookup(version)
	if err != nil {
		return nil, &SchemaLoadError{Format: spec.JSON, Version: version, Err: err}
	}
	if !s.SupportsFormat(spec.JSON) {
		return nil, &SchemaLoadError{Format: spec.JSON, Version: version, Err: errors.New("no schema for this version")}
	}

	name := fmt.Sprintf("bom-%s.schema.json", version)
	data, err := schemaFiles.ReadFile("schema/" + name)
	if err != nil {
		return nil, &SchemaLoadError{Format: spec.JSON, Version: version, Err: err}
	}
	licenses, err := schemaFiles.ReadFile("schema/spdx.schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Format: spec.JSON, Version: version, Err: err}
	}
	url := "http://cyclonedx.org/schema/" + name
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	// license ids are checked against the SPDX list the bom schemas reference
	if err := compiler.AddResource("http://cyclonedx.org/schema/spdx.schema.json", bytes.NewReader(licenses)); err != nil {
		return nil, &SchemaLoadError{Format: spec.JSON, Version: version, Err: err}
	}
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, &SchemaLoadError{Format: spec.JSON, Version: version, Err: err}
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, &SchemaLoadError{Format: spec.JSON, Version: version, Err: err}
	}
	v.schemas[version] = schema
	return schema, nil
}

// leafMessages flattens a validation error tree into the messages of its
// leaves, each prefixed with the offending instance location
func leafMessages(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return []string{fmt.Sprintf("%s: %s", location, err.Message)}
	}
	var messages []string
	for _, cause := range err.Causes {
		messages = append(messages, leafMessages(cause)...)
	}
	return messages
}
