// Package validate checks serialized CycloneDX documents against the
// schema of their spec version.
//
// Schema violations are returned as a *ValidationError value. The error
// result is reserved for infrastructure failures: a missing schema
// (*SchemaLoadError) or a document that cannot be parsed at all
// (*UnparseableDocumentError).
package validate

import (
	"fmt"
	"strings"

	"github.com/mattermost/cdxbom/cyclonedx/spec"
)

// Validator checks documents of one format
type Validator interface {
	Format() spec.Format
	Validate(data []byte, version spec.Version) (*ValidationError, error)
}

// New returns the validator for format
func New(format spec.Format) (Validator, error) {
	switch format {
	case spec.JSON:
		return NewJSON(), nil
	case spec.XML:
		return NewXML(), nil
	default:
		return nil, fmt.Errorf("unknown format '%s'", format)
	}
}

// ValidationError lists the schema violations of a document
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document is not valid: %s", strings.Join(e.Errors, "; "))
}

// SchemaLoadError is returned when no schema can be loaded for a version
type SchemaLoadError struct {
	Format  spec.Format
	Version spec.Version
	Err     error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load %s schema for spec %s: %v", e.Format, e.Version, e.Err)
}

func (e *SchemaLoadError) Unwrap() error { return e.Err }

// UnparseableDocumentError is returned when a document is not well-formed
type UnparseableDocumentError struct {
	Format spec.Format
	Err    error
}

func (e *UnparseableDocumentError) Error() string {
	return fmt.Sprintf("failed to parse %s document: %v", e.Format, e.Err)
}

func (e *UnparseableDocumentError) Unwrap() error { return e.Err }

// result turns collected violations into the validation result
func result(errors []string) *ValidationError {
	if len(errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: errors}
}
