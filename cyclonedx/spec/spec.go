// Package spec answers what a given CycloneDX spec version allows. It is
// a static table keyed by version; every Spec is immutable and safe to
// share between goroutines and runs.
package spec

import (
	"fmt"
	"regexp"

	"github.com/mattermost/cdxbom/cyclonedx"
)

// Version is a CycloneDX spec version token such as "1.2"
type Version string

// Known spec versions
const (
	V1_0 Version = "1.0"
	V1_1 Version = "1.1"
	V1_2 Version = "1.2"
	V1_3 Version = "1.3"
)

// Format is a CycloneDX wire format
type Format string

// Format values
const (
	JSON Format = "json"
	XML  Format = "xml"
)

// UnknownSpecVersionError is returned for a version token with no table row
type UnknownSpecVersionError struct {
	Version Version
}

func (e *UnknownSpecVersionError) Error() string {
	return fmt.Sprintf("unknown CycloneDX spec version '%s'", e.Version)
}

// Spec is one row of the capability table
type Spec struct {
	row *row
}

// Lookup returns the capabilities of version v
func Lookup(v Version) (*Spec, error) {
	r, ok := table[v]
	if !ok {
		return nil, &UnknownSpecVersionError{Version: v}
	}
	return &Spec{row: r}, nil
}

// MustLookup is like Lookup but panics on unknown versions
func MustLookup(v Version) *Spec {
	s, err := Lookup(v)
	if err != nil {
		panic(err)
	}
	return s
}

// Versions returns the known versions, oldest first
func Versions() []Version {
	return []Version{V1_0, V1_1, V1_2, V1_3}
}

// Latest returns the newest known version
func Latest() Version {
	return V1_3
}

// hashContent accepts the hex digest lengths of every supported algorithm
var hashContent = regexp.MustCompile(`^([a-fA-F0-9]{32}|[a-fA-F0-9]{40}|[a-fA-F0-9]{64}|[a-fA-F0-9]{96}|[a-fA-F0-9]{128})$`)

// Version returns the version token of this row
func (s *Spec) Version() Version {
	return s.row.version
}

// IsSupportedComponentType reports whether t may appear as a component type
func (s *Spec) IsSupportedComponentType(t cyclonedx.Classification) bool {
	return s.row.componentTypes[t]
}

// IsSupportedHashAlgorithm reports whether alg may appear as a hash algorithm
func (s *Spec) IsSupportedHashAlgorithm(alg cyclonedx.HashAlgorithm) bool {
	return s.row.hashAlgorithms[alg]
}

// IsSupportedHashContent reports whether content has the shape of a hex digest
func (s *Spec) IsSupportedHashContent(content string) bool {
	return hashContent.MatchString(content)
}

// SupportsLicenseExpression reports whether licenses may be SPDX expressions
func (s *Spec) SupportsLicenseExpression() bool {
	return s.row.licenseExpression
}

// SupportsMetaData reports whether the document may carry a metadata block
func (s *Spec) SupportsMetaData() bool {
	return s.row.metadata
}

// SupportsBomRef reports whether components may carry a bom-ref
func (s *Spec) SupportsBomRef() bool {
	return s.row.bomRef
}

// SupportsDependencies reports whether the document may carry a dependency graph
func (s *Spec) SupportsDependencies() bool {
	return s.row.dependencies
}

// SupportsExternalReferences reports whether components may carry external references
func (s *Spec) SupportsExternalReferences() bool {
	return len(s.row.externalReferenceTypes) > 0
}

// IsSupportedExternalReferenceType reports whether t may appear as a reference type
func (s *Spec) IsSupportedExternalReferenceType(t cyclonedx.ExternalReferenceType) bool {
	return s.row.externalReferenceTypes[t]
}

// SupportsLicenseURL reports whether a license may carry a url
func (s *Spec) SupportsLicenseURL() bool {
	return s.row.licenseURL
}

// SupportsSerialNumber reports whether the document may carry a serial number
func (s *Spec) SupportsSerialNumber() bool {
	return s.row.serialNumber
}

// SupportsProperties reports whether components may carry properties
func (s *Spec) SupportsProperties() bool {
	return s.row.properties
}

// SupportsExternalReferenceHashes reports whether external references may carry hashes
func (s *Spec) SupportsExternalReferenceHashes() bool {
	return s.row.externalReferenceHashes
}

// SupportsToolHashes reports whether tools may carry hashes
func (s *Spec) SupportsToolHashes() bool {
	return s.row.toolHashes
}

// RequiresComponentVersion reports whether every component must have a version
func (s *Spec) RequiresComponentVersion() bool {
	return s.row.componentVersionRequired
}

// RequiresComponentModified reports whether the XML modified element is mandatory
func (s *Spec) RequiresComponentModified() bool {
	return s.row.componentModifiedRequired
}

// SupportsFormat reports whether this version was ever specified in format f
func (s *Spec) SupportsFormat(f Format) bool {
	return s.row.formats[f]
}

// XMLNamespace returns the namespace URI of the bom element for this version
func (s *Spec) XMLNamespace() string {
	return "http://cyclonedx.org/schema/bom/" + string(s.row.version)
}

// ComponentTypes returns the supported component types in table order
func (s *Spec) ComponentTypes() []cyclonedx.Classification {
	types := make([]cyclonedx.Classification, 0, len(s.row.componentTypes))
	for _, t := range cyclonedx.Classifications {
		if s.row.componentTypes[t] {
			types = append(types, t)
		}
	}
	return types
}

// HashAlgorithms returns the supported hash algorithms in table order
func (s *Spec) HashAlgorithms() []cyclonedx.HashAlgorithm {
	algs := make([]cyclonedx.HashAlgorithm, 0, len(s.row.hashAlgorithms))
	for _, alg := range cyclonedx.HashAlgorithms {
		if s.row.hashAlgorithms[alg] {
			algs = append(algs, alg)
		}
	}
	return algs
}
