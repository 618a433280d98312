// Package normalize holds the format-independent parts of the normalizer
// chains: the per-item error types, the skip-and-continue collection loop
// and the derivation of the wire dependency graph.
//
// The format-specific chains live in jsonfmt and xmlfmt.
package normalize

import (
	"fmt"

	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/spec"
)

// UnsupportedComponentTypeError is returned when the spec version does not
// know a component's type
type UnsupportedComponentTypeError struct {
	Component *cyclonedx.Component
	Version   spec.Version
}

func (e *UnsupportedComponentTypeError) Error() string {
	version, _ := e.Component.Version()
	return fmt.Sprintf("component '%s@%s' has type '%s' which spec %s does not support",
		e.Component.Name, version, e.Component.Type, e.Version)
}

// UnsupportedHashAlgorithmError is returned when the spec version does not
// know a hash algorithm
type UnsupportedHashAlgorithmError struct {
	Algorithm cyclonedx.HashAlgorithm
	Version   spec.Version
}

func (e *UnsupportedHashAlgorithmError) Error() string {
	return fmt.Sprintf("hash algorithm '%s' is not supported by spec %s", e.Algorithm, e.Version)
}

// UnsupportedHashContentError is returned when a digest is not a hex string
// of a supported length
type UnsupportedHashContentError struct {
	Algorithm cyclonedx.HashAlgorithm
	Content   string
}

func (e *UnsupportedHashContentError) Error() string {
	return fmt.Sprintf("hash content '%s' for '%s' is not a supported digest", e.Content, e.Algorithm)
}

// Collect runs normalize over items and keeps the successful results in
// order. Each failure is handed to skip together with its input and the
// item is dropped; the loop never stops early.
func Collect[In, Out any](items []In, normalize func(In) (Out, error), skip func(In, error)) []Out {
	out := make([]Out, 0, len(items))
	for _, item := range items {
		result, err := normalize(item)
		if err != nil {
			if skip != nil {
				skip(item, err)
			}
			continue
		}
		out = append(out, result)
	}
	return out
}

// Edge is one entry of the wire dependency graph
type Edge struct {
	Ref       string
	DependsOn []string
}

// DependencyGraph derives the dependency section from the live component
// universe: root (which may be nil) plus components. There is one entry
// per distinct set BomRef, the root first, and each entry only lists
// targets that resolve to a member of the universe.
func DependencyGraph(root *cyclonedx.Component, components []*cyclonedx.Component) []Edge {
	universe := make([]*cyclonedx.Component, 0, len(components)+1)
	if root != nil {
		universe = append(universe, root)
	}
	universe = append(universe, components...)

	known := make(map[string]bool, len(universe))
	for _, component := range universe {
		if ref, ok := component.BomRef.Value(); ok {
			known[ref] = true
		}
	}

	seen := make(map[string]bool, len(universe))
	edges := make([]Edge, 0, len(universe))
	for _, component := range universe {
		ref, ok := component.BomRef.Value()
		if !ok || seen[ref] {
			continue
		}
		seen[ref] = true

		edge := Edge{Ref: ref, DependsOn: []string{}}
		for _, target := range component.Dependencies.Refs() {
			value, _ := target.Value()
			if known[value] {
				edge.DependsOn = append(edge.DependsOn, value)
			}
		}
		edges = append(edges, edge)
	}
	return edges
}

// Universe returns the components of bom that survive normalization under
// s: the metadata component, when the spec carries metadata and knows its
// type, and every repository component whose type the spec knows.
func Universe(bom *cyclonedx.BOM, s *spec.Spec) (*cyclonedx.Component, []*cyclonedx.Component) {
	var root *cyclonedx.Component
	if s.SupportsMetaData() && bom.Metadata != nil && bom.Metadata.Component != nil {
		if CheckComponentType(bom.Metadata.Component, s) == nil {
			root = bom.Metadata.Component
		}
	}
	accepted := bom.Components.Filter(func(c *cyclonedx.Component) bool {
		return CheckComponentType(c, s) == nil
	})
	return root, accepted.Components()
}

// ComponentVersion returns the version to emit for c and whether to emit
// it at all. Versions that the spec requires are emitted even when empty.
func ComponentVersion(c *cyclonedx.Component, s *spec.Spec) (string, bool) {
	version, ok := c.Version()
	if ok && version != "" {
		return version, true
	}
	return "", s.RequiresComponentVersion()
}

// Licenses resolves a license choice against the spec: expressions are
// degraded to disjunctive names when the spec cannot carry them.
func Licenses(choice cyclonedx.LicenseChoice, s *spec.Spec) cyclonedx.LicenseChoice {
	if expression, ok := choice.(cyclonedx.LicenseExpression); ok && !s.SupportsLicenseExpression() {
		return cyclonedx.DegradeExpression(expression)
	}
	return choice
}

// ExternalReferenceType resolves t against the spec, falling back to
// "other" when the spec does not know t. The second result is false when
// the spec cannot carry the reference at all.
func ExternalReferenceType(t cyclonedx.ExternalReferenceType, s *spec.Spec) (cyclonedx.ExternalReferenceType, bool) {
	if s.IsSupportedExternalReferenceType(t) {
		return t, true
	}
	if s.IsSupportedExternalReferenceType(cyclonedx.Other) {
		return cyclonedx.Other, true
	}
	return "", false
}

// CheckHash validates a single hash against the spec
func CheckHash(alg cyclonedx.HashAlgorithm, content string, s *spec.Spec) error {
	if !s.IsSupportedHashAlgorithm(alg) {
		return &UnsupportedHashAlgorithmError{Algorithm: alg, Version: s.Version()}
	}
	if !s.IsSupportedHashContent(content) {
		return &UnsupportedHashContentError{Algorithm: alg, Content: content}
	}
	return nil
}

// CheckComponentType validates a component type against the spec
func CheckComponentType(c *cyclonedx.Component, s *spec.Spec) error {
	if !s.IsSupportedComponentType(c.Type) {
		return &UnsupportedComponentTypeError{Component: c, Version: s.Version()}
	}
	return nil
}
