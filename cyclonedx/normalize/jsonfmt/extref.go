package jsonfmt

import (
	"errors"

	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
	"github.com/mattermost/cdxbom/log"
)

// ExternalReferenceRepositoryNormalizer normalizes a list of references
type ExternalReferenceRepositoryNormalizer struct {
	factory Factory
}

// Normalize returns the usable references, or nil when the spec has none
func (n *ExternalReferenceRepositoryNormalizer) Normalize(refs []cyclonedx.ExternalReference) []ExternalReference {
	if !n.factory.Spec().SupportsExternalReferences() {
		return nil
	}
	return normalize.Collect(refs,
		n.factory.MakeForExternalReference().Normalize,
		func(ref cyclonedx.ExternalReference, err error) {
			log.Warn("skipping external reference '%s': %v", ref.URL, err)
		})
}

// ExternalReferenceNormalizer normalizes a single reference
type ExternalReferenceNormalizer struct {
	factory Factory
}

// Normalize returns the reference fragment
func (n *ExternalReferenceNormalizer) Normalize(ref cyclonedx.ExternalReference) (ExternalReference, error) {
	s := n.factory.Spec()
	if ref.URL == "" {
		return ExternalReference{}, errors.New("missing url")
	}
	typ, ok := normalize.ExternalReferenceType(ref.Type, s)
	if !ok {
		return ExternalReference{}, errors.New("external references are not supported")
	}
	out := ExternalReference{
		URL:     ref.URL,
		Comment: ref.Comment,
		Type:    string(typ),
	}
	if s.SupportsExternalReferenceHashes() {
		out.Hashes = n.factory.MakeForHashDictionary().Normalize(ref.Hashes)
	}
	return out, nil
}
