package xmlfmt

import (
	"errors"

	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
	"github.com/mattermost/cdxbom/log"
)

// ExternalReferenceRepositoryNormalizer normalizes the externalReferences
// element
type ExternalReferenceRepositoryNormalizer struct {
	factory Factory
}

// Normalize returns the usable references, or nil when there are none
func (n *ExternalReferenceRepositoryNormalizer) Normalize(refs []cyclonedx.ExternalReference) *ExternalReferences {
	if !n.factory.Spec().SupportsExternalReferences() {
		return nil
	}
	valid := normalize.Collect(refs,
		n.factory.MakeForExternalReference().Normalize,
		func(ref cyclonedx.ExternalReference, err error) {
			log.Warn("skipping external reference '%s': %v", ref.URL, err)
		})
	if len(valid) == 0 {
		return nil
	}
	return &ExternalReferences{Reference: valid}
}

// ExternalReferenceNormalizer normalizes a reference element
type ExternalReferenceNormalizer struct {
	factory Factory
}

// Normalize returns the reference element
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
		Type:    string(typ),
		URL:     ref.URL,
		Comment: ref.Comment,
	}
	if s.SupportsExternalReferenceHashes() {
		out.Hashes = n.factory.MakeForHashDictionary().Normalize(ref.Hashes)
	}
	return out, nil
}
