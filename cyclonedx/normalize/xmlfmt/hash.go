package xmlfmt

import (
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
	"github.com/mattermost/cdxbom/log"
)

// HashDictionaryNormalizer normalizes the hashes element
type HashDictionaryNormalizer struct {
	factory Factory
}

// Normalize returns the valid hashes, or nil when none survive
func (n *HashDictionaryNormalizer) Normalize(hashes *cyclonedx.HashDictionary) *Hashes {
	normalizer := n.factory.MakeForHash()
	valid := normalize.Collect(hashes.Algorithms(),
		func(alg cyclonedx.HashAlgorithm) (Hash, error) {
			content, _ := hashes.Get(alg)
			return normalizer.Normalize(alg, content)
		},
		func(alg cyclonedx.HashAlgorithm, err error) {
			log.Warn("skipping hash: %v", err)
		})
	if len(valid) == 0 {
		return nil
	}
	return &Hashes{Hash: valid}
}

// HashNormalizer normalizes a hash element
type HashNormalizer struct {
	factory Factory
}

// Normalize returns the hash element, or an error when the spec rejects
// the algorithm or the content
func (n *HashNormalizer) Normalize(alg cyclonedx.HashAlgorithm, content string) (Hash, error) {
	if err := normalize.CheckHash(alg, content, n.factory.Spec()); err != nil {
		return Hash{}, err
	}
	return Hash{Algorithm: string(alg), Content: content}, nil
}
