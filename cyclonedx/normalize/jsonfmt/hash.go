package jsonfmt

import (
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/normalize"
	"github.com/mattermost/cdxbom/log"
)

// HashDictionaryNormalizer normalizes a hash dictionary
type HashDictionaryNormalizer struct {
	factory Factory
}

// Normalize returns the valid hashes; invalid ones are logged and skipped
func (n *HashDictionaryNormalizer) Normalize(hashes *cyclonedx.HashDictionary) []Hash {
	normalizer := n.factory.MakeForHash()
	return normalize.Collect(hashes.Algorithms(),
		func(alg cyclonedx.HashAlgorithm) (Hash, error) {
			content, _ := hashes.Get(alg)
			return normalizer.Normalize(alg, content)
		},
		func(alg cyclonedx.HashAlgorithm, err error) {
			log.Warn("skipping hash: %v", err)
		})
}

// HashNormalizer normalizes a single hash
type HashNormalizer struct {
	factory Factory
}

// Normalize returns the hash fragment, or an error when the spec rejects
// the algorithm or the content
func (n *HashNormalizer) Normalize(alg cyclonedx.HashAlgorithm, content string) (Hash, error) {
	if err := normalize.CheckHash(alg, content, n.factory.Spec()); err != nil {
		return Hash{}, err
	}
	return Hash{Algorithm: string(alg), Content: content}, nil
}
