package cyclonedx

import (
	"sort"
	"strings"
)

// HashAlgorithm names a hash algorithm as spelled in the CycloneDX spec
type HashAlgorithm string

// HashAlgorithm values
const (
	MD5        HashAlgorithm = "MD5"
	SHA1       HashAlgorithm = "SHA-1"
	SHA256     HashAlgorithm = "SHA-256"
	SHA384     HashAlgorithm = "SHA-384"
	SHA512     HashAlgorithm = "SHA-512"
	SHA3_256   HashAlgorithm = "SHA3-256"
	SHA3_384   HashAlgorithm = "SHA3-384"
	SHA3_512   HashAlgorithm = "SHA3-512"
	BLAKE2b256 HashAlgorithm = "BLAKE2b-256"
	BLAKE2b384 HashAlgorithm = "BLAKE2b-384"
	BLAKE2b512 HashAlgorithm = "BLAKE2b-512"
	BLAKE3     HashAlgorithm = "BLAKE3"
)

// HashAlgorithms lists every algorithm this model knows about
var HashAlgorithms = []HashAlgorithm{
	MD5, SHA1, SHA256, SHA384, SHA512,
	SHA3_256, SHA3_384, SHA3_512,
	BLAKE2b256, BLAKE2b384, BLAKE2b512, BLAKE3,
}

// ParseHashAlgorithm maps loose spellings such as "sha1", "sha-256" or
// "blake2b_512" onto a HashAlgorithm. Unknown names are returned as-is so
// normalization can reject them later.
func ParseHashAlgorithm(name string) HashAlgorithm {
	squashed := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToUpper(name))
	for _, alg := range HashAlgorithms {
		if strings.ReplaceAll(strings.ToUpper(string(alg)), "-", "") == squashed {
			return alg
		}
	}
	return HashAlgorithm(name)
}

// HashDictionary maps algorithms to digests. Keys are unique; iteration
// is in sorted algorithm order so output is stable.
type HashDictionary struct {
	hashes map[HashAlgorithm]string
}

// NewHashDictionary returns an empty dictionary
func NewHashDictionary() *HashDictionary {
	return &HashDictionary{hashes: make(map[HashAlgorithm]string)}
}

// Set stores content under alg, replacing any previous value. Empty
// content removes the entry.
func (d *HashDictionary) Set(alg HashAlgorithm, content string) {
	if d.hashes == nil {
		d.hashes = make(map[HashAlgorithm]string)
	}
	if content == "" {
		delete(d.hashes, alg)
		return
	}
	d.hashes[alg] = content
}

// Get returns the content stored under alg
func (d *HashDictionary) Get(alg HashAlgorithm) (string, bool) {
	if d == nil {
		return "", false
	}
	content, ok := d.hashes[alg]
	return content, ok
}

// Algorithms returns the stored algorithms in sorted order
func (d *HashDictionary) Algorithms() []HashAlgorithm {
	if d == nil {
		return nil
	}
	algs := make([]HashAlgorithm, 0, len(d.hashes))
	for alg := range d.hashes {
		algs = append(algs, alg)
	}
	sort.Slice(algs, func(i, j int) bool { return algs[i] < algs[j] })
	return algs
}

// Len returns the number of entries
func (d *HashDictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.hashes)
}
