// Package digest computes the hashes CycloneDX components carry
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/mattermost/cdxbom/cyclonedx"
)

// UnsupportedAlgorithmError is returned for algorithms without an
// implementation
type UnsupportedAlgorithmError struct {
	Algorithm cyclonedx.HashAlgorithm
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported hash algorithm '%s'", e.Algorithm)
}

// New returns a hash for alg
func New(alg cyclonedx.HashAlgorithm) (hash.Hash, error) {
	switch alg {
	case cyclonedx.MD5:
		return md5.New(), nil
	case cyclonedx.SHA1:
		return sha1.New(), nil
	case cyclonedx.SHA256:
		return sha256.New(), nil
	case cyclonedx.SHA384:
		return sha512.New384(), nil
	case cyclonedx.SHA512:
		return sha512.New(), nil
	case cyclonedx.SHA3_256:
		return sha3.New256(), nil
	case cyclonedx.SHA3_384:
		return sha3.New384(), nil
	case cyclonedx.SHA3_512:
		return sha3.New512(), nil
	case cyclonedx.BLAKE2b256:
		return blake2b.New256(nil)
	case cyclonedx.BLAKE2b384:
		return blake2b.New384(nil)
	case cyclonedx.BLAKE2b512:
		return blake2b.New512(nil)
	case cyclonedx.BLAKE3:
		return blake3.New(), nil
	}
	return nil, &UnsupportedAlgorithmError{Algorithm: alg}
}

// Reader hashes everything read from r with every algorithm in algs
func Reader(r io.Reader, algs ...cyclonedx.HashAlgorithm) (*cyclonedx.HashDictionary, error) {
	hashes := make([]hash.Hash, len(algs))
	writers := make([]io.Writer, len(algs))
	for i, alg := range algs {
		h, err := New(alg)
		if err != nil {
			return nil, err
		}
		hashes[i] = h
		writers[i] = h
	}

	if _, err := io.Copy(io.MultiWriter(writers...), r); err != nil {
		return nil, err
	}

	out := cyclonedx.NewHashDictionary()
	for i, alg := range algs {
		out.Set(alg, hex.EncodeToString(hashes[i].Sum(nil)))
	}
	return out, nil
}

// File hashes the file at path with every algorithm in algs
func File(path string, algs ...cyclonedx.HashAlgorithm) (*cyclonedx.HashDictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Reader(f, algs...)
}

// SRI decodes a subresource integrity string such as "sha512-<base64>"
// into an algorithm and a hex digest. Only the first of several
// space-separated entries is used.
func SRI(integrity string) (cyclonedx.HashAlgorithm, string, error) {
	fields := strings.Fields(integrity)
	if len(fields) == 0 {
		return "", "", fmt.Errorf("empty integrity string")
	}

	parts := strings.SplitN(fields[0], "-", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed integrity string '%s'", fields[0])
	}
	alg := cyclonedx.ParseHashAlgorithm(parts[0])

	// options may follow the digest after a '?'
	encoded := strings.SplitN(parts[1], "?", 2)[0]
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", fmt.Errorf("malformed integrity digest '%s': %w", encoded, err)
	}
	return alg, hex.EncodeToString(raw), nil
}
