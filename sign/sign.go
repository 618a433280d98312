// Package sign produces and checks detached OpenPGP signatures of BOM
// documents
package sign

import (
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Signer signs documents with the first private key of a keyring
type Signer struct {
	entity *openpgp.Entity
}

// NewSigner reads an armored keyring and unlocks its signing key with
// passphrase
func NewSigner(keyring io.Reader, passphrase []byte) (*Signer, error) {
	entities, err := openpgp.ReadArmoredKeyRing(keyring)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	for _, entity := range entities {
		if entity.PrivateKey == nil {
			continue
		}
		if entity.PrivateKey.Encrypted {
			if err := entity.DecryptPrivateKeys(passphrase); err != nil {
				return nil, fmt.Errorf("failed to unlock key %X: %w", entity.PrimaryKey.Fingerprint, err)
			}
		}
		return &Signer{entity: entity}, nil
	}
	return nil, fmt.Errorf("no private key found in keyring")
}

// NewSignerFromFile reads the keyring at path
func NewSignerFromFile(path string, passphrase []byte) (*Signer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer f.Close()
	return NewSigner(f, passphrase)
}

// Sign writes an armored detached signature of message to w
func (s *Signer) Sign(w io.Writer, message io.Reader) error {
	if err := openpgp.ArmoredDetachSign(w, s.entity, message, nil); err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	return nil
}

// Verify checks an armored detached signature of message against the
// public keys of keyring
func Verify(keyring, message, signature io.Reader) error {
	entities, err := openpgp.ReadArmoredKeyRing(keyring)
	if err != nil {
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	if _, err := openpgp.CheckArmoredDetachedSignature(entities, message, signature, nil); err != nil {
		return fmt.Errorf("bad signature: %w", err)
	}
	return nil
}
