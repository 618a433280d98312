package sign

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

func testKeys(t *testing.T) (private, public []byte) {
	t.Helper()

	entity, err := openpgp.NewEntity("cdxbom test", "", "test@example.com", nil)
	if err != nil {
		t.Fatalf("failed to create entity: %v", err)
	}

	var priv bytes.Buffer
	w, err := armor.Encode(&priv, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := entity.SerializePrivate(w, nil); err != nil {
		t.Fatal(err)
	}
	w.Close()

	var pub bytes.Buffer
	w, err = armor.Encode(&pub, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatal(err)
	}
	w.Close()

	return priv.Bytes(), pub.Bytes()
}

func TestSignVerify(t *testing.T) {
	private, public := testKeys(t)

	signer, err := NewSigner(bytes.NewReader(private), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	document := `{"bomFormat":"CycloneDX","specVersion":"1.3","version":1}`
	var signature bytes.Buffer
	if err := signer.Sign(&signature, strings.NewReader(document)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(signature.String(), "-----BEGIN PGP SIGNATURE-----") {
		t.Errorf("expected an armored signature, saw %q", signature.String())
	}

	if err := Verify(bytes.NewReader(public), strings.NewReader(document), bytes.NewReader(signature.Bytes())); err != nil {
		t.Errorf("unexpected verification error: %v", err)
	}
	if err := Verify(bytes.NewReader(public), strings.NewReader(document+" "), bytes.NewReader(signature.Bytes())); err == nil {
		t.Error("expected a tampered document to fail verification")
	}
}

func TestNewSignerErrors(t *testing.T) {
	if _, err := NewSigner(strings.NewReader("not a key"), nil); err == nil {
		t.Error("expected an error for a bad keyring")
	}

	_, public := testKeys(t)
	if _, err := NewSigner(bytes.NewReader(public), nil); err == nil || !strings.Contains(err.Error(), "no private key") {
		t.Errorf("expected a missing private key error, saw %v", err)
	}

	if _, err := NewSignerFromFile("/nonexistent/key.asc", nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}
