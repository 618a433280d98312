package cyclonedx

import "testing"

func TestBomRefEqual(t *testing.T) {
	var unset BomRef
	if unset.Equal(unset) {
		t.Error("unset BomRefs must never be equal")
	}
	if NewBomRef("a").Equal(unset) || unset.Equal(NewBomRef("a")) {
		t.Error("an unset BomRef must not equal a set one")
	}
	if !NewBomRef("a").Equal(NewBomRef("a")) {
		t.Error("BomRefs with equal values should be equal")
	}
	if NewBomRef("").Equal(unset) {
		t.Error("an empty but set BomRef must not equal an unset one")
	}
}

func TestBomRefSet(t *testing.T) {
	s := NewBomRefSet(NewBomRef("b"), BomRef{}, NewBomRef("a"), NewBomRef("b"))
	if s.Len() != 2 {
		t.Fatalf("expected 2 members, saw %d", s.Len())
	}
	refs := s.Refs()
	if refs[0].String() != "b" || refs[1].String() != "a" {
		t.Errorf("unexpected order: %v", refs)
	}
	if s.Contains(BomRef{}) {
		t.Error("set must not contain an unset BomRef")
	}

	var nilSet *BomRefSet
	if nilSet.Len() != 0 || nilSet.Contains(NewBomRef("a")) {
		t.Error("nil set should behave as empty")
	}
}

func TestParseHashAlgorithm(t *testing.T) {
	tests := map[string]HashAlgorithm{
		"sha1":        SHA1,
		"SHA-1":       SHA1,
		"sha-256":     SHA256,
		"sha3_512":    SHA3_512,
		"blake2b-384": BLAKE2b384,
		"blake3":      BLAKE3,
		"md5":         MD5,
		"whirlpool":   HashAlgorithm("whirlpool"),
	}
	for in, expected := range tests {
		if alg := ParseHashAlgorithm(in); alg != expected {
			t.Errorf("ParseHashAlgorithm(%q) = %q, want %q", in, alg, expected)
		}
	}
}

func TestHashDictionary(t *testing.T) {
	d := NewHashDictionary()
	d.Set(SHA256, "bb")
	d.Set(MD5, "aa")
	d.Set(SHA1, "cc")
	d.Set(SHA1, "")

	algs := d.Algorithms()
	if len(algs) != 2 || algs[0] != MD5 || algs[1] != SHA256 {
		t.Errorf("unexpected algorithms: %v", algs)
	}
	if _, ok := d.Get(SHA1); ok {
		t.Error("empty content should remove the entry")
	}
}

func TestComponentVersion(t *testing.T) {
	c := NewComponent(Library, "foo", "")
	if v, ok := c.Version(); !ok || v != "" {
		t.Errorf("expected an empty but set version, saw %q %v", v, ok)
	}
	c.ClearVersion()
	if _, ok := c.Version(); ok {
		t.Error("expected no version after ClearVersion")
	}
}

func TestDegradeExpression(t *testing.T) {
	licenses := DegradeExpression("(MIT OR Apache-2.0)")
	if len(licenses) != 1 {
		t.Fatalf("expected exactly one license, saw %d", len(licenses))
	}
	if licenses[0].ID != "" || licenses[0].Name != "(MIT OR Apache-2.0)" {
		t.Errorf("unexpected license: %+v", licenses[0])
	}
}

func TestKnownBomRefs(t *testing.T) {
	bom := NewBOM()
	root := NewComponent(Application, "root", "1.0.0")
	root.BomRef = NewBomRef("root")
	bom.Metadata = &MetaData{Component: root}

	a := NewComponent(Library, "a", "1")
	a.BomRef = NewBomRef("a")
	b := NewComponent(Library, "b", "1")
	bom.Components.Add(a, b, nil)

	known := bom.KnownBomRefs()
	if len(known) != 2 || !known["root"] || !known["a"] {
		t.Errorf("unexpected known refs: %v", known)
	}
	if bom.Components.Len() != 2 {
		t.Errorf("nil components should be ignored, saw %d", bom.Components.Len())
	}
	if bom.Components.FindByBomRef(NewBomRef("a")) != a {
		t.Error("FindByBomRef did not return component a")
	}
	if bom.Components.FindByBomRef(BomRef{}) != nil {
		t.Error("FindByBomRef must not match an unset ref")
	}
}
