package spec

import (
	"errors"
	"testing"

	"github.com/mattermost/cdxbom/cyclonedx"
)

func TestLookup(t *testing.T) {
	for _, v := range Versions() {
		s, err := Lookup(v)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", v, err)
		}
		if s.Version() != v {
			t.Errorf("Lookup(%s).Version() = %s", v, s.Version())
		}
	}

	_, err := Lookup("0.9")
	var unknown *UnknownSpecVersionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSpecVersionError, saw %v", err)
	}
	if unknown.Version != "0.9" {
		t.Errorf("unexpected version in error: %s", unknown.Version)
	}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		version      Version
		expression   bool
		metadata     bool
		dependencies bool
		bomRef       bool
		json         bool
		container    bool
		file         bool
		blake3       bool
		properties   bool
	}{
		{V1_0, false, false, false, false, false, false, false, false, false},
		{V1_1, true, false, false, true, false, false, true, true, false},
		{V1_2, true, true, true, true, true, true, true, true, false},
		{V1_3, true, true, true, true, true, true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.version), func(t *testing.T) {
			s := MustLookup(tt.version)
			if s.SupportsLicenseExpression() != tt.expression {
				t.Errorf("SupportsLicenseExpression() = %v", s.SupportsLicenseExpression())
			}
			if s.SupportsMetaData() != tt.metadata {
				t.Errorf("SupportsMetaData() = %v", s.SupportsMetaData())
			}
			if s.SupportsDependencies() != tt.dependencies {
				t.Errorf("SupportsDependencies() = %v", s.SupportsDependencies())
			}
			if s.SupportsBomRef() != tt.bomRef {
				t.Errorf("SupportsBomRef() = %v", s.SupportsBomRef())
			}
			if s.SupportsFormat(JSON) != tt.json {
				t.Errorf("SupportsFormat(JSON) = %v", s.SupportsFormat(JSON))
			}
			if !s.SupportsFormat(XML) {
				t.Error("every version should support XML")
			}
			if s.IsSupportedComponentType(cyclonedx.Container) != tt.container {
				t.Errorf("IsSupportedComponentType(container) = %v", s.IsSupportedComponentType(cyclonedx.Container))
			}
			if s.IsSupportedComponentType(cyclonedx.File) != tt.file {
				t.Errorf("IsSupportedComponentType(file) = %v", s.IsSupportedComponentType(cyclonedx.File))
			}
			if s.IsSupportedHashAlgorithm(cyclonedx.BLAKE3) != tt.blake3 {
				t.Errorf("IsSupportedHashAlgorithm(BLAKE3) = %v", s.IsSupportedHashAlgorithm(cyclonedx.BLAKE3))
			}
			if s.SupportsProperties() != tt.properties {
				t.Errorf("SupportsProperties() = %v", s.SupportsProperties())
			}
			if !s.IsSupportedComponentType(cyclonedx.Library) {
				t.Error("library should always be supported")
			}
			if s.IsSupportedComponentType("os") {
				t.Error("'os' is not a CycloneDX classification")
			}
			if !s.RequiresComponentVersion() {
				t.Error("all known versions require a component version")
			}
		})
	}
}

func TestHashContent(t *testing.T) {
	s := MustLookup(V1_2)
	valid := []string{
		"d41d8cd98f00b204e9800998ecf8427e",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855",
	}
	for _, content := range valid {
		if !s.IsSupportedHashContent(content) {
			t.Errorf("expected '%s' to be accepted", content)
		}
	}
	invalid := []string{"", "xyz", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "sha1-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	for _, content := range invalid {
		if s.IsSupportedHashContent(content) {
			t.Errorf("expected '%s' to be rejected", content)
		}
	}
}

func TestXMLNamespace(t *testing.T) {
	if ns := MustLookup(V1_1).XMLNamespace(); ns != "http://cyclonedx.org/schema/bom/1.1" {
		t.Errorf("unexpected namespace '%s'", ns)
	}
}

func TestTypeAndHashLists(t *testing.T) {
	if n := len(MustLookup(V1_0).ComponentTypes()); n != 5 {
		t.Errorf("expected 5 component types in 1.0, saw %d", n)
	}
	if n := len(MustLookup(V1_1).ComponentTypes()); n != 6 {
		t.Errorf("expected 6 component types in 1.1, saw %d", n)
	}
	if n := len(MustLookup(V1_3).ComponentTypes()); n != 8 {
		t.Errorf("expected 8 component types in 1.3, saw %d", n)
	}
	if n := len(MustLookup(V1_0).HashAlgorithms()); n != 7 {
		t.Errorf("expected 7 hash algorithms in 1.0, saw %d", n)
	}
	if n := len(MustLookup(V1_1).HashAlgorithms()); n != 12 {
		t.Errorf("expected 12 hash algorithms in 1.1, saw %d", n)
	}
}
