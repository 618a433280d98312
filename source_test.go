package cdxbom_test

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/mattermost/cdxbom"
)

type TestSource struct {
	cdxbom.BaseSource

	TestPaths   []string `cdxbom:"paths to search"`
	TestEnabled bool     `cdxbom:"enables the source"`
}

func (*TestSource) Configure() error {
	return nil
}

func (*TestSource) Detect(string) bool {
	return false
}

func (*TestSource) Load(string) (*cdxbom.Project, error) {
	return nil, nil
}

func TestResolveName(t *testing.T) {
	s := &TestSource{}

	name := cdxbom.ResolveShortName(s)
	if name != "cdxbom_test" {
		t.Errorf("bad source name: expected 'cdxbom_test', observed '%s'", name)
	}
}

func TestRegisterSource(t *testing.T) {
	s := &TestSource{}
	registered := false

	cdxbom.OnSourceRegistered(func(key string, s2 cdxbom.Source) {
		if strings.HasSuffix(key, "/cdxbom_test") && s2 == s {
			if registered {
				t.Error("OnSourceRegistered callback executed multiple times")
			}
			registered = true
		} else {
			t.Errorf("OnSourceRegistered callback executed for unexpected source: '%s'", key)
		}
	})

	cdxbom.RegisterSource(s)

	if !registered {
		t.Errorf("OnSourceRegistered callback not executed")
	}

	sources := cdxbom.Sources()
	if len(sources) != 1 {
		t.Errorf("expected exactly 1 source to be registered, saw %d", len(sources))
	}

	s2, err := cdxbom.GetSource(cdxbom.ResolveShortName(s))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s2 != s {
		t.Error("output from GetSource doesn't match expected source")
	}

	s2, err = cdxbom.GetSource(cdxbom.ResolveName(s))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if s2 != s {
		t.Error("output from GetSource doesn't match expected source")
	}

	if names := cdxbom.SourceNames(); len(names) != 1 || names[0] != "cdxbom_test" {
		t.Errorf("unexpected source names %v", names)
	}
}

func TestGetSource(t *testing.T) {
	s, err := cdxbom.GetSource("nosuchthing")
	if err == nil {
		t.Error("expected an error when getting an inexistent source, saw nil")
	}
	if s != nil {
		t.Errorf("expected nil source, saw %v", s)
	}

	s, err = cdxbom.GetSource("packagename/nosuchthing")
	if err == nil {
		t.Error("expected an error when getting an inexistent source, saw nil")
	}
	if s != nil {
		t.Errorf("expected nil source, saw %v", s)
	}
}

func TestVisitProperties(t *testing.T) {
	s := &TestSource{}

	var names []string
	cdxbom.VisitProperties(s, func(field reflect.StructField, value reflect.Value) {
		names = append(names, field.Name)
	})
	expected := []string{"Excludes", "TestPaths", "TestEnabled"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("expected properties %v, saw %v", expected, names)
	}
}

func TestSetProperty(t *testing.T) {
	s := &TestSource{}

	if err := cdxbom.SetProperty(s, "TestPaths", "./gradlew:../gradlew"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(s.TestPaths, []string{"./gradlew", "../gradlew"}) {
		t.Errorf("unexpected paths %v", s.TestPaths)
	}

	if err := cdxbom.SetProperty(s, "TestEnabled", "true"); err != nil || !s.TestEnabled {
		t.Errorf("expected enabled, err=%v", err)
	}
	if err := cdxbom.SetProperty(s, "TestEnabled", "yes"); err == nil {
		t.Error("expected an error for a bad boolean")
	}

	if err := cdxbom.SetProperty(s, "Excludes", "^left-pad$"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Excluded("left-pad") || s.Excluded("right-pad") {
		t.Errorf("unexpected exclusion behavior for %v", s.Excludes)
	}
	if err := cdxbom.SetProperty(s, "Excludes", "("); err == nil {
		t.Error("expected an error for a bad regexp")
	}
	if err := cdxbom.SetProperty(s, "NoSuchProperty", "x"); err == nil {
		t.Error("expected an error for an unknown property")
	}
}

func TestExcludedWithoutPattern(t *testing.T) {
	b := cdxbom.BaseSource{}
	if b.Excluded("anything") {
		t.Error("expected nothing to be excluded without a pattern")
	}
	b.Excludes = regexp.MustCompile("thing")
	if !b.Excluded("anything") {
		t.Error("expected 'anything' to be excluded")
	}
}
