package cocoapods

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	s := &Source{}
	if err := s.Configure(); err != nil {
		t.Fatal(err)
	}
	if !s.Detect("./testdata/testapp") || s.Detect("./testdata") {
		t.Fatal("unexpected Detect result")
	}

	project, err := s.Load("./testdata/testapp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if project.Root.Name != "testapp" || !project.Root.NoVersion {
		t.Errorf("unexpected root %+v", project.Root)
	}
	if !reflect.DeepEqual(project.Root.Requires, []string{"AFNetworking", "ORStackView"}) {
		t.Errorf("unexpected root requirements %v", project.Root.Requires)
	}

	expected := map[string]string{
		"AFNetworking":                 "2.7.0",
		"AFNetworking/NSURLConnection": "2.7.0",
		"AFNetworking/NSURLSession":    "2.7.0",
		"AFNetworking/Reachability":    "2.7.0",
		"AFNetworking/Security":        "2.7.0",
		"AFNetworking/Serialization":   "2.7.0",
		"AFNetworking/UIKit":           "2.7.0",
		"FLKAutoLayout":                "0.2.1",
		"ORStackView":                  "3.0.1",
	}
	if len(project.Packages) != len(expected) {
		t.Fatalf("expected %d packages, saw %d", len(expected), len(project.Packages))
	}
	for _, pkg := range project.Packages {
		if version, ok := expected[pkg.Name]; !ok || version != pkg.Version {
			t.Errorf("unexpected package %s@%s", pkg.Name, pkg.Version)
		}
	}

	orStackView := project.Find("ORStackView")
	if orStackView.PURL() != "pkg:cocoapods/ORStackView@3.0.1" {
		t.Errorf("unexpected PURL '%s'", orStackView.PURL())
	}
	if !reflect.DeepEqual(orStackView.Requires, []string{"FLKAutoLayout"}) {
		t.Errorf("unexpected requirements %v", orStackView.Requires)
	}
	if orStackView.Hashes["SHA-1"] != "a1d3a6d16a8c1b1b1c1f4d3f7c0c2a3e5e7f6a9b" {
		t.Errorf("unexpected hashes %v", orStackView.Hashes)
	}
	if project.Find("AFNetworking/Security").Hashes["SHA-1"] != "4cd1c1a6bbbe5e25d2d1cf38a4bc2bd3e9f2a0c7" {
		t.Error("expected a subspec to carry the checksum of its pod")
	}
}

func TestLoadDescribe(t *testing.T) {
	s := &Source{CocoapodsDescribe: true}
	project, err := s.Load("./testdata/testapp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	description := project.Find("FLKAutoLayout").Description
	if !strings.Contains(description, "Required by:\n\tORStackView@3.0.1\n\ttestapp") {
		t.Errorf("unexpected description %q", description)
	}
}

func TestLoadExcludes(t *testing.T) {
	s := &Source{}
	s.Excludes = regexp.MustCompile("^AFNetworking")
	project, err := s.Load("./testdata/testapp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(project.Packages) != 2 {
		t.Errorf("expected 2 packages, saw %d", len(project.Packages))
	}
	if !reflect.DeepEqual(project.Root.Requires, []string{"ORStackView"}) {
		t.Errorf("unexpected root requirements %v", project.Root.Requires)
	}
}

func TestLoadErrors(t *testing.T) {
	s := &Source{}
	if _, err := s.Load("./testdata/bad"); err == nil {
		t.Error("expected an error for a bad lockfile")
	}
	if _, err := s.Load("./testdata/missing"); err == nil {
		t.Error("expected an error for a missing lockfile")
	}
}
