package gomod

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func fakeGo(t *testing.T) func(string, ...string) ([]byte, error) {
	return func(dir string, args ...string) ([]byte, error) {
		switch strings.Join(args, " ") {
		case "list -mod readonly -m -json all":
			return os.ReadFile("./testdata/list.json")
		case "mod graph":
			return os.ReadFile("./testdata/graph.txt")
		case "version":
			return []byte("go version go1.22.1 linux/amd64\n"), nil
		}
		t.Fatalf("unexpected go command: %v", args)
		return nil, fmt.Errorf("unexpected go command")
	}
}

func TestLoad(t *testing.T) {
	s := &Source{run: fakeGo(t)}
	if err := s.Configure(); err != nil {
		t.Fatal(err)
	}
	if !s.Detect("./testdata/testmodule") || s.Detect("./testdata") {
		t.Fatal("unexpected Detect result")
	}

	project, err := s.Load("./testdata/testmodule")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := project.Root
	if root.Group != "example.com" || root.Name != "testmodule" || !root.NoVersion || root.Type != "project" {
		t.Errorf("unexpected root %+v", root)
	}
	expected := []string{
		"github.com/pkg/errors",
		"github.com/spf13/cobra",
		"github.com/inconshreveable/mousetrap",
		"github.com/spf13/pflag",
	}
	if !reflect.DeepEqual(root.Requires, expected) {
		t.Errorf("unexpected root requirements %v", root.Requires)
	}

	var names []string
	for _, pkg := range project.Packages {
		names = append(names, pkg.Group+"/"+pkg.Name+"@"+pkg.Version)
	}
	expected = []string{
		"github.com/inconshreveable/mousetrap@1.1.0",
		"github.com/pkg/errors@0.9.1",
		"github.com/example/errors@0.9.2",
		"github.com/spf13/cobra@1.8.0",
		"github.com/spf13/pflag@1.0.5",
	}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("unexpected packages %v", names)
	}

	cobra := project.Find("github.com/spf13/cobra")
	if !reflect.DeepEqual(cobra.Requires, []string{"github.com/inconshreveable/mousetrap", "github.com/spf13/pflag"}) {
		t.Errorf("unexpected cobra requirements %v", cobra.Requires)
	}
	if cobra.PURL() != "pkg:golang/github.com/spf13/cobra@1.8.0" {
		t.Errorf("unexpected PURL '%s'", cobra.PURL())
	}

	errorsPkg := project.Find("github.com/pkg/errors")
	if !reflect.DeepEqual(errorsPkg.Requires, []string{"github.com/example/errors@v0.9.2"}) {
		t.Errorf("expected the original module to require its replacement, saw %v", errorsPkg.Requires)
	}
	if !strings.Contains(errorsPkg.Description, "Replaced with module github.com/example/errors") {
		t.Errorf("unexpected description %q", errorsPkg.Description)
	}
}

func TestLoadStdlibAndExcludes(t *testing.T) {
	s := &Source{run: fakeGo(t), GomodStdlib: true}
	s.Excludes = regexp.MustCompile("pflag")
	s.Configure()

	project, err := s.Load("./testdata/testmodule")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.Find("github.com/spf13/pflag") != nil {
		t.Error("expected pflag to be excluded")
	}
	golang := project.Find(stdlib)
	if golang == nil || golang.Version != "1.22.1" {
		t.Fatalf("expected the standard library at 1.22.1, saw %+v", golang)
	}
	if requires := project.Root.Requires; requires[len(requires)-1] != stdlib {
		t.Errorf("expected the root to require the standard library, saw %v", requires)
	}
}

func TestResolveGraphErrors(t *testing.T) {
	if err := resolveGraph(strings.NewReader("a b c\n"), nil); err == nil {
		t.Error("expected an error for a malformed graph line")
	}
}
