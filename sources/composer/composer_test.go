package composer

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/mattermost/cdxbom/builder"
	"github.com/mattermost/cdxbom/spdx"
)

func TestLoad(t *testing.T) {
	s := &Source{}
	if err := s.Configure(); err != nil {
		t.Fatal(err)
	}
	if !s.Detect("./testdata/app") || s.Detect("./testdata") {
		t.Fatal("unexpected Detect result")
	}

	project, err := s.Load("./testdata/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := project.Root
	if root.Group != "acme" || root.Name != "app" || !root.NoVersion || root.Type != "project" {
		t.Errorf("unexpected root %+v", root)
	}
	if !reflect.DeepEqual(root.Requires, []string{"ext-json", "php", "psr/log-implementation", "symfony/console"}) {
		t.Errorf("unexpected root requirements %v", root.Requires)
	}
	if !reflect.DeepEqual(root.DevRequires, []string{"phpunit/phpunit"}) {
		t.Errorf("unexpected root dev requirements %v", root.DevRequires)
	}

	monolog := project.Find("monolog/monolog")
	if monolog == nil {
		t.Fatal("expected monolog")
	}
	if monolog.PURL() != "pkg:composer/monolog/monolog@2.2.0" {
		t.Errorf("unexpected PURL '%s'", monolog.PURL())
	}
	if !reflect.DeepEqual(monolog.Aliases, []string{"psr/log-implementation"}) {
		t.Errorf("unexpected aliases %v", monolog.Aliases)
	}
	if monolog.Hashes["SHA-1"] != "A2B5E6F7C8D9E0F1A2B3C4D5E6F7A8B9C0D1E2F3" {
		t.Errorf("unexpected hashes %v", monolog.Hashes)
	}
	var types []string
	for _, ref := range monolog.References {
		types = append(types, ref.Type)
	}
	if !reflect.DeepEqual(types, []string{"vcs", "distribution", "website", "issue-tracker"}) {
		t.Errorf("unexpected reference types %v", types)
	}

	if psrLog := project.Find("psr/log"); psrLog.Hashes != nil {
		t.Errorf("expected no hashes for an empty shasum, saw %v", psrLog.Hashes)
	}

	plugin := project.Find("composer/package-versions-deprecated")
	if !plugin.Plugin || !reflect.DeepEqual(plugin.Licenses, []string{"MIT"}) {
		t.Errorf("unexpected plugin %+v", plugin)
	}
	if phpunit := project.Find("phpunit/phpunit"); !phpunit.DevOnly {
		t.Error("expected phpunit to be dev-only")
	}
}

func TestLoadWithoutManifest(t *testing.T) {
	project, err := (&Source{}).Load("./testdata/nomanifest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{
		"composer/package-versions-deprecated",
		"monolog/monolog",
		"psr/log",
		"symfony/console",
	}
	if project.Root.Name != "nomanifest" || !reflect.DeepEqual(project.Root.Requires, expected) {
		t.Errorf("unexpected root %+v", project.Root)
	}
}

func TestLoadExcludes(t *testing.T) {
	s := &Source{}
	s.Excludes = regexp.MustCompile("^psr/")
	project, err := s.Load("./testdata/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.Find("psr/log") != nil {
		t.Error("expected psr/log to be excluded")
	}
	if !reflect.DeepEqual(project.Find("symfony/console").Requires, []string{"php"}) {
		t.Errorf("unexpected requirements %v", project.Find("symfony/console").Requires)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := (&Source{}).Load("./testdata/bad"); err == nil {
		t.Error("expected an error for a bad lockfile")
	}
	if _, err := (&Source{}).Load("./testdata/missing"); err == nil {
		t.Error("expected an error for a missing lockfile")
	}
}

func TestBuild(t *testing.T) {
	project, err := (&Source{}).Load("./testdata/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bom, err := builder.New(builder.Options{ExcludePlugins: true}, spdx.Licenses()).Build(project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var refs []string
	for _, ref := range bom.Metadata.Component.Dependencies.Refs() {
		refs = append(refs, ref.String())
	}
	// the psr/log-implementation requirement resolves through monolog's
	// provide entry
	expected := []string{"pkg:composer/monolog/monolog@2.2.0", "pkg:composer/symfony/console@v5.2.1"}
	if !reflect.DeepEqual(refs, expected) {
		t.Errorf("unexpected root dependencies %v", refs)
	}

	for _, component := range bom.Components.Components() {
		switch component.Name {
		case "package-versions-deprecated":
			t.Error("expected the plugin to be excluded")
		case "phpunit":
			t.Error("expected the dev package to be excluded")
		}
	}
	if n := bom.Components.Len(); n != 3 {
		t.Errorf("expected 3 components, saw %d", n)
	}
}
