package builder

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/spdx"
)

func refs(c *cyclonedx.Component) []string {
	var out []string
	for _, ref := range c.Dependencies.Refs() {
		out = append(out, ref.String())
	}
	return out
}

func testProject() *cdxbom.Project {
	return &cdxbom.Project{
		Root: &cdxbom.Package{
			Name:        "app",
			Version:     "1.0.0",
			Type:        "project",
			Requires:    []string{"a", "missing"},
			DevRequires: []string{"d"},
		},
		Packages: []*cdxbom.Package{
			{Name: "a", Version: "1.0.0", Requires: []string{"b", "a", "d"}, Licenses: []string{"mit"}},
			{Name: "b", Version: "2.0.0", Requires: []string{"a"}, Licenses: []string{"(MIT OR Apache-2.0)"}},
			{Name: "d", Version: "3.0.0", DevOnly: true, Requires: []string{"a"}},
			{Name: "p", Version: "4.0.0", Plugin: true, Type: "composer-plugin"},
		},
	}
}

func TestBuild(t *testing.T) {
	bom, err := New(Options{}, spdx.Licenses()).Build(testProject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := bom.Metadata.Component
	if root.Type != cyclonedx.Application {
		t.Errorf("expected an application root, saw '%s'", root.Type)
	}
	if !reflect.DeepEqual(refs(root), []string{"a@1.0.0"}) {
		t.Errorf("unexpected root dependencies %v", refs(root))
	}

	components := bom.Components.Components()
	var names []string
	for _, c := range components {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"a", "b", "p"}) {
		t.Fatalf("unexpected components %v", names)
	}

	a, b, p := components[0], components[1], components[2]
	// d is left out without --dev, and so is the edge from a
	if !reflect.DeepEqual(refs(a), []string{"b@2.0.0"}) {
		t.Errorf("unexpected dependencies of a: %v", refs(a))
	}
	if !reflect.DeepEqual(refs(b), []string{"a@1.0.0"}) {
		t.Errorf("unexpected dependencies of b: %v", refs(b))
	}
	if p.Type != cyclonedx.Library {
		t.Errorf("expected a plugin to be a library, saw '%s'", p.Type)
	}

	if licenses, ok := a.Licenses.(cyclonedx.DisjunctiveLicenses); !ok || len(licenses) != 1 || licenses[0].ID != "MIT" {
		t.Errorf("unexpected licenses of a: %#v", a.Licenses)
	}
	if expression, ok := b.Licenses.(cyclonedx.LicenseExpression); !ok || expression != "(MIT OR Apache-2.0)" {
		t.Errorf("unexpected licenses of b: %#v", b.Licenses)
	}
}

func TestBuildDev(t *testing.T) {
	bom, err := New(Options{IncludeDev: true, ExcludePlugins: true}, spdx.Licenses()).Build(testProject())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(refs(bom.Metadata.Component), []string{"a@1.0.0", "d@3.0.0"}) {
		t.Errorf("unexpected root dependencies %v", refs(bom.Metadata.Component))
	}

	var a, d *cyclonedx.Component
	for _, c := range bom.Components.Components() {
		switch c.Name {
		case "p":
			t.Error("expected the plugin to be excluded")
		case "a":
			a = c
		case "d":
			d = c
		}
	}
	if a == nil || !reflect.DeepEqual(refs(a), []string{"b@2.0.0", "d@3.0.0"}) {
		t.Errorf("expected a to depend on the dev package, saw %v", a)
	}
	if d == nil {
		t.Fatal("expected the dev package to be included")
	}
	expected := []cyclonedx.Property{{Name: DevRequirementProperty, Value: "true"}}
	if !reflect.DeepEqual(d.Properties, expected) {
		t.Errorf("unexpected properties %v", d.Properties)
	}
}

func TestBuildCoalesce(t *testing.T) {
	project := &cdxbom.Project{
		Root: &cdxbom.Package{Name: "app", Version: "1.0.0", Requires: []string{"left-pad"}},
		Packages: []*cdxbom.Package{
			{Key: "node_modules/left-pad", Name: "left-pad", Version: "1.3.0", PURLType: cdxbom.NpmPackage},
			{Key: "node_modules/x/node_modules/left-pad", Name: "left-pad", Version: "1.3.0", PURLType: cdxbom.NpmPackage, Requires: []string{"x"}},
			{Key: "node_modules/x", Name: "x", Version: "0.1.0", PURLType: cdxbom.NpmPackage},
		},
	}

	bom, err := New(Options{}, spdx.Licenses()).Build(project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := bom.Components.Len(); n != 2 {
		t.Fatalf("expected 2 components, saw %d", n)
	}
	leftPad := bom.Components.Components()[0]
	if leftPad.BomRef.String() != "pkg:npm/left-pad@1.3.0" {
		t.Errorf("unexpected BomRef '%s'", leftPad.BomRef.String())
	}
	if !reflect.DeepEqual(refs(leftPad), []string{"pkg:npm/x@0.1.0"}) {
		t.Errorf("expected merged requirements, saw %v", refs(leftPad))
	}
}

func TestBuildLeavesProjectUnchanged(t *testing.T) {
	rootRequires := make([]string, 1, 4)
	rootRequires[0] = "left-pad"
	requires := make([]string, 1, 4)
	requires[0] = "x"
	project := &cdxbom.Project{
		Root: &cdxbom.Package{Name: "app", Version: "1.0.0", Requires: rootRequires},
		Packages: []*cdxbom.Package{
			{Key: "node_modules/left-pad", Name: "left-pad", Version: "1.3.0", PURLType: cdxbom.NpmPackage, Requires: requires},
			{Key: "node_modules/y/node_modules/left-pad", Name: "left-pad", Version: "1.3.0", PURLType: cdxbom.NpmPackage, Requires: []string{"y"}},
			{Key: "node_modules/app", Name: "app", Version: "1.0.0", Requires: []string{"y"}},
			{Key: "node_modules/x", Name: "x", Version: "0.1.0", PURLType: cdxbom.NpmPackage},
			{Key: "node_modules/y", Name: "y", Version: "0.2.0", PURLType: cdxbom.NpmPackage},
		},
	}

	bom, err := New(Options{}, spdx.Licenses()).Build(project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refs := refs(bom.Components.Components()[0]); len(refs) != 2 {
		t.Errorf("expected merged requirements, saw %v", refs)
	}

	for name, slice := range map[string][]string{"root": rootRequires, "left-pad": requires} {
		if spare := slice[1:cap(slice)]; !reflect.DeepEqual(spare, []string{"", "", ""}) {
			t.Errorf("expected the requirements of %s to be untouched, saw %v", name, spare)
		}
	}
	if !reflect.DeepEqual(project.Packages[0].Requires, []string{"x"}) {
		t.Errorf("unexpected requirements %v", project.Packages[0].Requires)
	}
}

func TestBuildGroupedNames(t *testing.T) {
	project := &cdxbom.Project{
		Root: &cdxbom.Package{Name: "app", Version: "1.0.0", Requires: []string{"composer", "monolog/monolog", "php"}},
		Packages: []*cdxbom.Package{
			{Key: "composer/composer", Group: "composer", Name: "composer", Version: "2.1.0", PURLType: cdxbom.ComposerPackage},
			{Key: "monolog/monolog", Group: "monolog", Name: "monolog", Version: "2.2.0", PURLType: cdxbom.ComposerPackage},
		},
	}

	bom, err := New(Options{}, spdx.Licenses()).Build(project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps := refs(bom.Metadata.Component); !reflect.DeepEqual(deps, []string{"pkg:composer/monolog/monolog@2.2.0"}) {
		t.Errorf("expected only the monolog dependency, saw %v", deps)
	}
}

func TestBuildErrors(t *testing.T) {
	var identityErr *MissingIdentityError
	_, err := New(Options{}, spdx.Licenses()).Build(&cdxbom.Project{
		Root:     &cdxbom.Package{Name: "app", Version: "1.0.0"},
		Packages: []*cdxbom.Package{{Key: "vendor/x", Version: "1.0.0"}},
	})
	if !errors.As(err, &identityErr) {
		t.Errorf("expected a MissingIdentityError, saw %v", err)
	}

	var versionErr *MissingVersionError
	_, err = New(Options{}, spdx.Licenses()).Build(&cdxbom.Project{
		Root: &cdxbom.Package{Name: "app"},
	})
	if !errors.As(err, &versionErr) {
		t.Errorf("expected a MissingVersionError, saw %v", err)
	}

	bom, err := New(Options{RootVersion: "0.0.1"}, spdx.Licenses()).Build(&cdxbom.Project{
		Root: &cdxbom.Package{Name: "app"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version, _ := bom.Metadata.Component.Version(); version != "0.0.1" {
		t.Errorf("expected the root version override, saw '%s'", version)
	}

	// a dev package without a version is never retained, so it can't fail
	_, err = New(Options{}, spdx.Licenses()).Build(&cdxbom.Project{
		Root:     &cdxbom.Package{Name: "app", Version: "1.0.0"},
		Packages: []*cdxbom.Package{{Name: "d", DevOnly: true}},
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateTool(t *testing.T) {
	project := &cdxbom.Project{
		Root: &cdxbom.Package{Name: "app", Version: "1.0.0"},
		Packages: []*cdxbom.Package{
			{Group: "mattermost", Name: "cdxbom", Version: "2.1.0", Hashes: map[string]string{"sha1": "ABCDEF0123456789ABCDEF0123456789ABCDEF01"}},
		},
	}

	tool := &cyclonedx.Tool{Vendor: "Mattermost", Name: "cdxbom", Version: "dev"}
	if !UpdateTool(tool, project, "mattermost/cdxbom") {
		t.Fatal("expected the tool to be found")
	}
	if tool.Version != "2.1.0" {
		t.Errorf("unexpected tool version '%s'", tool.Version)
	}
	if content, _ := tool.Hashes.Get(cyclonedx.SHA1); content != "abcdef0123456789abcdef0123456789abcdef01" {
		t.Errorf("unexpected tool hash '%s'", content)
	}
	if !UpdateTool(tool, project, "mattermost/cdxbom") || tool.Version != "2.1.0" || tool.Hashes.Len() != 1 {
		t.Error("expected updating twice to give the same result")
	}

	if UpdateTool(tool, project, "something-else") {
		t.Error("expected no update for a missing package")
	}

	binary := cyclonedx.NewHashDictionary()
	binary.Set(cyclonedx.SHA256, strings.Repeat("1", 64))
	project.Packages[0].Hashes["SHA-256"] = strings.Repeat("2", 64)
	tool = &cyclonedx.Tool{Vendor: "Mattermost", Name: "cdxbom", Version: "dev", Hashes: binary}
	if !UpdateTool(tool, project, "mattermost/cdxbom") {
		t.Fatal("expected the tool to be found")
	}
	if content, _ := tool.Hashes.Get(cyclonedx.SHA256); content != strings.Repeat("1", 64) {
		t.Errorf("expected the binary digest to be kept, saw '%s'", content)
	}
	if tool.Hashes.Len() != 2 {
		t.Errorf("expected the project SHA-1 to be added, saw %v", tool.Hashes.Algorithms())
	}
}
