package cdxbom

import "testing"

func TestPURL(t *testing.T) {
	purl := PURL("foo", "bar", "baz", "quux")
	if purl != "pkg:foo/bar/baz@quux" {
		t.Fatalf("unexpected PURL output: '%s'", purl)
	}
}

func TestPackagePURL(t *testing.T) {
	tests := map[string]*Package{
		"pkg:npm/react@17.0.1":                  {PURLType: NpmPackage, Name: "react", Version: "17.0.1"},
		"pkg:composer/symfony/console@v5.2.1":    {PURLType: ComposerPackage, Group: "symfony", Name: "console", Version: "v5.2.1"},
		"pkg:golang/github.com/pkg/errors@0.9.1": {PURLType: GolangPackage, Group: "github.com/pkg", Name: "errors", Version: "0.9.1"},
		"":                                       {Name: "unknown", Version: "1.0.0"},
	}
	for expected, pkg := range tests {
		if purl := pkg.PURL(); purl != expected {
			t.Errorf("expected '%s', saw '%s'", expected, purl)
		}
	}
}

func TestFind(t *testing.T) {
	project := &Project{
		Root: &Package{Name: "app"},
		Packages: []*Package{
			{Group: "symfony", Name: "console"},
			{Name: "left-pad"},
		},
	}
	if p := project.Find("app"); p != project.Root {
		t.Errorf("expected the root, saw %v", p)
	}
	if p := project.Find("symfony/console"); p == nil || p.Name != "console" {
		t.Errorf("expected symfony/console, saw %v", p)
	}
	if p := project.Find("left-pad"); p == nil {
		t.Error("expected left-pad")
	}
	if p := project.Find("right-pad"); p != nil {
		t.Errorf("expected nil, saw %v", p)
	}
}
