package gomod

import (
	"path"
	"strings"

	"github.com/mattermost/cdxbom"
)

type module struct {
	Path      string
	Version   string
	Main      bool
	Indirect  bool
	GoVersion string
	Replace   *module
}

func (m *module) key() string {
	if m.Version == "" {
		return m.Path
	}
	return m.Path + "@" + m.Version
}

// local replacements are directories, not module paths
func (m *module) local() bool {
	return strings.HasPrefix(m.Path, ".") || strings.HasPrefix(m.Path, "/")
}

func (m *module) toPackage() *cdxbom.Package {
	pkg := &cdxbom.Package{
		Key:         m.key(),
		Version:     normalizeVersion(m.Version),
		NoVersion:   m.Version == "",
		Type:        "library",
		PURLType:    cdxbom.GolangPackage,
		Description: "Golang module\n",
	}
	if m.local() {
		pkg.Name = m.Path
		pkg.PURLType = ""
	} else {
		pkg.Group, pkg.Name = path.Split(m.Path)
		pkg.Group = strings.TrimSuffix(pkg.Group, "/")
	}
	if m.Main {
		pkg.Type = "project"
		pkg.Description = "Golang main module\n"
	}
	return pkg
}

func normalizeVersion(version string) string {
	// OSS Index matches Go versions without the leading "v"
	return strings.TrimPrefix(version, "v")
}
