package composer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/log"
)

const (
	composerJSON = "composer.json"
	composerLock = "composer.lock"
)

// Source reads Composer projects
type Source struct {
	cdxbom.BaseSource
}

func init() {
	cdxbom.RegisterSource(&Source{})
}

// Configure sets the options for this Source
func (s *Source) Configure() error {
	return nil
}

// Detect reports whether path holds a composer.lock
func (s *Source) Detect(path string) bool {
	_, err := os.Stat(filepath.Join(path, composerLock))
	return err == nil
}

// Load reads composer.lock and, when available, composer.json in path.
// Platform requirements such as "php" or "ext-json" have no package and
// stay unresolved.
func (s *Source) Load(path string) (*cdxbom.Project, error) {
	lock := &lockfile{}
	if err := readJSON(filepath.Join(path, composerLock), lock); err != nil {
		return nil, err
	}
	log.Info("read '%s' in '%s'", composerLock, path)

	project := &cdxbom.Project{}
	for _, p := range lock.Packages {
		if pkg := s.toPackage(p, false); pkg != nil {
			project.Packages = append(project.Packages, pkg)
		}
	}
	for _, p := range lock.PackagesDev {
		if pkg := s.toPackage(p, true); pkg != nil {
			project.Packages = append(project.Packages, pkg)
		}
	}

	root, err := s.readRoot(path, lock)
	if err != nil {
		return nil, err
	}
	project.Root = root
	return project, nil
}

func (s *Source) readRoot(path string, lock *lockfile) (*cdxbom.Package, error) {
	manifest := &composerPackage{}
	err := readJSON(filepath.Join(path, composerJSON), manifest)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if os.IsNotExist(err) {
		// without a manifest, every locked package is a direct requirement
		log.Debug("no '%s' in '%s'", composerJSON, path)
		for _, p := range lock.Packages {
			manifest.Require = appendKey(manifest.Require, p.Name)
		}
		for _, p := range lock.PackagesDev {
			manifest.RequireDev = appendKey(manifest.RequireDev, p.Name)
		}
	}
	if manifest.Name == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		manifest.Name = filepath.Base(abs)
	}

	root := s.newPackage(manifest)
	root.Type = "project"
	root.NoVersion = manifest.Version == ""
	root.Requires = s.requirements(manifest.Require)
	root.DevRequires = s.requirements(manifest.RequireDev)
	return root, nil
}

func appendKey(m map[string]string, key string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[key] = "*"
	return m
}

func (s *Source) toPackage(p *composerPackage, dev bool) *cdxbom.Package {
	if p.Name == "" {
		log.Warn("skipping a locked package without a name")
		return nil
	}
	if s.Excluded(p.Name) {
		log.Debug("skipping '%s'", p.Name)
		return nil
	}

	pkg := s.newPackage(p)
	pkg.DevOnly = dev
	pkg.Plugin = p.Type == "composer-plugin"
	pkg.Requires = s.requirements(p.Require)
	for _, name := range sortedKeys(p.Replace) {
		pkg.Aliases = append(pkg.Aliases, name)
	}
	for _, name := range sortedKeys(p.Provide) {
		pkg.Aliases = append(pkg.Aliases, name)
	}
	if p.Dist != nil && p.Dist.Shasum != "" {
		pkg.Hashes = map[string]string{"SHA-1": p.Dist.Shasum}
	}
	return pkg
}

func (s *Source) newPackage(p *composerPackage) *cdxbom.Package {
	pkg := &cdxbom.Package{
		Key:         p.Name,
		Name:        p.Name,
		Version:     p.Version,
		Type:        p.Type,
		PURLType:    cdxbom.ComposerPackage,
		Description: p.Description,
		Licenses:    []string(p.License),
	}
	if i := strings.Index(p.Name, "/"); i != -1 {
		pkg.Group, pkg.Name = p.Name[:i], p.Name[i+1:]
	}
	pkg.References = p.references()
	return pkg
}

func (s *Source) requirements(require map[string]string) []string {
	names := []string{}
	for _, name := range sortedKeys(require) {
		if s.Excluded(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("bad %s: %v", filepath.Base(path), err)
	}
	return nil
}

type lockfile struct {
	Packages    []*composerPackage `json:"packages"`
	PackagesDev []*composerPackage `json:"packages-dev"`
}

type composerPackage struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Homepage    string            `json:"homepage"`
	License     licenses          `json:"license"`
	Require     map[string]string `json:"require"`
	RequireDev  map[string]string `json:"require-dev"`
	Replace     map[string]string `json:"replace"`
	Provide     map[string]string `json:"provide"`
	Source      *location         `json:"source"`
	Dist        *location         `json:"dist"`
	Support     map[string]string `json:"support"`
}

type location struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Shasum    string `json:"shasum"`
}

// support keys and the reference types they map to
var supportTypes = map[string]string{
	"issues": "issue-tracker",
	"docs":   "documentation",
	"chat":   "chat",
	"forum":  "support",
	"irc":    "chat",
	"wiki":   "documentation",
}

func (p *composerPackage) references() []cdxbom.Reference {
	refs := []cdxbom.Reference{}
	if p.Source != nil && p.Source.URL != "" {
		refs = append(refs, cdxbom.Reference{URL: p.Source.URL, Type: "vcs", Comment: p.Source.Reference})
	}
	if p.Dist != nil && p.Dist.URL != "" {
		refs = append(refs, cdxbom.Reference{URL: p.Dist.URL, Type: "distribution"})
	}
	if p.Homepage != "" {
		refs = append(refs, cdxbom.Reference{URL: p.Homepage, Type: "website"})
	}
	for _, key := range sortedKeys(p.Support) {
		if typ, ok := supportTypes[key]; ok && p.Support[key] != "" {
			refs = append(refs, cdxbom.Reference{URL: p.Support[key], Type: typ})
		}
	}
	return refs
}

// licenses is a license list that also accepts a single string
type licenses []string

func (l *licenses) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = licenses{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}
