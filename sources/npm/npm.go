package npm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/digest"
	"github.com/mattermost/cdxbom/log"
)

const (
	packageLock   = "package-lock.json"
	npmShrinkwrap = "npm-shrinkwrap.json"
	packageJSON   = "package.json"
	nodeModules   = "node_modules/"
)

// Source reads npm projects from their lockfile
type Source struct {
	cdxbom.BaseSource

	NpmOptional bool `cdxbom:"set to false to exclude optional dependencies; defaults to true"`
}

func init() {
	cdxbom.RegisterSource(&Source{
		NpmOptional: true,
	})
}

// Configure sets the options for this Source
func (s *Source) Configure() error {
	return nil
}

// Detect reports whether path holds an npm lockfile
func (s *Source) Detect(path string) bool {
	for _, name := range []string{packageLock, npmShrinkwrap} {
		if _, err := os.Stat(filepath.Join(path, name)); err == nil {
			return true
		}
	}
	return false
}

// Load reads the lockfile in path. Version 1 lockfiles describe the
// installed tree as nested dependencies; version 2 and 3 lockfiles list
// every installed package by its path.
func (s *Source) Load(path string) (*cdxbom.Project, error) {
	lockfile, err := readLockfile(path)
	if err != nil {
		return nil, err
	}

	var tree *installTree
	if lockfile.Packages != nil {
		log.Debug("reading lockfile version %d packages", lockfile.LockfileVersion)
		tree, err = fromPackages(lockfile)
	} else {
		log.Debug("reading lockfile version %d dependencies", lockfile.LockfileVersion)
		tree = fromDependencies(lockfile)
	}
	if err != nil {
		return nil, err
	}

	root := tree.entries[""]
	if root.Name == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		root.Name = filepath.Base(abs)
	}

	project := &cdxbom.Project{Root: s.toPackage("", root)}
	project.Root.Type = "project"
	project.Root.Requires = tree.resolveAll("", root.requires)
	project.Root.DevRequires = tree.resolveAll("", root.devRequires)

	for _, key := range tree.keys() {
		if key == "" {
			continue
		}
		entry := tree.entries[key]
		if entry.link {
			continue
		}
		if entry.optional && !s.NpmOptional {
			log.Debug("skipping optional package '%s'", key)
			continue
		}
		if s.Excluded(entry.Name) {
			log.Debug("skipping '%s'", key)
			continue
		}
		pkg := s.toPackage(key, entry)
		pkg.Requires = tree.resolveAll(key, entry.requires)
		project.Packages = append(project.Packages, pkg)
	}
	return project, nil
}

func (s *Source) toPackage(key string, entry *installed) *cdxbom.Package {
	pkg := &cdxbom.Package{
		Key:         key,
		Name:        entry.Name,
		Version:     entry.Version,
		Type:        "library",
		PURLType:    cdxbom.NpmPackage,
		Description: "npm package\n",
		DevOnly:     entry.dev,
	}
	// scoped packages keep their scope as the PURL namespace
	if strings.HasPrefix(entry.Name, "@") {
		if i := strings.Index(entry.Name, "/"); i != -1 {
			pkg.Group, pkg.Name = entry.Name[:i], entry.Name[i+1:]
			pkg.Aliases = []string{entry.Name}
		}
	}
	if entry.License != "" {
		pkg.Licenses = []string{entry.License}
	}
	if entry.Resolved != "" && !strings.HasPrefix(entry.Resolved, "file:") {
		pkg.References = append(pkg.References, cdxbom.Reference{URL: entry.Resolved, Type: "distribution"})
	}
	if entry.Integrity != "" {
		alg, content, err := digest.SRI(entry.Integrity)
		if err != nil {
			log.Warn("ignoring integrity of '%s': %v", entry.Name, err)
		} else {
			pkg.Hashes = map[string]string{string(alg): content}
		}
	}
	return pkg
}

// installed is one package of the install tree
type installed struct {
	Name      string
	Version   string
	Resolved  string
	Integrity string
	License   string

	dev         bool
	optional    bool
	link        bool
	requires    []string
	devRequires []string
}

// installTree holds installed packages by install path, "" being the
// project itself
type installTree struct {
	entries map[string]*installed
}

func (t *installTree) keys() []string {
	keys := make([]string, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (t *installTree) resolveAll(from string, names []string) []string {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if key, ok := t.resolve(from, name); ok {
			keys = append(keys, key)
		} else {
			log.Debug("'%s' requires '%s', which is not installed", from, name)
		}
	}
	return keys
}

// resolve follows the node import path search order: the package's own
// node_modules first, then those of every ancestor up to the project.
func (t *installTree) resolve(from, name string) (string, bool) {
	for dir := from; ; dir = parentDir(dir) {
		candidate := nodeModules + name
		if dir != "" {
			candidate = dir + "/" + candidate
		}
		if entry, ok := t.entries[candidate]; ok {
			if entry.link {
				return entry.Resolved, t.entries[entry.Resolved] != nil
			}
			return candidate, true
		}
		if dir == "" {
			return "", false
		}
	}
}

func parentDir(dir string) string {
	i := strings.LastIndex(dir, nodeModules)
	if i <= 0 {
		return ""
	}
	return strings.TrimSuffix(dir[:i], "/")
}

func nameFromPath(path string) string {
	i := strings.LastIndex(path, nodeModules)
	if i == -1 {
		return filepath.Base(path)
	}
	return path[i+len(nodeModules):]
}

func sortedNames(maps ...map[string]string) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, m := range maps {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func fromPackages(lockfile *lockfile) (*installTree, error) {
	tree := &installTree{entries: make(map[string]*installed)}
	for key, entry := range lockfile.Packages {
		license, err := entry.license()
		if err != nil {
			return nil, fmt.Errorf("bad license of '%s' in lockfile: %v", key, err)
		}
		name := entry.Name
		if name == "" && key != "" {
			name = nameFromPath(key)
		}
		tree.entries[key] = &installed{
			Name:        name,
			Version:     entry.Version,
			Resolved:    entry.Resolved,
			Integrity:   entry.Integrity,
			License:     license,
			dev:         entry.Dev || entry.DevOptional,
			optional:    entry.Optional,
			link:        entry.Link,
			requires:    sortedNames(entry.Dependencies, entry.OptionalDependencies),
			devRequires: sortedNames(entry.DevDependencies),
		}
	}

	root, ok := tree.entries[""]
	if !ok {
		root = &installed{}
		tree.entries[""] = root
	}
	if root.Name == "" {
		root.Name = lockfile.Name
	}
	if root.Version == "" {
		root.Version = lockfile.Version
	}
	applyManifest(root, lockfile)
	return tree, nil
}

func fromDependencies(lockfile *lockfile) *installTree {
	tree := &installTree{entries: make(map[string]*installed)}
	root := &installed{Name: lockfile.Name, Version: lockfile.Version}
	tree.entries[""] = root
	addDependencies(tree, "", lockfile.Dependencies)

	if lockfile.manifest == nil {
		// without a manifest, the top-level install flags tell runtime and
		// dev requirements apart
		for name, dep := range lockfile.Dependencies {
			if dep.Dev {
				root.devRequires = append(root.devRequires, name)
			} else {
				root.requires = append(root.requires, name)
			}
		}
		sort.Strings(root.requires)
		sort.Strings(root.devRequires)
	}
	applyManifest(root, lockfile)
	return tree
}

func addDependencies(tree *installTree, parent string, dependencies map[string]*dependency) {
	for name, dep := range dependencies {
		key := nodeModules + name
		if parent != "" {
			key = parent + "/" + key
		}
		tree.entries[key] = &installed{
			Name:      name,
			Version:   dep.Version,
			Resolved:  dep.Resolved,
			Integrity: dep.Integrity,
			dev:       dep.Dev,
			optional:  dep.Optional,
			requires:  sortedNames(dep.Requires),
		}
		addDependencies(tree, key, dep.Dependencies)
	}
}

func applyManifest(root *installed, lockfile *lockfile) {
	manifest := lockfile.manifest
	if manifest == nil {
		return
	}
	if manifest.Name != "" {
		root.Name = manifest.Name
	}
	if manifest.Version != "" {
		root.Version = manifest.Version
	}
	if license, ok := manifest.License.(string); ok && license != "" {
		root.License = license
	}
	root.requires = sortedNames(manifest.Dependencies, manifest.OptionalDependencies)
	root.devRequires = sortedNames(manifest.DevDependencies)
}

func readLockfile(path string) (*lockfile, error) {
	data, err := os.ReadFile(filepath.Join(path, packageLock))
	if err != nil {
		data, err = os.ReadFile(filepath.Join(path, npmShrinkwrap))
		if err != nil {
			return nil, err
		}
	}
	lockfile := &lockfile{}
	if err := json.Unmarshal(data, lockfile); err != nil {
		return nil, fmt.Errorf("bad lockfile: %v", err)
	}

	// read package.json if available
	data, err = os.ReadFile(filepath.Join(path, packageJSON))
	if err == nil {
		manifest := &manifest{}
		if err := json.Unmarshal(data, manifest); err != nil {
			return nil, fmt.Errorf("bad package.json: %v", err)
		}
		lockfile.manifest = manifest
	}
	return lockfile, nil
}

type lockfile struct {
	Name            string
	Version         string
	LockfileVersion int
	Dependencies    map[string]*dependency
	Packages        map[string]*packageEntry

	manifest *manifest
}

type manifest struct {
	Name                 string
	Version              string
	License              interface{}
	Dependencies         map[string]string
	DevDependencies      map[string]string
	OptionalDependencies map[string]string
}

type dependency struct {
	Version      string
	Resolved     string
	Integrity    string
	Dev          bool
	Optional     bool
	Requires     map[string]string
	Dependencies map[string]*dependency
}

type packageEntry struct {
	Name                 string
	Version              string
	Resolved             string
	Integrity            string
	License              json.RawMessage
	Dev                  bool
	Optional             bool
	DevOptional          bool
	Link                 bool
	Dependencies         map[string]string
	OptionalDependencies map[string]string
	DevDependencies      map[string]string
}

// license reads the license field, a string or a legacy {"type": ...} object
func (p *packageEntry) license() (string, error) {
	if len(p.License) == 0 {
		return "", nil
	}
	var license string
	if err := json.Unmarshal(p.License, &license); err == nil {
		return license, nil
	}
	var legacy struct{ Type string }
	if err := json.Unmarshal(p.License, &legacy); err != nil {
		return "", err
	}
	return legacy.Type, nil
}
