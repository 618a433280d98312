package cocoapods

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/log"
)

// Source reads CocoaPods projects
type Source struct {
	cdxbom.BaseSource

	CocoapodsDescribe bool `cdxbom:"set to true to describe each pod with its shortest chain of dependants"`
}

func init() {
	cdxbom.RegisterSource(&Source{})
}

// Configure sets the options for this Source
func (s *Source) Configure() error {
	return nil
}

// Detect reports whether path holds a Podfile.lock
func (s *Source) Detect(path string) bool {
	_, err := os.Stat(filepath.Join(path, "Podfile.lock"))
	return err == nil
}

// Load reads the Podfile.lock in path
func (s *Source) Load(path string) (*cdxbom.Project, error) {
	lockfile, err := readLockfile(path)
	if err != nil {
		return nil, err
	}
	log.Info("read 'Podfile.lock' in '%s'", path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	root := &cdxbom.Package{
		Name:        filepath.Base(abs),
		Type:        "project",
		NoVersion:   true,
		Description: "CocoaPods project root\n",
	}
	for _, dependency := range lockfile.Dependencies {
		// extract "name" from "name (source)"
		name := podName(dependency)
		if !s.Excluded(name) {
			root.Requires = append(root.Requires, name)
		}
	}

	pods := make([]*pod, 0, len(lockfile.Pods))
	byName := make(map[string]*pod)
	for _, entry := range lockfile.Pods {
		p, err := parsePod(entry)
		if err != nil {
			return nil, err
		}
		if s.Excluded(p.name) {
			log.Debug("skipping '%s'", p.name)
			continue
		}
		pods = append(pods, p)
		byName[p.name] = p
	}

	for _, p := range pods {
		for _, requires := range p.requires {
			if dependency, ok := byName[requires]; ok {
				dependency.dependants = append(dependency.dependants, p)
			}
		}
	}
	for _, name := range root.Requires {
		if dependency, ok := byName[name]; ok {
			dependency.required = true
		}
	}

	project := &cdxbom.Project{Root: root}
	for _, p := range pods {
		pkg := &cdxbom.Package{
			Key:         p.name,
			Name:        p.name,
			Version:     p.version,
			Type:        "library",
			PURLType:    cdxbom.CocoapodsPackage,
			Description: "CocoaPods package\n",
			Requires:    p.requires,
		}
		// subspecs share the checksum of their pod
		if checksum, ok := lockfile.Checksums[strings.SplitN(p.name, "/", 2)[0]]; ok {
			pkg.Hashes = map[string]string{"SHA-1": checksum}
		}
		if s.CocoapodsDescribe {
			pkg.Description = describe(p, root.Name)
		}
		project.Packages = append(project.Packages, pkg)
	}
	return project, nil
}

func describe(p *pod, root string) string {
	var shortest []string
	for _, chain := range buildDependencyChains(p, root, 5) {
		if shortest == nil || len(chain) < len(shortest) {
			shortest = chain
		}
	}
	return fmt.Sprintf("CocoaPods package\n\nRequired by:\n\t%s", strings.Join(shortest, "\n\t"))
}

func buildDependencyChains(p *pod, root string, maxDepth int) [][]string {
	if maxDepth < 0 {
		return [][]string{{}}
	}
	chains := [][]string{}
	if p.required {
		chains = append(chains, []string{root})
	}
	for _, dependant := range p.dependants {
		for _, chain := range buildDependencyChains(dependant, root, maxDepth-1) {
			chains = append(chains, append([]string{fmt.Sprintf("%s@%s", dependant.name, dependant.version)}, chain...))
		}
	}
	return chains
}

func readLockfile(path string) (*lockfile, error) {
	data, err := os.ReadFile(filepath.Join(path, "Podfile.lock"))
	if err != nil {
		return nil, err
	}
	lockfile := &lockfile{}
	if err := yaml.Unmarshal(data, lockfile); err != nil {
		return nil, fmt.Errorf("bad Podfile.lock: %v", err)
	}
	return lockfile, nil
}

type lockfile struct {
	Pods         []interface{}     `yaml:"PODS"`
	Dependencies []string          `yaml:"DEPENDENCIES"`
	Checksums    map[string]string `yaml:"SPEC CHECKSUMS"`
}

type pod struct {
	name       string
	version    string
	requires   []string
	required   bool
	dependants []*pod
}

// parsePod reads a PODS entry, either "name (version)" or a map of
// "name (version)" to its requirements
func parsePod(entry interface{}) (*pod, error) {
	switch t := entry.(type) {
	case string:
		return newPod(t)
	case map[string]interface{}:
		if len(t) != 1 {
			return nil, fmt.Errorf("bad Podfile.lock: unexpected pod entry %v", t)
		}
		for key, values := range t {
			p, err := newPod(key)
			if err != nil {
				return nil, err
			}
			list, ok := values.([]interface{})
			if !ok {
				return nil, fmt.Errorf("bad Podfile.lock: unexpected requirements of '%s'", p.name)
			}
			for _, value := range list {
				requirement, ok := value.(string)
				if !ok {
					return nil, fmt.Errorf("bad Podfile.lock: unexpected requirement of '%s'", p.name)
				}
				p.requires = append(p.requires, podName(requirement))
			}
			sort.Strings(p.requires)
			return p, nil
		}
	}
	return nil, fmt.Errorf("bad Podfile.lock: unexpected pod entry %v", entry)
}

func newPod(s string) (*pod, error) {
	// "name (version)"
	fields := strings.Fields(s)
	if len(fields) != 2 || !strings.HasPrefix(fields[1], "(") || !strings.HasSuffix(fields[1], ")") {
		return nil, fmt.Errorf("bad Podfile.lock: unexpected pod '%s'", s)
	}
	return &pod{name: fields[0], version: fields[1][1 : len(fields[1])-1]}, nil
}

func podName(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
