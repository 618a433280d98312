package gradle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/log"
)

// Source reads Gradle projects
type Source struct {
	cdxbom.BaseSource

	GradlePath       []string       `cdxbom:"colon-separated list of Gradle binaries to try; defaults to 'gradle'"`
	GradleOutput     string         `cdxbom:"file holding 'gradle dependencies' output to read instead of running Gradle"`
	GradleDevConfigs *regexp.Regexp `cdxbom:"regexp of build configurations holding dev-only dependencies; defaults to '(?i)test'"`
}

func init() {
	cdxbom.RegisterSource(&Source{})
}

var defaultDevConfigs = regexp.MustCompile(`(?i)test`)

// Configure sets the options for this Source
func (s *Source) Configure() error {
	if len(s.GradlePath) == 0 {
		// default to not using the wrapper; safe on untrusted code
		s.GradlePath = []string{"gradle"}
	}
	if s.GradleDevConfigs == nil {
		s.GradleDevConfigs = defaultDevConfigs
	}
	return nil
}

// Detect reports whether path holds a Gradle build script
func (s *Source) Detect(path string) bool {
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		if _, err := os.Stat(filepath.Join(path, name)); err == nil {
			return true
		}
	}
	return false
}

type gradlePackage struct {
	*cdxbom.Package
	configs map[string]bool
	runtime bool
}

// Load reads the dependency trees of every build configuration of the
// project in path
func (s *Source) Load(path string) (*cdxbom.Project, error) {
	configs, err := s.listDependencies(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	root := &cdxbom.Package{
		Name:        filepath.Base(abs),
		Type:        "project",
		NoVersion:   true,
		Description: "Gradle project root\n",
	}

	log.Debug("parsing dependency hierarchy")
	packages := map[string]*gradlePackage{}
	order := []*gradlePackage{}
	for _, config := range configs {
		dev := s.GradleDevConfigs != nil && s.GradleDevConfigs.MatchString(config.Name())
		config.Walk(func(dependency, dependant *dependency) {
			parsed := dependency.Parse()
			if !parsed.resolved {
				return
			}
			if s.Excluded(parsed.qualifiedName()) {
				log.Trace("skipping '%s'", parsed.qualifiedName())
				return
			}

			pkg, exists := packages[parsed.key()]
			if !exists {
				pkg = &gradlePackage{
					Package: &cdxbom.Package{
						Key:       parsed.key(),
						Name:      parsed.name,
						Group:     parsed.group,
						Version:   parsed.version,
						NoVersion: parsed.version == "",
						Type:      "library",
						PURLType:  cdxbom.GradlePackage,
					},
					configs: make(map[string]bool),
				}
				packages[pkg.Key] = pkg
				order = append(order, pkg)
			}
			pkg.configs[config.Name()] = true
			pkg.runtime = pkg.runtime || !dev

			if dependant == nil {
				// a direct dependency of the build configuration
				if dev {
					root.DevRequires = appendUnique(root.DevRequires, pkg.Key)
				} else {
					root.Requires = appendUnique(root.Requires, pkg.Key)
				}
				return
			}
			if parent, ok := packages[dependant.Parse().key()]; ok {
				parent.Requires = appendUnique(parent.Requires, pkg.Key)
			}
		})
	}

	project := &cdxbom.Project{Root: root}
	for _, pkg := range order {
		pkg.DevOnly = !pkg.runtime
		describe(pkg)
		project.Packages = append(project.Packages, pkg.Package)
	}
	return project, nil
}

func describe(pkg *gradlePackage) {
	configs := make([]string, 0, len(pkg.configs))
	for config := range pkg.configs {
		configs = append(configs, config)
	}
	sort.Strings(configs)
	pkg.Description = fmt.Sprintf("Gradle dependency\n\nAppears in: %s\n", strings.Join(configs, ", "))
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

func (s *Source) gradle(wd string) (string, error) {
	for _, path := range s.GradlePath {
		if !filepath.IsAbs(path) && path != filepath.Base(path) {
			wd, err := filepath.Abs(wd)
			if err != nil {
				return "", err
			}
			path = filepath.Join(wd, path)
		}
		path, err := exec.LookPath(path)
		if err == nil {
			log.Debug("using Gradle binary from '%s'", path)
			return path, nil
		}
	}
	return "", fmt.Errorf("could not locate Gradle binary")
}

func (s *Source) listDependencies(path string) ([]*buildConfig, error) {
	if s.GradleOutput != "" {
		log.Info("reading dependencies from '%s'", s.GradleOutput)
		f, err := os.Open(s.GradleOutput)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return buildConfigs(unmarshal(f)), nil
	}

	log.Info("listing dependencies in '%s'", path)

	gradle, err := s.gradle(path)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(gradle, "-q", "--console", "plain", "dependencies")
	cmd.Dir = path
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	trees := buildConfigs(unmarshal(stdout))
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("gradle dependencies: %v", err)
	}
	return trees, nil
}

func buildConfigs(nodes []*node) []*buildConfig {
	trees := []*buildConfig{}
	for _, node := range nodes {
		if node != nil && len(node.nodes) > 0 {
			trees = append(trees, (*buildConfig)(node))
		}
	}
	return trees
}

type node struct {
	value string
	nodes []*node
}

func unmarshal(r io.Reader) []*node {
	output := []*node{}
	reader := bufio.NewReader(r)

	var (
		node *node
		err  error
	)
	for err == nil {
		node, err = unmarshalSubtree(reader, 0)
		output = append(output, node)
	}
	return output
}

var nodePrefix = regexp.MustCompile(`^([| ]    )*[\\+]--- $`)

func unmarshalSubtree(reader *bufio.Reader, depth int) (*node, error) {
	var err error
	tree := &node{}
	if depth > 0 {
		peek, err := reader.Peek(depth * 5)
		if err != nil {
			return nil, err
		}
		if !nodePrefix.Match(peek) {
			return nil, nil
		}
		if _, err := reader.Discard(len(peek)); err != nil {
			return nil, err
		}
	}
	tree.value, err = reader.ReadString('\n')
	if err != nil {
		return tree, err
	}
	for {
		subtree, err := unmarshalSubtree(reader, depth+1)
		if subtree == nil {
			return tree, err
		}
		tree.nodes = append(tree.nodes, subtree)
		if err != nil {
			return tree, err
		}
	}
}

type buildConfig node

var buildConfigValue = regexp.MustCompile(`^(.*?) - (.*)\n`)

func (t *buildConfig) Name() string {
	if match := buildConfigValue.FindStringSubmatch(t.value); match != nil {
		return match[1]
	}
	return strings.TrimSpace(t.value)
}

func (t *buildConfig) Walk(cb func(*dependency, *dependency)) {
	for _, node := range t.nodes {
		dependency := (*dependency)(node)
		cb(dependency, nil)
		dependency.Walk(cb)
	}
}

type dependency node

type parsedDependency struct {
	group    string
	name     string
	version  string
	project  bool
	resolved bool
}

func (p *parsedDependency) qualifiedName() string {
	if p.group == "" {
		return p.name
	}
	return p.group + ":" + p.name
}

func (p *parsedDependency) key() string {
	return p.qualifiedName() + ":" + p.version
}

// Parse reads a tree line such as "group:name:requested -> resolved (*)".
// Lines marked "(n)" were not resolved.
func (d *dependency) Parse() *parsedDependency {
	result := &parsedDependency{}
	value := d.value
parseDependency:
	result.resolved = true
	if strings.HasPrefix(value, "project ") {
		result.project = true
		value = value[8:]
	}
	if i := strings.IndexRune(value, ':'); i != -1 {
		result.group = value[:i]
		value = value[i+1:]
	}
	if i := strings.IndexAny(value, ": \n"); i != -1 {
		result.name = value[:i]
		value = value[i+1:]
	} else {
		log.Error("unable to parse dependency value: '%s'", d.value)
		result.name = strings.TrimSpace(value)
		result.resolved = false
		return result
	}
	if i := strings.Index(value, " -> "); i != -1 {
		value = value[i+4:]
		if strings.Contains(value, ":") {
			goto parseDependency
		}
	}
	if strings.HasSuffix(value, "(*)\n") || strings.HasSuffix(value, "(c)\n") {
		value = value[:len(value)-4]
	} else if strings.HasSuffix(value, "(n)\n") {
		result.resolved = false
		value = value[:len(value)-4]
	}
	result.version = strings.TrimSpace(value)
	return result
}

func (d *dependency) Walk(cb func(*dependency, *dependency)) {
	for _, node := range d.nodes {
		dependency := (*dependency)(node)
		cb(dependency, d)
		dependency.Walk(cb)
	}
}
