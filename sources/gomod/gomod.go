package gomod

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/log"
)

// Source reads Go modules projects
type Source struct {
	cdxbom.BaseSource

	GomodStdlib bool `cdxbom:"set to true to include the Go standard library as a component"`

	run func(dir string, args ...string) ([]byte, error)
}

func init() {
	cdxbom.RegisterSource(&Source{})
}

// stdlib is the module name used for the Go standard library
const stdlib = "github.com/golang/go"

// Configure sets the options for this Source
func (s *Source) Configure() error {
	if s.run == nil {
		s.run = goCommand
	}
	return nil
}

// Detect reports whether path holds a go.mod file
func (s *Source) Detect(path string) bool {
	_, err := os.Stat(filepath.Join(path, "go.mod"))
	return err == nil
}

func goCommand(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("go", args...)
	cmd.Dir = dir
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	out, err := cmd.Output()
	if err != nil {
		log.Error("'go %s' failed with error message:\n\n%s", strings.Join(args, " "), stderr.String())
		return nil, fmt.Errorf("go %s: %v", args[0], err)
	}
	return out, nil
}

// Load lists the modules of the build list of the main module in path and
// the requirement graph between them
func (s *Source) Load(path string) (*cdxbom.Project, error) {
	if s.run == nil {
		s.run = goCommand
	}

	log.Info("listing modules in '%s'", path)
	out, err := s.run(path, "list", "-mod", "readonly", "-m", "-json", "all")
	if err != nil {
		return nil, err
	}
	modules, err := decodeModules(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}

	log.Debug("resolving the module graph")
	out, err = s.run(path, "mod", "graph")
	if err != nil {
		return nil, err
	}

	project := &cdxbom.Project{}
	selected := make(map[string]*cdxbom.Package)
	for _, m := range modules {
		if !m.Main && s.Excluded(m.Path) {
			log.Debug("skipping '%s'", m.Path)
			continue
		}
		pkg := m.toPackage()
		selected[m.key()] = pkg
		if m.Main {
			project.Root = pkg
		} else {
			project.Packages = append(project.Packages, pkg)
		}

		if m.Replace != nil {
			// A replacement is in most cases a fork poorly documented in
			// vulnerability databases, so both the original and the
			// replacement are included.
			replacement := m.Replace.toPackage()
			replacement.Description = fmt.Sprintf("Golang module\n\nReplaces module %s\n", m.Path)
			pkg.Description = fmt.Sprintf("Golang module\n\nReplaced with module %s\n", m.Replace.Path)
			pkg.Requires = append(pkg.Requires, replacement.Key)
			project.Packages = append(project.Packages, replacement)
		}
	}
	if project.Root == nil {
		return nil, fmt.Errorf("no main module in '%s'", path)
	}

	if err := resolveGraph(bytes.NewReader(out), selected); err != nil {
		return nil, err
	}

	if s.GomodStdlib {
		if err := s.addStdlib(path, project); err != nil {
			return nil, err
		}
	}
	return project, nil
}

func decodeModules(r io.Reader) ([]*module, error) {
	modules := []*module{}
	decoder := json.NewDecoder(r)
	for decoder.More() {
		m := &module{}
		if err := decoder.Decode(m); err != nil {
			return nil, fmt.Errorf("go list: %v", err)
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// resolveGraph adds the edges of `go mod graph` output whose source is a
// selected module version. Targets are module paths so that they resolve
// to whichever version was selected.
func resolveGraph(r io.Reader, selected map[string]*cdxbom.Package) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return fmt.Errorf("go mod graph: unexpected line '%s'", scanner.Text())
		}
		from, ok := selected[fields[0]]
		if !ok {
			continue
		}
		to := strings.SplitN(fields[1], "@", 2)[0]
		if to == "go" || to == "toolchain" {
			continue
		}
		if !contains(from.Requires, to) {
			from.Requires = append(from.Requires, to)
		}
	}
	return scanner.Err()
}

func contains(list []string, value string) bool {
	for _, existing := range list {
		if existing == value {
			return true
		}
	}
	return false
}

func (s *Source) addStdlib(path string, project *cdxbom.Project) error {
	version, err := s.resolveGoVersion(path)
	if err != nil {
		return err
	}
	pkg := (&module{Path: stdlib, Version: version}).toPackage()
	pkg.Description = "Go standard library\n"
	project.Packages = append(project.Packages, pkg)
	project.Root.Requires = append(project.Root.Requires, stdlib)
	return nil
}

func (s *Source) resolveGoVersion(path string) (string, error) {
	log.Debug("resolving Go version")

	out, err := s.run(path, "version")
	if err != nil {
		return "", err
	}

	var major, minor, patch = 0, 0, 0
	n, err := fmt.Sscanf(string(out), "go version go%d.%d.%d", &major, &minor, &patch)
	if n < 2 {
		return "", fmt.Errorf("unexpected 'go version' output '%s': %v", strings.TrimSpace(string(out)), err)
	}

	version := fmt.Sprintf("v%d.%d.%d", major, minor, patch)
	log.Trace("local Go version is %s", version)
	return version, nil
}
