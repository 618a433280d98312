package builder

import (
	"strings"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/cyclonedx"
)

// UpdateTool refreshes the version and hashes of tool from the project's
// own copy of the named package. It reports whether the project had one.
// Digests already on tool, such as the hash of the running binary, are
// kept. The project is not modified.
func UpdateTool(tool *cyclonedx.Tool, project *cdxbom.Project, name string) bool {
	if tool == nil || project == nil {
		return false
	}
	pkg := project.Find(name)
	if pkg == nil {
		return false
	}

	if pkg.Version != "" {
		tool.Version = pkg.Version
	}
	if len(pkg.Hashes) > 0 {
		if tool.Hashes == nil {
			tool.Hashes = cyclonedx.NewHashDictionary()
		}
		for alg, content := range pkg.Hashes {
			algorithm := cyclonedx.ParseHashAlgorithm(alg)
			if _, ok := tool.Hashes.Get(algorithm); ok {
				continue
			}
			tool.Hashes.Set(algorithm, strings.ToLower(content))
		}
	}
	return true
}
