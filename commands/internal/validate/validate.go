package validate

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattermost/cdxbom/commands/internal/upload"
	"github.com/mattermost/cdxbom/cyclonedx/spec"
	schema "github.com/mattermost/cdxbom/cyclonedx/validate"
	"github.com/mattermost/cdxbom/log"
)

var (
	format      string
	specVersion string
)

// Command .
var Command = &cobra.Command{
	Use:   "validate [flags] file",
	Short: "validate a BOM file against the CycloneDX schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		f := spec.Format(format)
		if f == "" {
			f = upload.FormatOf(args[0])
		}
		version := spec.Version(specVersion)
		if version == "" {
			version = declaredVersion(data, f)
			log.Debug("validating against the declared version %s", version)
		}
		return Check(data, f, version)
	},
}

func init() {
	Command.Flags().StringVarP(&format, "format", "f", "", "format of the file, 'xml' or 'json'; guessed from the file name by default")
	Command.Flags().StringVar(&specVersion, "spec-version", "", "CycloneDX spec version to validate against; read from the file by default")
}

// Check validates data and logs every violation found
func Check(data []byte, format spec.Format, version spec.Version) error {
	validator, err := schema.New(format)
	if err != nil {
		return err
	}
	result, err := validator.Validate(data, version)
	if err != nil {
		var unparseable *schema.UnparseableDocumentError
		if errors.As(err, &unparseable) {
			return fmt.Errorf("not a %s document: %w", format, err)
		}
		return err
	}
	if result != nil {
		for _, message := range result.Errors {
			log.Error("%s", message)
		}
		return fmt.Errorf("BOM is not valid CycloneDX %s (%d errors)", version, len(result.Errors))
	}
	log.Info("BOM is valid CycloneDX %s", version)
	return nil
}

const xmlNamespacePrefix = "http://cyclonedx.org/schema/bom/"

// declaredVersion returns the spec version a document claims to follow:
// specVersion for JSON, the namespace of the root element for XML. It
// falls back to the latest version when the document declares none.
func declaredVersion(data []byte, format spec.Format) spec.Version {
	switch format {
	case spec.JSON:
		var header struct {
			SpecVersion string `json:"specVersion"`
		}
		if err := json.Unmarshal(data, &header); err == nil && header.SpecVersion != "" {
			return spec.Version(header.SpecVersion)
		}
	case spec.XML:
		decoder := xml.NewDecoder(bytes.NewReader(data))
		for {
			token, err := decoder.Token()
			if err != nil {
				break
			}
			if start, ok := token.(xml.StartElement); ok {
				if start.Name.Local == "bom" && strings.HasPrefix(start.Name.Space, xmlNamespacePrefix) {
					return spec.Version(strings.TrimPrefix(start.Name.Space, xmlNamespacePrefix))
				}
				break
			}
		}
	}
	return spec.Latest()
}
