package generate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/builder"
	"github.com/mattermost/cdxbom/commands/internal/upload"
	"github.com/mattermost/cdxbom/commands/internal/validate"
	"github.com/mattermost/cdxbom/cyclonedx"
	"github.com/mattermost/cdxbom/cyclonedx/serialize"
	"github.com/mattermost/cdxbom/cyclonedx/spec"
	"github.com/mattermost/cdxbom/digest"
	"github.com/mattermost/cdxbom/log"
	"github.com/mattermost/cdxbom/sign"
	"github.com/mattermost/cdxbom/spdx"
)

// toolModule is the module path the generator looks for in the projects
// it reads, so that a BOM of cdxbom itself describes the exact tool build
const toolModule = "github.com/mattermost/cdxbom"

var (
	sourceName     string
	format         string
	specVersion    string
	output         string
	pretty         bool
	includeDev     bool
	excludePlugins bool
	rootVersion    string
	validateOutput bool
	serial         bool
	hashTool       bool
	signKey        string
	properties     []string
)

// Command .
var Command = &cobra.Command{
	Use:     "generate [flags] [path]",
	Short:   "generate a software bill of materials",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: checkFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		source, err := selectSource(path)
		if err != nil {
			return err
		}
		name := cdxbom.ResolveShortName(source)
		if err := configure(source, cmd.Flags(), sliceToMap(properties)); err != nil {
			return fmt.Errorf("configuring '%s' failed: %w", name, err)
		}

		log.Info("reading '%s' with the '%s' source", path, name)
		project, err := source.Load(path)
		if err != nil {
			return fmt.Errorf("'%s' source returned an error: %w", name, err)
		}

		tool := newTool()
		if builder.UpdateTool(tool, project, toolModule) {
			log.Debug("describing cdxbom %s from the project", tool.Version)
		}
		bom, err := builder.New(builder.Options{
			IncludeDev:     includeDev,
			ExcludePlugins: excludePlugins,
			RootVersion:    rootVersion,
			Tool:           tool,
		}, spdx.Licenses()).Build(project)
		if err != nil {
			return err
		}
		if serial {
			bom.SerialNumber = "urn:uuid:" + uuid.New().String()
		}

		log.Debug("serializing CycloneDX %s %s", specVersion, format)
		serializer, err := serialize.New(spec.Format(format))
		if err != nil {
			return err
		}
		data, err := serializer.Serialize(bom, spec.Version(specVersion), pretty)
		if err != nil {
			return err
		}
		if !bytes.HasSuffix(data, []byte("\n")) {
			data = append(data, '\n')
		}

		if validateOutput {
			if err := validate.Check(data, spec.Format(format), spec.Version(specVersion)); err != nil {
				return err
			}
		}

		if upload.Enabled() {
			// suppress output and upload directly to Dependency-Track
			if output != "" {
				if err := write(data); err != nil {
					return err
				}
			}
			return upload.Upload(cmd.Context(), bytes.NewReader(data), spec.Format(format))
		}
		if output == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		return write(data)
	},
}

func init() {
	flags := Command.Flags()
	flags.StringVarP(&sourceName, "source", "s", "", "source to read the project with; detected by default")
	flags.StringVarP(&format, "format", "f", string(spec.XML), "output format, 'xml' or 'json'")
	flags.StringVar(&specVersion, "spec-version", string(spec.Latest()), "CycloneDX spec version to write")
	flags.StringVarP(&output, "output", "o", "", "write the BOM to a file instead of stdout")
	flags.BoolVar(&pretty, "pretty", false, "indent the output")
	flags.BoolVarP(&includeDev, "dev", "d", false, "include dependencies only required for development")
	flags.BoolVar(&excludePlugins, "exclude-plugins", false, "exclude package manager plugins")
	flags.StringVar(&rootVersion, "root-version", "", "version to use for a project without one")
	flags.BoolVar(&validateOutput, "validate", false, "validate the BOM against the CycloneDX schema")
	flags.BoolVar(&serial, "serial", true, "give the BOM a random serial number")
	flags.BoolVar(&hashTool, "hash-tool", false, "record the SHA-256 of the cdxbom binary in the BOM metadata")
	flags.StringVar(&signKey, "sign-key", "", "armored OpenPGP private key to sign the output file with; the passphrase is read from $CDXBOM_SIGN_PASSPHRASE")
	flags.StringSliceVarP(&properties, "properties", "p", []string{}, "properties to pass to the source in the form 'Prop1Name=val1,Prop2Name=val2'")
	globalFlags(flags)

	// inherit flags from the upload command
	flags.AddFlagSet(upload.Command.Flags())
}

// globalFlags registers a flag for every global source property
func globalFlags(flags *pflag.FlagSet) {
	t := reflect.TypeOf(cdxbom.BaseSource{})
	for i := 0; i < t.NumField(); i++ {
		parts := strings.SplitN(t.Field(i).Tag.Get("cdxbom"), ",", 3)
		if len(parts) == 3 {
			flags.StringP(parts[0], parts[1], "", parts[2])
		}
	}
}

func selectSource(path string) (cdxbom.Source, error) {
	if sourceName != "" {
		return cdxbom.GetSource(sourceName)
	}

	log.Debug("detecting the source of '%s'", path)
	detected := []string{}
	for _, name := range cdxbom.SourceNames() {
		source, err := cdxbom.GetSource(name)
		if err == nil && source.Detect(path) {
			detected = append(detected, name)
		}
	}
	switch len(detected) {
	case 0:
		return nil, fmt.Errorf("no source recognizes '%s'; pick one of %s with --source", path, strings.Join(cdxbom.SourceNames(), ", "))
	case 1:
		return cdxbom.GetSource(detected[0])
	default:
		return nil, fmt.Errorf("several sources recognize '%s' (%s); pick one with --source", path, strings.Join(detected, ", "))
	}
}

// configure sets the global properties of source from flags and its local
// properties from properties, then lets the source validate them
func configure(source cdxbom.Source, flags *pflag.FlagSet, properties map[string]string) error {
	var err error
	cdxbom.VisitProperties(source, func(field reflect.StructField, _ reflect.Value) {
		if err != nil {
			return
		}
		if parts := strings.SplitN(field.Tag.Get("cdxbom"), ",", 3); len(parts) == 3 {
			if flag := flags.Lookup(parts[0]); flag != nil {
				err = cdxbom.SetProperty(source, field.Name, flag.Value.String())
			}
			return
		}
		if value, ok := properties[field.Name]; ok {
			log.Trace("setting property '%s' to '%s'", field.Name, value)
			err = cdxbom.SetProperty(source, field.Name, value)
			delete(properties, field.Name)
		}
	})
	if err != nil {
		return err
	}
	for name := range properties {
		log.Debug("source '%s' has no property '%s'; ignoring", cdxbom.ResolveShortName(source), name)
	}
	return source.Configure()
}

func newTool() *cyclonedx.Tool {
	tool := &cyclonedx.Tool{Vendor: "Mattermost", Name: "cdxbom", Version: "dev"}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		tool.Version = strings.TrimPrefix(info.Main.Version, "v")
	}
	if hashTool {
		executable, err := os.Executable()
		if err == nil {
			tool.Hashes, err = digest.File(executable, cyclonedx.SHA256)
		}
		if err != nil {
			log.Warn("unable to hash the cdxbom binary: %v", err)
		}
	}
	return tool
}

func write(data []byte) error {
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}
	log.Info("wrote '%s'", output)
	if signKey == "" {
		return nil
	}

	signer, err := sign.NewSignerFromFile(signKey, []byte(os.Getenv("CDXBOM_SIGN_PASSPHRASE")))
	if err != nil {
		return fmt.Errorf("unable to read signing key: %w", err)
	}
	signature, err := os.Create(output + ".asc")
	if err != nil {
		return err
	}
	defer signature.Close()
	if err := signer.Sign(signature, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("unable to sign '%s': %w", output, err)
	}
	log.Info("wrote '%s.asc'", output)
	return signature.Close()
}

func sliceToMap(slice []string) map[string]string {
	m := make(map[string]string)
	for _, value := range slice {
		i := strings.IndexRune(value, '=')
		if i == -1 {
			m[value] = ""
		} else {
			m[value[:i]] = value[i+1:]
		}
	}
	return m
}

var errNoOutput = errors.New("signing requires an output file; use --output")

func checkFlags(cmd *cobra.Command, args []string) error {
	if signKey != "" && output == "" {
		return errNoOutput
	}
	return nil
}
