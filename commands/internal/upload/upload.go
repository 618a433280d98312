package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattermost/cdxbom/cyclonedx/spec"
	"github.com/mattermost/cdxbom/dt"
	"github.com/mattermost/cdxbom/log"
)

var (
	url            string
	apiKey         string
	project        string
	projectVersion string
	projectUUID    string
	autoCreate     bool
	wait           time.Duration
)

// Command .
var Command = &cobra.Command{
	Use:   "upload [flags] file",
	Short: "upload a BOM file to Dependency-Track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return Upload(cmd.Context(), bytes.NewReader(data), FormatOf(args[0]))
	},
}

func init() {
	Command.Flags().StringVar(&url, "url", "", "URL of the Dependency-Track API server")
	Command.Flags().StringVar(&apiKey, "api-key", "", "Dependency-Track API key; defaults to $CDXBOM_API_KEY")
	Command.Flags().StringVar(&project, "project", "", "name of the Dependency-Track project")
	Command.Flags().StringVar(&projectVersion, "project-version", "", "version of the Dependency-Track project")
	Command.Flags().StringVar(&projectUUID, "project-uuid", "", "UUID of the Dependency-Track project")
	Command.Flags().BoolVar(&autoCreate, "auto-create", false, "create the project if it does not exist")
	Command.Flags().DurationVar(&wait, "wait", 0, "wait up to this long for the server to process the upload")
}

// Enabled reports whether an upload target was configured
func Enabled() bool {
	return url != ""
}

// FormatOf guesses the format of a BOM file from its name
func FormatOf(name string) spec.Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return spec.JSON
	}
	return spec.XML
}

// Upload sends bom to the configured Dependency-Track server
func Upload(ctx context.Context, bom io.Reader, format spec.Format) error {
	if url == "" {
		return errors.New("no Dependency-Track URL configured; use --url")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	key := apiKey
	if key == "" {
		key = os.Getenv("CDXBOM_API_KEY")
	}

	client, err := dt.NewClient(url, key)
	if err != nil {
		return err
	}
	if version, err := client.Version(ctx); err != nil {
		log.Warn("unable to read the Dependency-Track version: %v", err)
	} else {
		log.Debug("uploading to Dependency-Track %s", version)
	}

	token, err := client.Upload(ctx, bom, dt.Upload{
		Format:         format,
		ProjectName:    project,
		ProjectVersion: projectVersion,
		ProjectUUID:    projectUUID,
		AutoCreate:     autoCreate,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	log.Info("uploaded BOM; processing token '%s'", token)

	if wait <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := client.Wait(ctx, token, time.Second); err != nil {
		return fmt.Errorf("waiting for upload '%s': %w", token, err)
	}
	log.Info("Dependency-Track finished processing the BOM")
	return nil
}
