package commands

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattermost/cdxbom"
	"github.com/mattermost/cdxbom/commands/internal/generate"
	"github.com/mattermost/cdxbom/commands/internal/prerun"
	"github.com/mattermost/cdxbom/commands/internal/upload"
	"github.com/mattermost/cdxbom/commands/internal/validate"
	"github.com/mattermost/cdxbom/log"
)

var config string

var rootCmd = &cobra.Command{
	Use:           "cdxbom [command]",
	Short:         "generate CycloneDX software bills of materials",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.LogLevel += log.LevelWarn
		if config != "" {
			if !prerun.Configure(config, cmd) {
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP((*int)(&log.LogLevel), "verbose", "v", "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&config, "config", "c", "", "read flags from a JSON or YAML config file")
	rootCmd.AddCommand(generate.Command)
	rootCmd.AddCommand(upload.Command)
	rootCmd.AddCommand(validate.Command)

	for key, source := range cdxbom.Sources() {
		registerSourceHelpTopic(key, source)
	}
	cdxbom.OnSourceRegistered(registerSourceHelpTopic)
}

func registerSourceHelpTopic(key string, s cdxbom.Source) {
	name := cdxbom.ResolveShortName(s)
	var helpCommand *cobra.Command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			helpCommand = cmd
		}
	}
	if helpCommand == nil {
		helpCommand = &cobra.Command{}
		rootCmd.AddCommand(helpCommand)
	}
	helpCommand.Use = name
	helpCommand.Short = fmt.Sprintf("help for the '%s' source", name)
	helpCommand.Long = buildSourceHelpText(key, s)
}

func buildSourceHelpText(key string, s cdxbom.Source) string {
	name := cdxbom.ResolveShortName(s)
	props := make(map[string]string)
	globalProps := make(map[string][]string)

	cdxbom.VisitProperties(s, func(field reflect.StructField, value reflect.Value) {
		if strings.HasPrefix(strings.ToLower(field.Name), name) {
			props[field.Name] = field.Tag.Get("cdxbom")
		} else {
			parts := strings.SplitN(field.Tag.Get("cdxbom"), ",", 3)
			if len(parts) != 3 {
				panic(fmt.Sprintf("bad cdxbom tag on unprefixed field in '%s'", key))
			}
			globalProps[field.Name] = parts
		}
	})

	propHelp := "Global Properties:\n"
	for _, field := range sortedKeys(globalProps) {
		parts := globalProps[field]
		if parts[0] == "" {
			propHelp = fmt.Sprintf("%s  %-32s %s\n", propHelp, field, parts[2])
		} else if parts[1] == "" {
			propHelp = fmt.Sprintf("%s  %-16s --%-13s %s\n", propHelp, field, parts[0], parts[2])
		} else {
			propHelp = fmt.Sprintf("%s  %-16s -%s, --%-9s %s\n", propHelp, field, parts[1], parts[0], parts[2])
		}
	}
	if len(props) > 0 {
		propHelp = fmt.Sprintf("%s\nLocal Properties:\n", propHelp)
		for _, field := range sortedKeys(props) {
			propHelp = fmt.Sprintf("%s  %-32s %s\n", propHelp, field, props[field])
		}
	}

	return fmt.Sprintf(`%s source for use with the 'generate' command

Usage:
  cdxbom generate -s %s [flags] [-p properties] [path]

%s`, name, name, propHelp)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		log.Error("%v", err)
	}
	return err
}
