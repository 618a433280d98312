package prerun

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mattermost/cdxbom/log"
)

// Configure reads and applies the config file if specified.
// Config files are JSON, with comments allowed, or YAML when named
// *.yaml or *.yml. Flags set on the command line take precedence.
func Configure(config string, cmd *cobra.Command) bool {
	file, err := os.ReadFile(config)
	if err != nil {
		log.Error("unable to read config file: %v", err)
		return false
	}
	flags, err := parse(config, file)
	if err != nil {
		log.Error("unable to parse config file: %v", err)
		return false
	}

	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		flag := cmd.Flag(name)
		if flag == nil {
			log.Error("unrecognized flag name in config file: '%s'", name)
			return false
		}
		if flag.Changed {
			log.Debug("config '%s' overridden from command line", name)
			continue
		}
		flagValue, err := toFlagValue(flags[name])
		if err != nil {
			log.Error("bad value for '%s' in config file: %v", name, err)
			return false
		}
		log.Trace("setting config '%s' to '%s'", name, flagValue)
		if err := flag.Value.Set(flagValue); err != nil {
			log.Error("bad value for '%s' in config file: %v", name, err)
			return false
		}
		flag.Changed = true
	}

	return true
}

func parse(config string, file []byte) (map[string]interface{}, error) {
	flags := make(map[string]interface{})
	switch strings.ToLower(filepath.Ext(config)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(file, &flags); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(file), &flags); err != nil {
			return nil, err
		}
	}
	return flags, nil
}

func toFlagValue(value interface{}) (string, error) {
	switch t := value.(type) {
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case string:
		return t, nil
	case []interface{}:
		values := make([]string, 0, len(t))
		for _, value := range t {
			v, err := toFlagValue(value)
			if err != nil {
				return "", err
			}
			values = append(values, v)
		}
		return strings.Join(values, ","), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		values := make([]string, 0, len(t))
		for _, key := range keys {
			v, err := toFlagValue(t[key])
			if err != nil {
				return "", err
			}
			values = append(values, key+"="+v)
		}
		return strings.Join(values, ","), nil
	default:
		return "", fmt.Errorf("unexpected value type %T", value)
	}
}
