package prerun

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mattermost/cdxbom/commands/internal/generate"
)

func TestConfigure(t *testing.T) {
	cmd := generate.Command
	defer reset(cmd)

	if ok := Configure("./testdata/no-such-file.json", cmd); ok {
		t.Errorf("expected a failure on nonexistent config file")
	}
	reset(cmd)

	if ok := Configure("./testdata/bad-config.json", cmd); ok {
		t.Errorf("expected a failure on bad config file")
	}
	reset(cmd)

	if ok := Configure("./testdata/unparseable-config.json", cmd); ok {
		t.Errorf("expected a failure on unparseable config file")
	}
	reset(cmd)

	_ = cmd.ParseFlags([]string{"-x", "foobar"})
	if ok := Configure("./testdata/config.json", cmd); !ok {
		t.Errorf("unexpected failure calling Configure")
	}

	if excludes, _ := cmd.Flags().GetString("excludes"); excludes != "foobar" {
		t.Errorf("expected 'excludes' to be set to 'foobar', was '%s'", excludes)
	}
	if pretty, _ := cmd.Flags().GetBool("pretty"); !pretty {
		t.Errorf("expected 'pretty' to be set to true, was %v", pretty)
	}
	if source, _ := cmd.Flags().GetString("source"); source != "gradle" {
		t.Errorf("expected 'source' to be set to 'gradle', was '%s'", source)
	}
	if !cmd.Flag("source").Changed {
		t.Error("expected 'source' to be marked as set")
	}

	props, _ := cmd.Flags().GetStringSlice("properties")
	expected := []string{"GradleDevConfigs=(?i)test|lint", "GradlePath=./gradlew:../gradlew"}
	if !reflect.DeepEqual(props, expected) {
		t.Errorf("unexpected properties %v", props)
	}
}

func TestConfigureYAML(t *testing.T) {
	cmd := generate.Command
	reset(cmd)
	defer reset(cmd)

	if ok := Configure("./testdata/config.yaml", cmd); !ok {
		t.Fatalf("unexpected failure calling Configure")
	}
	if source, _ := cmd.Flags().GetString("source"); source != "gomod" {
		t.Errorf("expected 'source' to be set to 'gomod', was '%s'", source)
	}
	if dev, _ := cmd.Flags().GetBool("dev"); !dev {
		t.Errorf("expected 'dev' to be set to true, was %v", dev)
	}
	if version, _ := cmd.Flags().GetString("spec-version"); version != "1.2" {
		t.Errorf("expected 'spec-version' to be set to '1.2', was '%s'", version)
	}
	if props, _ := cmd.Flags().GetStringSlice("properties"); !reflect.DeepEqual(props, []string{"GomodStdlib=true"}) {
		t.Errorf("unexpected properties %v", props)
	}
}

func TestToFlagValue(t *testing.T) {
	for _, test := range []struct {
		value    interface{}
		expected string
	}{
		{true, "true"},
		{3, "3"},
		{float64(2), "2"},
		{"1.3", "1.3"},
		{[]interface{}{"a", "b"}, "a,b"},
		{map[string]interface{}{"B": "2", "A": "1"}, "A=1,B=2"},
	} {
		value, err := toFlagValue(test.value)
		if err != nil {
			t.Errorf("unexpected error for %v: %v", test.value, err)
		} else if value != test.expected {
			t.Errorf("expected '%s', saw '%s'", test.expected, value)
		}
	}

	if _, err := toFlagValue(nil); err == nil {
		t.Error("expected an error for a null value")
	}
}

func reset(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if slice, ok := flag.Value.(pflag.SliceValue); ok {
			_ = slice.Replace([]string{})
		} else {
			_ = flag.Value.Set(flag.DefValue)
		}

		flag.Changed = false
	})
}
