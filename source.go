package cdxbom

import (
	"fmt"
	"path"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Source reads the package data of one ecosystem
type Source interface {
	// Configure validates and completes the source's properties
	Configure() error
	// Detect reports whether path holds a project this source can read
	Detect(path string) bool
	// Load reads the project rooted at path
	Load(path string) (*Project, error)
}

// BaseSource holds the global properties shared by all sources.
// Global properties are tagged `cdxbom:"flag,shorthand,help"` and are set
// from command-line flags; local properties are prefixed with the source
// name and tagged `cdxbom:"help"`.
type BaseSource struct {
	Excludes *regexp.Regexp `cdxbom:"excludes,x,regexp of package names to exclude"`
}

// Excluded reports whether the named package should be dropped
func (b *BaseSource) Excluded(name string) bool {
	return b.Excludes != nil && b.Excludes.MatchString(name)
}

var registerCallbacks = []func(key string, s Source){}

var sources = make(map[string]Source)

// RegisterSource registers a Source for use by cdxbom.
// Returns true if the registration replaced an existing Source.
// Sources are identified by their package path and only one Source
// of a specific type can be registered at a time.
func RegisterSource(s Source) bool {
	key := ResolveName(s)
	_, exists := sources[key]
	sources[key] = s
	for _, cb := range registerCallbacks {
		cb(key, s)
	}
	return exists
}

// OnSourceRegistered registers a function to be called when a new Source is added
func OnSourceRegistered(callback func(key string, s Source)) {
	registerCallbacks = append(registerCallbacks, callback)
}

// Sources returns the currently registered Sources as a
// map of source name to source instance
func Sources() map[string]Source {
	out := make(map[string]Source)
	for key, source := range sources {
		out[key] = source
	}
	return out
}

// SourceNames returns the short names of the registered Sources, sorted
func SourceNames() []string {
	names := make([]string, 0, len(sources))
	for _, source := range sources {
		names = append(names, ResolveShortName(source))
	}
	sort.Strings(names)
	return names
}

// GetSource returns the registered Source with the given full or short name
func GetSource(name string) (Source, error) {
	if source, ok := sources[name]; ok {
		return source, nil
	}
	if !strings.Contains(name, "/") {
		for key, source := range sources {
			if path.Base(key) == name {
				return source, nil
			}
		}
	}
	return nil, fmt.Errorf("no such source: '%s'", name)
}

// ResolveName returns the full name of a Source, its package path
func ResolveName(s Source) string {
	return reflect.ValueOf(s).Elem().Type().PkgPath()
}

// ResolveShortName returns the short name of a Source, its package name
func ResolveShortName(s Source) string {
	return path.Base(ResolveName(s))
}

// VisitProperties calls visit for every tagged property of s, including
// the properties of embedded structs
func VisitProperties(s Source, visit func(field reflect.StructField, value reflect.Value)) {
	visitProperties(reflect.ValueOf(s).Elem(), visit)
}

func visitProperties(v reflect.Value, visit func(field reflect.StructField, value reflect.Value)) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			visitProperties(v.Field(i), visit)
			continue
		}
		if _, ok := field.Tag.Lookup("cdxbom"); ok {
			visit(field, v.Field(i))
		}
	}
}

// SetProperty parses value into the named property of s
func SetProperty(s Source, name, value string) error {
	var err error
	found := false
	VisitProperties(s, func(field reflect.StructField, v reflect.Value) {
		if found || field.Name != name {
			return
		}
		found = true
		err = setValue(v, value)
	})
	if !found {
		return fmt.Errorf("source '%s' has no property '%s'", ResolveShortName(s), name)
	}
	return err
}

func setValue(v reflect.Value, value string) error {
	switch v.Type() {
	case reflect.TypeOf(true):
		switch value {
		case "true":
			v.SetBool(true)
		case "false":
			v.SetBool(false)
		default:
			return fmt.Errorf("unsupported boolean value '%s'", value)
		}
	case reflect.TypeOf(""):
		v.SetString(value)
	case reflect.TypeOf([]string{}):
		v.Set(reflect.ValueOf(strings.Split(value, ":")))
	case reflect.TypeOf(regexp.MustCompile("")):
		if value == "" {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		pattern, err := regexp.Compile(value)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(pattern))
	default:
		panic(fmt.Sprintf("unsupported property type %s", v.Type()))
	}
	return nil
}
