// Package config holds the read-only configuration shared by every stage of a
// configure run. A Config is built once, before any module is processed, and
// is never mutated afterwards.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"

	"github.com/pyvoip/configure/internal/errors"
)

// FileName is looked up in the working directory by Load.
const FileName = "pyvoip.toml"

type Config struct {
	Paths  PathsSection  `toml:"paths"`
	Sip    SipSection    `toml:"sip"`
	Python PythonSection `toml:"python"`
	Macros MacrosSection `toml:"macros"`
}

// PathsSection defines the [paths] section. Values are opaque: placeholders
// such as $(PTLIBDIR) are expanded later by the make tool, not here.
type PathsSection struct {
	Ptlib        string `toml:"ptlib"`
	Opal         string `toml:"opal"`
	Pyvoip       string `toml:"pyvoip"`
	Qt           string `toml:"qt"`
	ProgramFiles string `toml:"program_files"`
	Source       string `toml:"source"`
	Build        string `toml:"build"`
	ModuleDir    string `toml:"module_dir"`
}

// SipSection defines the [sip] section
type SipSection struct {
	Bin   string   `toml:"bin"`
	Dir   string   `toml:"dir"`
	Flags []string `toml:"flags"`
}

// PythonSection defines the [python] section
type PythonSection struct {
	IncludeDir string `toml:"include_dir"`
	LibDir     string `toml:"lib_dir"`
	Lib        string `toml:"lib"`
}

// FlagSet is a group of compiler and linker flags
type FlagSet struct {
	Defines  []string `toml:"defines"`
	Cflags   []string `toml:"cflags"`
	Cxxflags []string `toml:"cxxflags"`
	Lflags   []string `toml:"lflags"`
}

// MacrosSection defines the [macros] section and its [macros.release] and
// [macros.debug] tables
type MacrosSection struct {
	Defines  []string `toml:"defines"`
	Cflags   []string `toml:"cflags"`
	Cxxflags []string `toml:"cxxflags"`
	Lflags   []string `toml:"lflags"`
	Release  FlagSet  `toml:"release"`
	Debug    FlagSet  `toml:"debug"`
}

var msvcFlags = []string{"-nologo", "-Zm200", "-Zc:wchar_t", "-Zc:forScope"}

// Default returns the configuration used when no pyvoip.toml is present.
func Default() *Config {
	return &Config{
		Paths: PathsSection{
			Ptlib:        "$(PTLIBDIR)",
			Opal:         "$(OPALDIR)",
			Pyvoip:       "$(PYVOIPDIR)",
			Qt:           "$(QTDIR)",
			ProgramFiles: "$(PROGRAMFILES)",
			Source:       ".",
			Build:        "build",
			ModuleDir:    "$(PYTHONDIR)/Lib/site-packages",
		},
		Sip: SipSection{
			Bin: "sip",
			Dir: "$(PYTHONDIR)/sip/PyQt4",
		},
		Python: PythonSection{
			IncludeDir: "$(PYTHONDIR)/include",
			LibDir:     "$(PYTHONDIR)/libs",
			Lib:        "python27",
		},
		// ptlib and opal have no unicode support, so UNICODE is left out of the defines
		Macros: MacrosSection{
			Defines:  []string{"WIN32", "QT_LARGEFILE_SUPPORT", "MBCS"},
			Cflags:   append([]string(nil), msvcFlags...),
			Cxxflags: append([]string(nil), msvcFlags...),
			Lflags:   []string{"/NOLOGO", "/DLL", "/MANIFEST", "/MANIFESTFILE:$(TARGET).manifest", "/SUBSYSTEM:CONSOLE", "/INCREMENTAL:NO"},
			Release: FlagSet{
				Cflags:   []string{"-O2", "-MD"},
				Cxxflags: []string{"-O2", "-MD"},
			},
			Debug: FlagSet{
				Defines:  []string{"Py_DEBUG"},
				Cflags:   []string{"-Od", "-MDd"},
				Cxxflags: []string{"-Od", "-MDd"},
			},
		},
	}
}

// Flags returns the base flags followed by the ones specific to the variant.
func (c *Config) Flags(v Variant) FlagSet {
	extra := c.Macros.Release
	if v == Debug {
		extra = c.Macros.Debug
	}
	return FlagSet{
		Defines:  concat(c.Macros.Defines, extra.Defines),
		Cflags:   concat(c.Macros.Cflags, extra.Cflags),
		Cxxflags: concat(c.Macros.Cxxflags, extra.Cxxflags),
		Lflags:   concat(c.Macros.Lflags, extra.Lflags),
	}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// mergeStructs merges the fields of the src struct into the dst struct
func mergeStructs(dst, src any) error {
	dstVal := reflect.ValueOf(dst)
	if dstVal.Kind() != reflect.Pointer || dstVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dst must be a pointer to a struct")
	}

	dstElem := dstVal.Elem()
	srcVal := reflect.ValueOf(src)
	if srcVal.Kind() == reflect.Pointer {
		srcVal = srcVal.Elem()
	}
	if srcVal.Kind() != reflect.Struct {
		return fmt.Errorf("src must be a struct or a pointer to a struct")
	}
	if dstElem.Type() != srcVal.Type() {
		return fmt.Errorf("dst and src must be of the same struct type")
	}

	for i := range srcVal.NumField() {
		srcField := srcVal.Field(i)
		dstField := dstElem.Field(i)

		if !dstField.CanSet() {
			continue
		}

		switch dstField.Kind() {
		case reflect.Slice:
			if !srcField.IsNil() {
				dstField.Set(reflect.AppendSlice(dstField, srcField))
			}
		case reflect.Struct:
			if err := mergeStructs(dstField.Addr().Interface(), srcField.Interface()); err != nil {
				return err
			}
		default:
			if !srcField.IsZero() {
				dstField.Set(srcField)
			}
		}
	}

	return nil
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalSection parses, evaluates and merges a section together with its
// conditional sub-tables. A sub-table whose key compiles as an expression is
// conditional and merged on top of the base fields when it evaluates to true.
func unmarshalSection[T any](rawCfg map[string]any, name string, dst *T, env Env) error {
	sectionData, ok := rawCfg[name]
	if !ok {
		return nil
	}

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}

	baseFields := make(map[string]any)
	conditionalFields := make(map[string]map[string]any)

	for key, val := range sectionMap {
		if subMap, ok := val.(map[string]any); ok {
			if _, err := expr.Compile(key, expr.Env(env)); err == nil {
				conditionalFields[key] = subMap
				continue
			}
		}
		baseFields[key] = val
	}

	if len(baseFields) > 0 {
		if err := toml.Unmarshal([]byte(mustMarshal(baseFields)), dst); err != nil {
			return fmt.Errorf("failed to parse [%s] section: %w", name, err)
		}
	}

	for expression, condMap := range conditionalFields {
		matched, err := evalBool(expression, env)
		if err != nil {
			return fmt.Errorf("conditional section [%s.%q]: %w", name, expression, err)
		}
		if !matched {
			continue
		}

		var condSection T
		if err := toml.Unmarshal([]byte(mustMarshal(condMap)), &condSection); err != nil {
			return fmt.Errorf("failed to parse conditional section [%s.%q]: %w", name, expression, err)
		}
		if err := mergeStructs(dst, condSection); err != nil {
			return fmt.Errorf("failed to merge conditional section [%s.%q]: %w", name, expression, err)
		}
	}

	return nil
}

func evalBool(expression string, env Env) (bool, error) {
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, err
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	matched, _ := result.(bool)
	return matched, nil
}

var exprRegex = regexp.MustCompile(`\{\{(.+?)\}\}`)

// evaluateString finds and evaluates all {{...}} expressions in a string
func evaluateString(s string, env Env) (string, error) {
	matches := exprRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var sb strings.Builder
	lastIndex := 0

	for _, m := range matches {
		sb.WriteString(s[lastIndex:m[0]])

		expression := strings.TrimSpace(s[m[2]:m[3]])
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}
		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("failed to run expression %q: %w", expression, err)
		}

		fmt.Fprintf(&sb, "%v", result)
		lastIndex = m[1]
	}

	sb.WriteString(s[lastIndex:])
	return sb.String(), nil
}

// processExpressions recursively walks the parsed TOML data and evaluates expressions in strings
func processExpressions(data any, env Env) (any, error) {
	switch v := data.(type) {
	case map[string]any:
		for key, val := range v {
			processed, err := processExpressions(val, env)
			if err != nil {
				return nil, err
			}
			v[key] = processed
		}
		return v, nil
	case []any:
		for i, item := range v {
			processed, err := processExpressions(item, env)
			if err != nil {
				return nil, err
			}
			v[i] = processed
		}
		return v, nil
	case string:
		return evaluateString(v, env)
	default:
		return data, nil
	}
}

// Parse reads a pyvoip.toml document on top of the defaults.
func Parse(rdr io.Reader, env Env) (*Config, error) {
	var rawConfig map[string]any
	if err := toml.NewDecoder(rdr).Decode(&rawConfig); err != nil {
		if derr, ok := err.(*toml.DecodeError); ok {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	processed, err := processExpressions(rawConfig, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in config: %w", err)
	}
	rawConfig = processed.(map[string]any)

	cfg := Default()
	if err := unmarshalSection(rawConfig, "paths", &cfg.Paths, env); err != nil {
		return nil, err
	}
	if err := unmarshalSection(rawConfig, "sip", &cfg.Sip, env); err != nil {
		return nil, err
	}
	if err := unmarshalSection(rawConfig, "python", &cfg.Python, env); err != nil {
		return nil, err
	}
	if err := unmarshalSection(rawConfig, "macros", &cfg.Macros, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseFile parses a config file from a filepath
func ParseFile(path string, env Env) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(bufio.NewReader(f), env)
	if err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "%s", path)
	}
	return cfg, nil
}

// Load parses dir/pyvoip.toml, or returns the defaults when there is none.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return ParseFile(path, NewEnv())
}

// Env is the expression environment for {{...}} values and conditional tables.
type Env struct {
	TargetOS   string            `expr:"target_os"`
	TargetArch string            `expr:"target_arch"`
	Environ    map[string]string `expr:"environ"`
}

func NewEnv() Env {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}

	return Env{
		TargetOS:   runtime.GOOS,
		TargetArch: runtime.GOARCH,
		Environ:    environ,
	}
}
