// Package registry is the static table of binding modules: which libraries
// each one links against, and where their headers and import libraries live.
package registry

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/errors"
)

// Modules are generated in this order. opal links against ptlib, so ptlib
// comes first.
var Modules = []string{"ptlib", "opal"}

// libDeps maps a module or library to its direct link dependencies. The order
// within each list is the link order and also the include search order. Debug
// builds use the "d" suffixed entries.
var libDeps = map[string][]string{
	"ptlib":         {"ws2_32"},
	"opal":          {"ptlib"},
	"voicemanager":  {"opal", "qtmain", "qtcore4"},
	"ptlibd":        {"ws2_32"},
	"opald":         {"ptlibd"},
	"voicemanagerd": {"opald", "qtmaind", "qtcore4d"},
}

// UnknownModuleError is returned for a name that has no registry entry.
type UnknownModuleError struct {
	Name string
}

func (err UnknownModuleError) Error() string {
	return fmt.Sprintf("module %q is not in the registry", err.Name)
}

// Registry resolves link dependencies and directories. Its tables are never
// modified after New returns.
type Registry struct {
	deps     map[string][]string
	includes map[string]string
	libs     map[string]string
}

// New builds the registry with directories rooted at the configured paths.
func New(cfg *config.Config) *Registry {
	p := cfg.Paths
	voicemanager := filepath.Clean(filepath.Join(p.Pyvoip, "voicemanager"))

	return &Registry{
		deps: libDeps,
		includes: map[string]string{
			"ptlib":        filepath.Join(p.Ptlib, "include"),
			"opal":         filepath.Join(p.Opal, "include"),
			"voicemanager": voicemanager,
		},
		libs: map[string]string{
			"ws2_32":       filepath.Clean(filepath.Join(p.ProgramFiles, "Microsoft SDKs", "Windows", "v6.0A", "Lib")),
			"ptlib":        filepath.Join(p.Ptlib, "lib"),
			"opal":         filepath.Join(p.Opal, "lib"),
			"voicemanager": filepath.Join(voicemanager, "lib"),
		},
	}
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.deps))
	for name := range r.deps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Deps returns the direct dependencies of name in registry order.
func (r *Registry) Deps(name string) ([]string, bool) {
	deps, ok := r.deps[name]
	return slices.Clone(deps), ok
}

// Resolve returns the libraries name links against, in link order: its direct
// dependencies, then the direct dependencies of each of those. Expansion stops
// at the second level, so a dependency of a dependency's dependency is not
// included. Duplicates are kept. The module itself is prepended unless it
// already appears in the list.
func (r *Registry) Resolve(name string) ([]string, error) {
	direct, ok := r.deps[name]
	if !ok {
		return nil, errors.WithStackTrace(UnknownModuleError{Name: name})
	}

	libs := slices.Clone(direct)
	for _, lib := range direct {
		if deps, ok := r.deps[lib]; ok {
			libs = append(libs, deps...)
		}
	}

	if !slices.Contains(libs, name) {
		libs = slices.Insert(libs, 0, name)
	}
	return libs, nil
}

// IncludeDirs returns the include directories of name's resolved
// dependencies, in link order. Libraries without headers of their own, such
// as system libraries, are skipped.
func (r *Registry) IncludeDirs(name string) ([]string, error) {
	return r.dirs(name, r.includes)
}

// LibDirs is IncludeDirs for import library directories.
func (r *Registry) LibDirs(name string) ([]string, error) {
	return r.dirs(name, r.libs)
}

func (r *Registry) dirs(name string, mapping map[string]string) ([]string, error) {
	libs, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, lib := range libs {
		if dir, ok := mapping[lib]; ok {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
