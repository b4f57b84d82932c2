package gen

import (
	"fmt"
	"slices"
	"strings"
)

const (
	GeneratorNMake  = "nmake"
	GeneratorNinja  = "ninja"
	GeneratorVS2022 = "vs2022"
)

// Module is the per-module build script model: what sip generated plus the
// flags, directories and libraries needed to compile and link it.
type Module struct {
	// Name is the binding module name, e.g. "opal".
	Name string
	// Dir is the absolute build directory holding the generated sources.
	Dir string
	// Target is the extension module name from the build descriptor.
	Target  string
	Sources []string
	Headers []string
	Debug   bool

	Defines     []string
	IncludeDirs []string
	LibDirs     []string
	Libs        []string
	Cflags      []string
	Cxxflags    []string
	Lflags      []string

	// InstallDir receives the built extension module.
	InstallDir string
}

// AddExtras appends extra include directories, library directories and libraries.
func (m *Module) AddExtras(includeDirs, libDirs, libs []string) {
	m.IncludeDirs = append(m.IncludeDirs, includeDirs...)
	m.LibDirs = append(m.LibDirs, libDirs...)
	m.Libs = append(m.Libs, libs...)
}

// TargetFile is the file name of the built extension module.
func (m *Module) TargetFile() string {
	if m.Debug {
		return m.Target + "_d.pyd"
	}
	return m.Target + ".pyd"
}

// Objects returns the object file name of every source, in source order.
func (m *Module) Objects() []string {
	objs := make([]string, len(m.Sources))
	for i, src := range m.Sources {
		objs[i] = strings.TrimSuffix(src, extension(src)) + ".obj"
	}
	return objs
}

func (m *Module) configuration() string {
	if m.Debug {
		return "Debug"
	}
	return "Release"
}

func extension(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 && !strings.ContainsAny(path[i:], `/\`) {
		return path[i:]
	}
	return ""
}

func isCxx(path string) bool {
	return slices.Contains([]string{".cpp", ".cc", ".cxx", ".c++", ".C"}, extension(path))
}

// libFile returns the import library file name for a library name.
func libFile(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".lib") {
		return name
	}
	return name + ".lib"
}

// Install copies Files, relative to the aggregate script, into Dir.
type Install struct {
	Files []string
	Dir   string
}

// Parent is the aggregate build script model.
type Parent struct {
	// Dir is where the aggregate script is written.
	Dir      string
	Modules  []*Module
	Installs []Install
	// Revision identifies the source tree the scripts were generated from, if known.
	Revision string
}

// Generator serializes build script models.
type Generator interface {
	// ModuleFile is the file name of the script written into each build directory.
	ModuleFile(m *Module) string
	GenerateModule(m *Module) (string, error)
	// ParentFile is the file name of the aggregate script.
	ParentFile() string
	GenerateParent(p *Parent) (string, error)
}

// New returns the generator with the given name.
func New(name string) (Generator, error) {
	switch name {
	case GeneratorNMake:
		return &NMakeGen{}, nil
	case GeneratorNinja:
		return &NinjaGen{}, nil
	case GeneratorVS2022:
		return &VS2022Gen{}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", name)
	}
}

// Names lists the generators with their help text.
var Names = map[string]string{
	GeneratorNMake:  "NMake Makefiles (default)",
	GeneratorNinja:  "build.ninja files",
	GeneratorVS2022: "Visual Studio 2022 projects and solution",
}

func header(sb *strings.Builder, comment string, p *Parent) {
	writeln(sb, comment, " Generated by pyvoip-configure. Do not edit.")
	if p != nil && p.Revision != "" {
		writeln(sb, comment, " Source revision: ", p.Revision)
	}
	writeln(sb)
}
