package gen

import (
	"path/filepath"
	"strings"
)

// NinjaGen writes a build.ninja per module, compiling with cl and linking
// with link, and a parent build.ninja that pulls them in with subninja.
type NinjaGen struct{}

func (g *NinjaGen) ModuleFile(*Module) string { return "build.ninja" }
func (g *NinjaGen) ParentFile() string        { return "build.ninja" }

var (
	ninjaPathEscaper  = strings.NewReplacer("$", "$$", ":", "$:", " ", "$ ")
	ninjaValueEscaper = strings.NewReplacer("$", "$$")
)

func quote(s string) string { return ninjaPathEscaper.Replace(filepath.ToSlash(s)) }

// argQuote quotes a command argument containing spaces for the Windows command line
func argQuote(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

func value(items []string) string {
	return ninjaValueEscaper.Replace(strings.Join(items, " "))
}

func (g *NinjaGen) GenerateModule(m *Module) (string, error) {
	var sb strings.Builder

	header(&sb, "#", nil)

	writeln(&sb, "ninja_required_version = 1.3")
	writeln(&sb, "defines = ", value(prefixed("-D", m.Defines, argQuote)))
	writeln(&sb, "includes = ", value(append([]string{"-I" + argQuote(m.Dir)}, prefixed("-I", m.IncludeDirs, argQuote)...)))
	writeln(&sb, "cflags = ", value(m.Cflags))
	writeln(&sb, "cxxflags = ", value(m.Cxxflags))
	writeln(&sb, "lflags = ", value(m.Lflags))

	libs := prefixed("/LIBPATH:", m.LibDirs, argQuote)
	for _, lib := range m.Libs {
		libs = append(libs, libFile(lib))
	}
	writeln(&sb, "libs = ", value(libs))
	writeln(&sb)

	// gen rules
	write(&sb,
		`rule cc
  command = cl -c $cflags $defines $includes /showIncludes -Fo$out $in
  deps = msvc
  description = CC $out
`)
	write(&sb,
		`rule cxx
  command = cl -c $cxxflags $defines $includes /showIncludes -Fo$out $in
  deps = msvc
  description = CXX $out
`)
	write(&sb,
		`rule link
  command = link $lflags /OUT:$out $in $libs
  description = LINK $out
`)
	writeln(&sb)

	objs := m.Objects()
	for i, src := range m.Sources {
		rule := "cc"
		if isCxx(src) {
			rule = "cxx"
		}
		writeln(&sb, "build ", quote(filepath.Join(m.Dir, objs[i])), ": ", rule, " ", quote(filepath.Join(m.Dir, src)))
	}
	writeln(&sb)

	write(&sb, "build ", quote(filepath.Join(m.Dir, m.TargetFile())), ": link")
	for _, obj := range objs {
		write(&sb, " ", quote(filepath.Join(m.Dir, obj)))
	}
	writeln(&sb)

	return sb.String(), nil
}

func (g *NinjaGen) GenerateParent(p *Parent) (string, error) {
	var sb strings.Builder

	header(&sb, "#", p)

	writeln(&sb, "ninja_required_version = 1.3")
	writeln(&sb)
	write(&sb,
		`rule install
  command = cmd /c copy /y $in $out
  description = INSTALL $out
`)
	writeln(&sb)

	for _, m := range p.Modules {
		writeln(&sb, "subninja ", quote(filepath.Join(m.Dir, g.ModuleFile(m))))
	}
	writeln(&sb)

	var targets, installed []string
	for _, m := range p.Modules {
		target := quote(filepath.Join(m.Dir, m.TargetFile()))
		targets = append(targets, target)

		dst := quote(filepath.Join(m.InstallDir, m.TargetFile()))
		writeln(&sb, "build ", dst, ": install ", target)
		installed = append(installed, dst)
	}
	for _, inst := range p.Installs {
		for _, file := range inst.Files {
			dst := quote(filepath.Join(inst.Dir, filepath.Base(filepath.FromSlash(file))))
			writeln(&sb, "build ", dst, ": install ", quote(file))
			installed = append(installed, dst)
		}
	}
	writeln(&sb)

	writeln(&sb, "build all: phony ", strings.Join(targets, " "))
	writeln(&sb, "build install: phony ", strings.Join(installed, " "))
	writeln(&sb, "default all")

	return sb.String(), nil
}
