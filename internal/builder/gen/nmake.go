package gen

import (
	"path/filepath"
	"strings"
)

// NMakeGen writes Makefiles for Microsoft nmake, laid out like the ones
// sipconfig produces: one per module and a parent that recurses into each.
type NMakeGen struct{}

func (g *NMakeGen) ModuleFile(*Module) string { return "Makefile" }
func (g *NMakeGen) ParentFile() string        { return "Makefile" }

// nmakeQuote quotes paths containing spaces
func nmakeQuote(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

func winPath(s string) string {
	return strings.ReplaceAll(s, "/", `\`)
}

func (g *NMakeGen) GenerateModule(m *Module) (string, error) {
	var sb strings.Builder

	header(&sb, "#", nil)

	writeln(&sb, "TARGET = ", m.TargetFile())
	writeln(&sb, "OFILES = ", strings.Join(m.Objects(), " "))
	writeln(&sb, "HFILES = ", strings.Join(m.Headers, " "))
	writeln(&sb)

	writeln(&sb, "CC = cl")
	writeln(&sb, "CXX = cl")
	writeln(&sb, "LINK = link")
	writeln(&sb, "CPPFLAGS = ", strings.Join(prefixed("-D", m.Defines, nmakeQuote), " "))
	writeln(&sb, "INCPATH = -I. ", strings.Join(prefixed("-I", m.IncludeDirs, nmakeQuote), " "))
	writeln(&sb, "CFLAGS = ", strings.Join(m.Cflags, " "))
	writeln(&sb, "CXXFLAGS = ", strings.Join(m.Cxxflags, " "))
	writeln(&sb, "LFLAGS = ", strings.Join(m.Lflags, " "))

	libs := prefixed("/LIBPATH:", m.LibDirs, nmakeQuote)
	for _, lib := range m.Libs {
		libs = append(libs, libFile(lib))
	}
	writeln(&sb, "LIBS = ", strings.Join(libs, " "))
	writeln(&sb)

	writeln(&sb, ".SUFFIXES: .c .cpp .cc .cxx .C")
	writeln(&sb)
	for _, ext := range []string{".cpp", ".cc", ".cxx", ".C"} {
		writeln(&sb, "{.}", ext, "{}.obj::")
		writeln(&sb, "\t$(CXX) -c $(CXXFLAGS) $(CPPFLAGS) $(INCPATH) -Fo @<<")
		writeln(&sb, "\t$<")
		writeln(&sb, "<<")
		writeln(&sb)
	}
	writeln(&sb, "{.}.c{}.obj::")
	writeln(&sb, "\t$(CC) -c $(CFLAGS) $(CPPFLAGS) $(INCPATH) -Fo @<<")
	writeln(&sb, "\t$<")
	writeln(&sb, "<<")
	writeln(&sb)

	writeln(&sb, "all: $(TARGET)")
	writeln(&sb)
	writeln(&sb, "$(OFILES): $(HFILES)")
	writeln(&sb)
	writeln(&sb, "$(TARGET): $(OFILES)")
	writeln(&sb, "\t$(LINK) $(LFLAGS) /OUT:$(TARGET) @<<")
	writeln(&sb, "\t  $(OFILES) $(LIBS)")
	writeln(&sb, "<<")
	writeln(&sb, "\tmt -nologo -manifest $(TARGET).manifest -outputresource:$(TARGET);2")
	writeln(&sb)

	installDir := nmakeQuote(winPath(m.InstallDir))
	writeln(&sb, "install: $(TARGET)")
	writeln(&sb, "\t@if not exist ", installDir, " mkdir ", installDir)
	writeln(&sb, "\tcopy /y $(TARGET) ", nmakeQuote(winPath(m.InstallDir)+`\$(TARGET)`))
	writeln(&sb)

	writeln(&sb, "clean:")
	writeln(&sb, "\t-del $(TARGET)")
	writeln(&sb, "\t-del $(TARGET).manifest")
	for _, obj := range m.Objects() {
		writeln(&sb, "\t-del ", obj)
	}
	writeln(&sb, "\t-del ", m.Name, ".pdb")

	return sb.String(), nil
}

func (g *NMakeGen) GenerateParent(p *Parent) (string, error) {
	var sb strings.Builder

	header(&sb, "#", p)

	back := nmakeQuote(winPath(p.Dir))
	recurse := func(target string) {
		for _, m := range p.Modules {
			writeln(&sb, "\tcd ", nmakeQuote(winPath(m.Dir)))
			if target == "" {
				writeln(&sb, "\t$(MAKE)")
			} else {
				writeln(&sb, "\t$(MAKE) ", target)
			}
			writeln(&sb, "\t@cd ", back)
		}
	}

	writeln(&sb, "all:")
	recurse("")
	writeln(&sb)

	writeln(&sb, "install:")
	recurse("install")
	for _, inst := range p.Installs {
		dir := nmakeQuote(winPath(inst.Dir))
		writeln(&sb, "\t@if not exist ", dir, " mkdir ", dir)
		for _, file := range inst.Files {
			dst := winPath(inst.Dir) + `\` + filepath.Base(filepath.FromSlash(file))
			writeln(&sb, "\tcopy /y ", nmakeQuote(winPath(file)), " ", nmakeQuote(dst))
		}
	}
	writeln(&sb)

	writeln(&sb, "clean:")
	recurse("clean")

	return sb.String(), nil
}
