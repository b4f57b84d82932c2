package builder

import (
	"os"
	"path/filepath"

	"github.com/pyvoip/configure/internal/builder/gen"
	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/errors"
	"github.com/pyvoip/configure/internal/msg"
	"github.com/pyvoip/configure/internal/sip"
)

// CodeOptions are the per-module extras passed to GenerateCode.
type CodeOptions struct {
	IncludeDirs   []string
	LibDirs       []string
	Libs          []string
	ExtraSipFlags []string
}

// flags appended to every module, so that each one gets a program database
var (
	extraCflags   = []string{"-Zi"}
	extraCxxflags = []string{"-EHsc", "-Zi"}
)

func extraLflags(name string) []string {
	return []string{"/DEBUG", "/PDB:" + name + ".pdb"}
}

// GenerateCode runs sip for module name into a fresh build directory and
// writes the module's build script there. It returns the build directory.
func (b *Builder) GenerateCode(name string, opts CodeOptions, variant config.Variant) (string, error) {
	m, err := b.generateModule(name, opts, variant)
	if err != nil {
		return "", err
	}
	return m.Dir, nil
}

func (b *Builder) generateModule(name string, opts CodeOptions, variant config.Variant) (*gen.Module, error) {
	dir, err := PrepareBuildDir(b.cfg, name, variant)
	if err != nil {
		return nil, err
	}

	sourceDir, err := filepath.Abs(b.cfg.Paths.Source)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	inv := sip.Invocation{
		Module:    name,
		SourceDir: sourceDir,
		BuildDir:  dir,
		SharedDir: b.cfg.Sip.Dir,
		Flags:     append(append([]string(nil), b.cfg.Sip.Flags...), opts.ExtraSipFlags...),
		Debug:     variant == config.Debug,
	}

	args := inv.Args()
	msg.Command(b.sipBin, args)
	// sip's exit status is not trusted, the descriptor check below decides
	if err := b.runner.Run(b.sipBin, args); err != nil {
		msg.Warn("%s: %v", b.sipBin, err)
	}

	descriptor := inv.BuildFile()
	if _, err := os.Stat(descriptor); err != nil {
		return nil, errors.WithStackTrace(MissingDescriptorError{Module: name, Path: descriptor})
	}
	bf, err := sip.ParseBuildFileFromPath(descriptor)
	if err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "reading %s", descriptor)
	}

	flags := b.cfg.Flags(variant)
	m := &gen.Module{
		Name:       name,
		Dir:        dir,
		Target:     bf.Target,
		Sources:    bf.Sources,
		Headers:    bf.Headers,
		Debug:      variant == config.Debug,
		Defines:    flags.Defines,
		Cflags:     append(flags.Cflags, extraCflags...),
		Cxxflags:   append(flags.Cxxflags, extraCxxflags...),
		Lflags:     append(flags.Lflags, extraLflags(name)...),
		InstallDir: filepath.Join(b.cfg.Paths.ModuleDir, "pyvoip"),
	}
	m.AddExtras(opts.IncludeDirs, opts.LibDirs, opts.Libs)
	m.AddExtras([]string{b.cfg.Python.IncludeDir}, []string{b.cfg.Python.LibDir}, []string{pythonLib(b.cfg, variant)})

	script := filepath.Join(dir, b.gen.ModuleFile(m))
	out, err := b.gen.GenerateModule(m)
	if err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "generating %s", script)
	}
	if _, err := writeScript(script, out); err != nil {
		return nil, err
	}

	return m, nil
}

// pythonLib is the Python import library; a debug interpreter is built as python27_d.
func pythonLib(cfg *config.Config, variant config.Variant) string {
	if variant == config.Debug {
		return cfg.Python.Lib + "_d"
	}
	return cfg.Python.Lib
}
