// Package builder runs a configure pass: sip code generation for every
// binding module followed by build script emission.
package builder

import (
	"path/filepath"

	"github.com/pyvoip/configure/internal/builder/gen"
	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/errors"
	"github.com/pyvoip/configure/internal/msg"
	"github.com/pyvoip/configure/internal/registry"
	"github.com/pyvoip/configure/internal/sip"
)

type Builder struct {
	cfg    *config.Config
	reg    *registry.Registry
	gen    gen.Generator
	runner sip.Runner
	sipBin string
}

// New returns a builder emitting scripts with the named generator. A nil
// runner runs sip as a subprocess.
func New(cfg *config.Config, generator string, runner sip.Runner) (*Builder, error) {
	g, err := gen.New(generator)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	if runner == nil {
		runner = sip.NewExecRunner()
	}

	return &Builder{
		cfg:    cfg,
		reg:    registry.New(cfg),
		gen:    g,
		runner: runner,
		sipBin: findSip(cfg.Sip.Bin),
	}, nil
}

// Configure generates every module in registry order, then the aggregate
// script in the source directory. The first error aborts the run; whatever
// was generated before it stays on disk.
func (b *Builder) Configure(variant config.Variant) error {
	sourceDir, err := filepath.Abs(b.cfg.Paths.Source)
	if err != nil {
		return errors.WithStackTrace(err)
	}

	progress := msg.NewProgress(len(registry.Modules))
	modules := make([]*gen.Module, 0, len(registry.Modules))

	for _, module := range registry.Modules {
		progress.Step("%s (%s)", module, variant)

		libs, err := b.reg.Resolve(variant.Qualify(module))
		if err != nil {
			return err
		}
		includeDirs, err := b.reg.IncludeDirs(module)
		if err != nil {
			return err
		}
		libDirs, err := b.reg.LibDirs(module)
		if err != nil {
			return err
		}
		msg.Debug("%s links %v", module, libs)

		m, err := b.generateModule(module, CodeOptions{
			IncludeDirs: includeDirs,
			LibDirs:     libDirs,
			Libs:        libs,
		}, variant)
		if err != nil {
			return err
		}
		modules = append(modules, m)
	}

	inst, err := installs(sourceDir, b.cfg.Paths.ModuleDir)
	if err != nil {
		return err
	}

	parent := &gen.Parent{
		Dir:      sourceDir,
		Modules:  modules,
		Installs: inst,
		Revision: sourceRevision(sourceDir),
	}

	script := filepath.Join(sourceDir, b.gen.ParentFile())
	out, err := b.gen.GenerateParent(parent)
	if err != nil {
		return errors.WithStackTraceAndPrefix(err, "generating %s", script)
	}
	if _, err := writeScript(script, out); err != nil {
		return err
	}

	msg.Info("generated %s", script)
	return nil
}
