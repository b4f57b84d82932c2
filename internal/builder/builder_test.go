package builder

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyvoip/configure/internal/builder/gen"
	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/errors"
	"github.com/pyvoip/configure/internal/msg"
)

// fakeRunner stands in for sip: it records every argv and writes the build
// descriptor named by -b, unless descriptor returns "" for the module.
type fakeRunner struct {
	calls      [][]string
	descriptor func(module string) string
	err        error
}

func descriptorFor(module string) string {
	return "target = " + module + "\n" +
		"sources = sip" + module + "cmodule.cpp sip" + module + "PString.cpp\n" +
		"headers = sipAPI" + module + ".h\n"
}

func (r *fakeRunner) Run(name string, args []string) error {
	r.calls = append(r.calls, args)

	i := slices.Index(args, "-b")
	if i < 0 || i+1 >= len(args) {
		return r.err
	}
	sbf := args[i+1]
	module := strings.TrimSuffix(filepath.Base(sbf), ".sbf")

	describe := r.descriptor
	if describe == nil {
		describe = descriptorFor
	}
	if content := describe(module); content != "" {
		if err := os.WriteFile(sbf, []byte(content), 0644); err != nil {
			return err
		}
	}
	return r.err
}

func quiet(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	oldOutput, oldNoColor := msg.Output, color.NoColor
	msg.Output, color.NoColor = &buf, true
	t.Cleanup(func() { msg.Output, color.NoColor = oldOutput, oldNoColor })
	return &buf
}

func newTestBuilder(t *testing.T, generator string, runner *fakeRunner) (*Builder, *config.Config) {
	t.Helper()
	quiet(t)

	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Paths.Source, "sip"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.Source, "sip", "__init__.py"), nil, 0644))

	b, err := New(cfg, generator, runner)
	require.NoError(t, err)
	return b, cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConfigureRelease(t *testing.T) {
	runner := &fakeRunner{}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)

	require.NoError(t, b.Configure(config.Release))

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "ptlibmod.sip", filepath.Base(runner.calls[0][len(runner.calls[0])-1]))
	assert.Equal(t, "opalmod.sip", filepath.Base(runner.calls[1][len(runner.calls[1])-1]))
	for _, args := range runner.calls {
		assert.NotContains(t, args, "-r")
	}

	ptlibDir := filepath.Join(cfg.Paths.Build, "ptlib", "release")
	opalDir := filepath.Join(cfg.Paths.Build, "opal", "release")

	ptlib := readFile(t, filepath.Join(ptlibDir, "Makefile"))
	assert.Contains(t, ptlib, "TARGET = ptlib.pyd\n")
	assert.Contains(t, ptlib, " ptlib.lib ws2_32.lib python27.lib\n")

	opal := readFile(t, filepath.Join(opalDir, "Makefile"))
	assert.Contains(t, opal, " opal.lib ptlib.lib ws2_32.lib python27.lib\n")
	assert.Contains(t, opal, "-EHsc -Zi\n")
	assert.Contains(t, opal, "/DEBUG /PDB:opal.pdb\n")
	assert.Contains(t, opal, "-I"+filepath.Join("$(OPALDIR)", "include")+" -I"+filepath.Join("$(PTLIBDIR)", "include"))

	parent := readFile(t, filepath.Join(cfg.Paths.Source, "Makefile"))
	// nmake scripts use Windows separators
	assert.Contains(t, parent, "cd "+strings.ReplaceAll(ptlibDir, "/", `\`))
	assert.Contains(t, parent, "cd "+strings.ReplaceAll(opalDir, "/", `\`))
	assert.Contains(t, parent, "__init__.py")
}

func TestConfigureDebug(t *testing.T) {
	runner := &fakeRunner{}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)

	require.NoError(t, b.Configure(config.Debug))

	require.Len(t, runner.calls, 2)
	for _, args := range runner.calls {
		assert.Contains(t, args, "-r")
	}

	ptlib := readFile(t, filepath.Join(cfg.Paths.Build, "ptlib", "debug", "Makefile"))
	assert.Contains(t, ptlib, "TARGET = ptlib_d.pyd\n")
	assert.Contains(t, ptlib, " ptlibd.lib ws2_32.lib python27_d.lib\n")
	assert.Contains(t, ptlib, "-DPy_DEBUG")

	// the suffix is applied to each module name once, never accumulated
	opal := readFile(t, filepath.Join(cfg.Paths.Build, "opal", "debug", "Makefile"))
	assert.Contains(t, opal, " opald.lib ptlibd.lib ws2_32.lib python27_d.lib\n")
	assert.NotContains(t, opal, "ptlibdd")
}

func TestConfigureFailsFast(t *testing.T) {
	runner := &fakeRunner{descriptor: func(string) string { return "" }}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)

	err := b.Configure(config.Release)
	require.Error(t, err)

	var missing MissingDescriptorError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "ptlib", missing.Module)

	assert.Len(t, runner.calls, 1)
	assert.DirExists(t, filepath.Join(cfg.Paths.Build, "ptlib", "release"))
	assert.NoDirExists(t, filepath.Join(cfg.Paths.Build, "opal"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.Source, "Makefile"))
}

func TestConfigureStopsAtSecondModule(t *testing.T) {
	runner := &fakeRunner{descriptor: func(module string) string {
		if module == "opal" {
			return ""
		}
		return descriptorFor(module)
	}}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)

	require.Error(t, b.Configure(config.Release))

	// artifacts of the first module stay
	assert.FileExists(t, filepath.Join(cfg.Paths.Build, "ptlib", "release", "Makefile"))
	assert.NoFileExists(t, filepath.Join(cfg.Paths.Source, "Makefile"))
}

func TestConfigureIgnoresSipExitStatus(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)
	out := quiet(t)

	require.NoError(t, b.Configure(config.Release))
	assert.FileExists(t, filepath.Join(cfg.Paths.Source, "Makefile"))
	assert.Contains(t, out.String(), "warn: ")
}

func TestConfigureOccupiedBuildDir(t *testing.T) {
	runner := &fakeRunner{}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)

	dir := filepath.Join(cfg.Paths.Build, "ptlib", "release")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ptlibmod.sip"), nil, 0644))

	err := b.Configure(config.Release)
	var occupied BuildDirOccupiedError
	require.True(t, errors.As(err, &occupied))
	assert.Empty(t, runner.calls)
	assert.FileExists(t, filepath.Join(dir, "ptlibmod.sip"))
}

func TestConfigureTwice(t *testing.T) {
	runner := &fakeRunner{}
	b, cfg := newTestBuilder(t, gen.GeneratorNinja, runner)

	require.NoError(t, b.Configure(config.Release))
	stale := filepath.Join(cfg.Paths.Build, "opal", "release", "stale.obj")
	require.NoError(t, os.WriteFile(stale, nil, 0644))

	require.NoError(t, b.Configure(config.Release))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(cfg.Paths.Source, "build.ninja"))
}

func TestConfigureVS2022(t *testing.T) {
	runner := &fakeRunner{}
	b, cfg := newTestBuilder(t, gen.GeneratorVS2022, runner)

	require.NoError(t, b.Configure(config.Release))
	assert.FileExists(t, filepath.Join(cfg.Paths.Build, "ptlib", "release", "ptlib.vcxproj"))
	assert.FileExists(t, filepath.Join(cfg.Paths.Build, "opal", "release", "opal.vcxproj"))

	sln := readFile(t, filepath.Join(cfg.Paths.Source, "pyvoip.sln"))
	assert.Contains(t, sln, `"ptlib"`)
	assert.Contains(t, sln, `"opal"`)
}

func TestGenerateCode(t *testing.T) {
	runner := &fakeRunner{}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)
	cfg.Sip.Flags = []string{"-k"}

	dir, err := b.GenerateCode("ptlib", CodeOptions{
		IncludeDirs:   []string{"/inc"},
		LibDirs:       []string{"/lib"},
		Libs:          []string{"ptlib", "ws2_32"},
		ExtraSipFlags: []string{"-e"},
	}, config.Release)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Paths.Build, "ptlib", "release"), dir)

	require.Len(t, runner.calls, 1)
	args := runner.calls[0]
	assert.Equal(t, []string{"-k", "-e", "-c", dir}, args[:4])
	assert.Equal(t, filepath.ToSlash(filepath.Join(cfg.Paths.Source, "ptlib", "ptlibmod.sip")), args[len(args)-1])

	makefile := readFile(t, filepath.Join(dir, "Makefile"))
	assert.Contains(t, makefile, "-I/inc")
	assert.Contains(t, makefile, "/LIBPATH:/lib")
	assert.Contains(t, makefile, "OFILES = sipptlibcmodule.obj sipptlibPString.obj\n")
}

func TestGenerateCodeBadDescriptor(t *testing.T) {
	runner := &fakeRunner{descriptor: func(string) string { return "headers = a.h\n" }}
	b, _ := newTestBuilder(t, gen.GeneratorNMake, runner)

	_, err := b.GenerateCode("opal", CodeOptions{}, config.Release)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no target")
}

func TestNewUnknownGenerator(t *testing.T) {
	_, err := New(config.Default(), "xcode", &fakeRunner{})
	assert.Error(t, err)
}

func TestWriteScript(t *testing.T) {
	out := quiet(t)
	path := filepath.Join(t.TempDir(), "Makefile")

	changed, err := writeScript(path, "all:\n\tcd a\n")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = writeScript(path, "all:\n\tcd a\n")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = writeScript(path, "all:\n\tcd b\n")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out.String(), "(+1 -1 lines)")
	assert.Equal(t, "all:\n\tcd b\n", readFile(t, path))

	_, err = writeScript(filepath.Join(path, "nested"), "x")
	var writeErr ScriptWriteError
	assert.True(t, errors.As(err, &writeErr))
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sip", "sub"), 0755))
	for _, name := range []string{"sip/__init__.py", "sip/calls.py", "sip/sub/more.py", "sip/ptlib.sip"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), nil, 0644))
	}

	files, err := expandPatterns(dir, []string{"sip/**/*.py"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sip/__init__.py", "sip/calls.py", "sip/sub/more.py"}, files)

	files, err = expandPatterns(dir, []string{"docs/README"})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/README"}, files)

	_, err = expandPatterns(dir, []string{"sip/[.py"})
	assert.Error(t, err)
}

func TestInstalls(t *testing.T) {
	got, err := installs(t.TempDir(), "/py/site-packages")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"sip/__init__.py"}, got[0].Files)
	assert.Equal(t, filepath.Join("/py/site-packages", "pyvoip"), got[0].Dir)
}

// commitSource makes dir a git repository with a single commit and returns its hash.
func commitSource(t *testing.T, dir string) string {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)

	_, err = w.Add("sip/__init__.py")
	require.NoError(t, err)
	hash, err := w.Commit("add package init", &git.CommitOptions{
		Author: &object.Signature{Name: "pyvoip", Email: "pyvoip@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestSourceRevision(t *testing.T) {
	runner := &fakeRunner{}
	b, cfg := newTestBuilder(t, gen.GeneratorNMake, runner)
	hash := commitSource(t, cfg.Paths.Source)

	// found from a subdirectory too
	assert.Equal(t, hash[:shortHashLen], sourceRevision(filepath.Join(cfg.Paths.Source, "sip")))

	require.NoError(t, b.Configure(config.Release))
	parent := readFile(t, filepath.Join(cfg.Paths.Source, "Makefile"))
	assert.Contains(t, parent, "# Source revision: "+hash[:shortHashLen]+"\n")
}

func TestSourceRevisionOutsideRepository(t *testing.T) {
	quiet(t)
	assert.Empty(t, sourceRevision(t.TempDir()))
}

func TestFindSip(t *testing.T) {
	t.Setenv(sipEnv, "")
	assert.Equal(t, "no-such-sip-binary", findSip("no-such-sip-binary"))

	t.Setenv(sipEnv, "/opt/sip/bin/sip")
	assert.Equal(t, "/opt/sip/bin/sip", findSip("sip"))
}
