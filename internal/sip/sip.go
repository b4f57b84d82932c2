// Package sip drives the SIP binding generator.
package sip

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pyvoip/configure/internal/msg"
)

// ModFile is the name of the top-level .sip file of module mname.
func ModFile(mname string) string { return mname + "mod.sip" }

// BuildFileName is the name of the build descriptor sip writes for mname.
func BuildFileName(mname string) string { return mname + ".sbf" }

// Invocation describes one run of sip for a single module.
type Invocation struct {
	Module string
	// SourceDir holds one subdirectory of .sip files per module.
	SourceDir string
	// BuildDir receives the generated C++ sources and the build descriptor.
	BuildDir string
	// SharedDir is the shared .sip search path (the PyQt sip directory).
	SharedDir string
	Flags     []string
	Debug     bool
}

// BuildFile is the path of the build descriptor the invocation should produce.
func (inv Invocation) BuildFile() string {
	return filepath.Join(inv.BuildDir, BuildFileName(inv.Module))
}

// Args returns the argument list passed to sip, not including the program.
func (inv Invocation) Args() []string {
	args := make([]string, 0, len(inv.Flags)+10)
	args = append(args, inv.Flags...)

	// enable tracing statements in the generated code
	if inv.Debug {
		args = append(args, "-r")
	}

	args = append(args,
		"-c", inv.BuildDir,
		"-b", inv.BuildFile(),
		"-I", inv.SharedDir,
		"-I", filepath.Join(inv.SourceDir, inv.Module),
		// sip assumes POSIX style path separators
		filepath.ToSlash(filepath.Join(inv.SourceDir, inv.Module, ModFile(inv.Module))),
	)
	return args
}

// Runner runs an external program to completion.
type Runner interface {
	Run(name string, args []string) error
}

// ExecRunner runs programs with os/exec, without a shell.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner whose output is indented under the echoed command line.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdout: &msg.IndentWriter{Indent: "    ", W: os.Stdout},
		Stderr: &msg.IndentWriter{Indent: "    ", W: os.Stderr},
	}
}

func (r *ExecRunner) Run(name string, args []string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}
