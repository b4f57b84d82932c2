// pyvoip-configure init [dir]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/errors"
	"github.com/pyvoip/configure/internal/msg"
)

// configTemplate spells out the defaults. A list set in a section replaces the
// default one; lists in a conditional table are appended.
const configTemplate = `# pyvoip-configure settings. Strings may embed {{ expr }}, e.g.
# "{{ environ.PYTHONDIR }}", and any section may hold conditional tables:
# [sip.'target_os == "windows"'].

[paths]
ptlib = "$(PTLIBDIR)"
opal = "$(OPALDIR)"
pyvoip = "$(PYVOIPDIR)"
qt = "$(QTDIR)"
program_files = "$(PROGRAMFILES)"
source = "."
build = "build"
module_dir = "$(PYTHONDIR)/Lib/site-packages"

[sip]
bin = "sip"
dir = "$(PYTHONDIR)/sip/PyQt4"
# flags = ["-x", "VendorID"]

[python]
include_dir = "$(PYTHONDIR)/include"
lib_dir = "$(PYTHONDIR)/libs"
lib = "python27"

[macros]
defines = ["WIN32", "QT_LARGEFILE_SUPPORT", "MBCS"]
cflags = ["-nologo", "-Zm200", "-Zc:wchar_t", "-Zc:forScope"]
cxxflags = ["-nologo", "-Zm200", "-Zc:wchar_t", "-Zc:forScope"]
lflags = ["/NOLOGO", "/DLL", "/MANIFEST", "/MANIFESTFILE:$(TARGET).manifest", "/SUBSYSTEM:CONSOLE", "/INCREMENTAL:NO"]

[macros.release]
cflags = ["-O2", "-MD"]
cxxflags = ["-O2", "-MD"]

[macros.debug]
defines = ["Py_DEBUG"]
cflags = ["-Od", "-MDd"]
cxxflags = ["-Od", "-MDd"]
`

// writefile creates a file unless it already exists and reports whether it did.
func writefile(content string, elem ...string) (bool, error) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); err == nil {
		msg.Warn("%s already exists, leaving it alone", filepath.ToSlash(path))
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, errors.WithStackTraceAndPrefix(err, "create file %s", path)
	}
	fmt.Fprintf(msg.Output, "%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	return true, nil
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "pyvoip-configure"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// initIn writes a commented pyvoip.toml and a .gitignore for the build tree into dir.
func initIn(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStackTrace(err)
	}
	if _, err := writefile(configTemplate, dir, config.FileName); err != nil {
		return err
	}
	if _, err := writefile("build/\n", dir, ".gitignore"); err != nil {
		return err
	}

	fmt.Fprintf(msg.Output, "Edit %s, then run %s.\n", config.FileName, color.HiCyanString(getProgramName()))
	return nil
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a pyvoip.toml with the default settings",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return initIn(dir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
