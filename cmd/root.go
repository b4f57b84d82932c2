// pyvoip-configure [-d]
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyvoip/configure/internal/builder"
	"github.com/pyvoip/configure/internal/builder/gen"
	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/errors"
	"github.com/pyvoip/configure/internal/msg"
)

const usageLine = "Usage: 'pyvoip-configure -d' to build debug version, otherwise omit this flag."

var (
	flagDebug     bool
	flagVerbose   bool
	flagGenerator EnumValue = NewEnumValue(gen.GeneratorNMake, gen.Names)
)

func doConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	variant := config.Release
	if flagDebug {
		variant = config.Debug
	}

	b, err := builder.New(cfg, flagGenerator.Value(), nil)
	if err != nil {
		return err
	}
	return b.Configure(variant)
}

var rootCmd = &cobra.Command{
	Use:   "pyvoip-configure",
	Short: "Generate the pyvoip binding modules and their build scripts",
	Long: `Runs sip for the ptlib and opal binding modules, each in its own build
directory, and writes the per-module build scripts plus an aggregate one in
the current directory. Settings are read from pyvoip.toml when present.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return usageError{cmd: cmd, err: fmt.Errorf("unexpected argument %q", args[0])}
		}
		return nil
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		msg.Verbose = flagVerbose
	},
	RunE:          doConfigure,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "Build the debug version")
	rootCmd.Flags().VarP(&flagGenerator, "gen", "g", "Build script generator, one of "+flagGenerator.HelpString())
	rootCmd.RegisterFlagCompletionFunc("gen", flagGenerator.CompletionFunc())
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print debug output and error stack traces")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{cmd: cmd, err: err}
	})
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var usage usageError
	if errors.As(err, &usage) {
		if usage.cmd == nil || usage.cmd == rootCmd {
			fmt.Fprintln(stderr, usageLine)
		} else {
			fmt.Fprintf(stderr, "%v\n%s", usage.err, usage.cmd.UsageString())
		}
		return 2
	}

	if flagVerbose {
		msg.Fail("%s", errors.ErrorStack(err))
	} else {
		msg.Fail("%v", err)
	}
	return 1
}

func Execute() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}
