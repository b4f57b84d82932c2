// pyvoip-configure graph [module...]
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyvoip/configure/internal/config"
	"github.com/pyvoip/configure/internal/registry"
)

var flagFormat EnumValue = NewEnumValue(registry.FormatText, map[string]string{
	registry.FormatText: "Link order and directories per module (default)",
	registry.FormatDOT:  "Graphviz digraph of the direct dependencies",
	registry.FormatJSON: "Machine readable module reports",
})

var flagAll bool

var graphCmd = &cobra.Command{
	Use:   "graph [module... | --all]",
	Short: "Print the module dependency graph",
	Long: `Prints the direct dependencies, resolved link order and include and library
directories of the given modules, or of every binding module when none is given.
--all reports every registry entry, the debug names included.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagAll && len(args) > 0 {
			return usageError{cmd: cmd, err: fmt.Errorf("--all takes no module names")}
		}

		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		reg := registry.New(cfg)

		names := args
		switch {
		case flagAll:
			names = reg.Names()
		case len(names) == 0:
			names = registry.Modules
		}

		out, err := reg.Format(flagFormat.Value(), names)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "Report every registry entry")
	graphCmd.Flags().VarP(&flagFormat, "format", "f", "Output format, one of "+flagFormat.HelpString())
	graphCmd.RegisterFlagCompletionFunc("format", flagFormat.CompletionFunc())
}
