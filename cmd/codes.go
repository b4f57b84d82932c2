// pyvoip-configure codes <table> <code>
package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyvoip/configure/internal/codes"
)

func tableNames() []string {
	names := make([]string, 0, len(codes.Tables))
	for name := range codes.Tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var codesCmd = &cobra.Command{
	Use:       "codes <table> <code>",
	Short:     "Print the label of a call end reason or user input mode",
	Long:      "Prints the label of a numeric code, or \"absent\" when the table has no such entry.\nTables: " + strings.Join(tableNames(), ", "),
	Args:      usageArgs(cobra.ExactArgs(2)),
	ValidArgs: tableNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := strconv.Atoi(args[1])
		if err != nil {
			return usageError{cmd: cmd, err: fmt.Errorf("code %q is not a number", args[1])}
		}

		// unknown tables and negative codes are command line mistakes
		label, ok, err := codes.Lookup(args[0], code)
		if err != nil {
			return usageError{cmd: cmd, err: err}
		}

		if !ok {
			label = "absent"
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), label)
		return err
	},
}

func init() {
	rootCmd.AddCommand(codesCmd)
}
