package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/sish/core/shell"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands the shell runs itself.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range shell.BuiltinNames() {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
