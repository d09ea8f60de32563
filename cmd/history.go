package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephlewis42/sish/core/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the saved history.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}
		if !config.HistoryEnabled() {
			return fmt.Errorf("history persistence is disabled")
		}

		store := history.New(config.History.Size)
		fs, path := config.HistoryFs()
		if err := history.Load(fs, path, store); err != nil {
			return err
		}

		for i, line := range store.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", i, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
