package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Run the summary pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := services.Reports.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("report %s failed: %w", result.RunID, err)
		}

		switch {
		case result.Skipped:
			fmt.Fprintf(cmd.OutOrStdout(), "report %s: no data for %s\n", result.RunID, result.Window.Yesterday)
		case result.Dispatch.Delivered:
			fmt.Fprintf(cmd.OutOrStdout(), "report %s: sent (%s)\n", result.RunID, result.Dispatch.MessageID)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "report %s: composed but not delivered: %v\n", result.RunID, result.Dispatch.Err)
		}
		return nil
	},
}
