package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates a GitHub user's annual activity and outputs it as JSON",
	Long:  `Aggregates the past 365 days of activity for a GitHub user and prints the result in JSON format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		user, _ := cmd.Flags().GetString("user")
		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.MessageTimeout)
		defer cancel()

		stats, err := a.aggregator.FetchAnnualStats(ctx, user)
		if err != nil {
			return fmt.Errorf("failed to aggregate stats: %w", err)
		}

		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	_ = statsCmd.MarkFlagRequired("user")
}
