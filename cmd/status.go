package cmd

import (
	"fmt"
	"stconflict/internal/repository"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Summarize resolution history, optionally only under path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) > 0 {
			var err error
			if root, err = resolveRoot(args); err != nil {
				return err
			}
		}

		stats, err := repository.NewResolutionRepository().GetStats(root)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		last := "-"
		if !stats.Last.IsZero() {
			last = humanize.Time(stats.Last)
		}

		fmt.Printf("%-8s %-8s %-8s %-8s %s\n", "TOTAL", "SUCCESS", "FAILED", "FILES", "LAST")
		fmt.Printf("%-8d %-8d %-8d %-8d %s\n", stats.Total, stats.Success, stats.Failed, stats.Files, last)
		fmt.Printf("history: %s\n", cfg.DBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
