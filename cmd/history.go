package cmd

import (
	"fmt"
	"path/filepath"
	"stconflict/internal/model"
	"stconflict/internal/repository"
	"stconflict/internal/scan"

	"github.com/spf13/cobra"
)

var (
	historyN      int
	historyFailed bool
	historyBase   string
)

var historyCmd = &cobra.Command{
	Use:   "history [path]",
	Short: "View past resolutions, optionally only those under path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := repository.Query{Limit: historyN}

		display := ""
		if len(args) > 0 {
			root, err := resolveRoot(args)
			if err != nil {
				return err
			}
			q.Root, display = root, root
		}
		if historyBase != "" {
			base, err := canonicalFile(historyBase)
			if err != nil {
				return err
			}
			q.Base = base
		}
		if historyFailed {
			q.Status = model.StatusFailed
		}

		resolutions, err := repository.NewResolutionRepository().Find(q)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		if len(resolutions) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, r := range resolutions {
			status := "✓"
			if r.Status == model.StatusFailed {
				status = "✗"
			}

			base := r.BasePath
			if display != "" {
				base = scan.RelPath(display, base)
			}

			fmt.Printf("%s [%s] %s <- %s  (%d archived)\n",
				status,
				r.ResolvedAt.Format("2006-01-02 15:04:05"),
				base,
				filepath.Base(r.KeptPath),
				len(r.ArchivedPaths()),
			)
			if r.ErrMsg != "" {
				fmt.Printf("    %s\n", r.ErrMsg)
			}
			if historyBase != "" {
				for _, p := range r.ArchivedPaths() {
					fmt.Printf("    archived %s\n", p)
				}
			}
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyN, "number", "n", 20, "number of history entries to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show only failed resolutions")
	historyCmd.Flags().StringVar(&historyBase, "base", "", "show the resolutions of one file, with its archived copies")
	rootCmd.AddCommand(historyCmd)
}
