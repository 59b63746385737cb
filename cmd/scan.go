package cmd

import (
	"fmt"
	"stconflict/internal/scan"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "List conflict groups without changing anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot(args)
		if err != nil {
			return err
		}

		groups, err := scan.Scan(root, scanOptions())
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			fmt.Println("no sync conflicts found")
			return nil
		}

		for _, g := range groups {
			orig := "original present"
			if !g.OriginalExists() {
				orig = "original missing"
			}
			fmt.Printf("%s  (%d conflicts, %s)\n", scan.RelPath(root, g.BasePath), g.ConflictCount(), orig)

			for i, c := range g.Candidates {
				size, mtime := "-", "-"
				if c.Size != nil {
					size = humanize.Bytes(uint64(*c.Size))
				}
				if c.Modified != nil {
					mtime = humanize.Time(*c.Modified)
				}

				dup := ""
				if d := g.DuplicateOf(i); d >= 0 {
					dup = "  same as " + g.Candidates[d].Label
				}

				fmt.Printf("  %-12s %-10s %-16s %s%s\n", c.Label, size, mtime, scan.RelPath(root, c.Path), dup)
			}
		}

		fmt.Printf("\n%d group(s)\n", len(groups))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
