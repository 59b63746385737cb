package cmd

import (
	"fmt"
	"stconflict/internal/conflict"
	"stconflict/internal/engine"
	"stconflict/internal/fileops"
	"stconflict/internal/logger"
	"stconflict/internal/planner"
	"stconflict/internal/repository"
	"stconflict/internal/scan"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resolveKeep  string
	resolveApply bool
	resolveYes   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [path]",
	Short: "Resolve every conflict group with one strategy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := conflict.ParseStrategy(resolveKeep)
		if err != nil {
			return err
		}

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

		targets := make([]int, len(groups))
		for i := range groups {
			groups[i].Choose(strategy.TargetOrOriginal(&groups[i]))
			targets[i] = i
		}

		plan, err := planner.Build(groups, targets, root)
		if err != nil {
			return fmt.Errorf("failed to plan: %w", err)
		}
		for _, line := range plan.Lines {
			fmt.Println(line)
		}

		if !resolveApply {
			fmt.Printf("\ndry-run: %d group(s) planned, pass --apply to move files\n", len(plan.Targets))
			return nil
		}

		if !resolveYes {
			confirmed := false
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Keep the %s version of %d group(s)?", strategy, len(plan.Targets))).
						Description(fmt.Sprintf("Every other version is moved into %s next to its file.", fileops.ArchiveDirName)).
						Affirmative("Apply").
						Negative("Cancel").
						Value(&confirmed),
				),
			)
			if err := form.Run(); err != nil {
				return fmt.Errorf("failed to get confirmation: %w", err)
			}
			if !confirmed {
				fmt.Println("cancelled")
				return nil
			}
		}

		result := engine.New(repository.NewResolutionRepository()).Apply(groups, plan.Targets, true)
		for _, f := range result.Failures {
			fmt.Printf("✗ %s: %v\n", scan.RelPath(root, f.BasePath), f.Err)
		}
		fmt.Printf("applied %d group(s), %d failed\n", len(result.Applied), len(result.Failures))

		logger.Log.Info("resolve finished",
			zap.String("root", root),
			zap.String("keep", strategy.String()),
			zap.Int("applied", len(result.Applied)),
			zap.Int("failed", len(result.Failures)))

		if !result.OK() {
			return fmt.Errorf("%d group(s) failed", len(result.Failures))
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveKeep, "keep", "newest", "version to keep: original, newest or oldest")
	resolveCmd.Flags().BoolVar(&resolveApply, "apply", false, "Move files instead of printing the plan")
	resolveCmd.Flags().BoolVarP(&resolveYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resolveCmd)
}
