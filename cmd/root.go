package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"stconflict/internal/config"
	"stconflict/internal/db"
	"stconflict/internal/engine"
	"stconflict/internal/logger"
	"stconflict/internal/model"
	"stconflict/internal/repository"
	"stconflict/internal/scan"
	"stconflict/internal/session"
	"stconflict/internal/tui"
	"stconflict/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg           *config.Config
	debug         bool
	applyMode     bool
	includeHidden bool
)

var rootCmd = &cobra.Command{
	Use:   "stconflict [path]",
	Short: "Review and resolve Syncthing sync-conflict files",
	Args:  cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("include-hidden") {
			cfg.IncludeHidden = includeHidden
		}

		if err := logger.Init(debug, cfg.LogPath); err != nil {
			return err
		}

		return db.Init(cfg.DBPath)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
		_ = db.Close()
	},
	RunE: runTUI,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("apply") {
		cfg.Apply = applyMode
	}

	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	groups, err := scan.Scan(root, scanOptions())
	if err != nil {
		return err
	}

	scanner := session.ScanFunc(func() ([]model.ConflictGroup, error) {
		return scan.Scan(root, scanOptions())
	})
	eng := engine.New(repository.NewResolutionRepository())
	s := session.New(root, groups, cfg.Apply, scanner, eng)

	logger.Log.Info("session started",
		zap.String("root", root),
		zap.Int("groups", len(groups)),
		zap.Bool("apply", cfg.Apply))

	var changes <-chan model.FileEvent
	if cfg.Watch {
		feed, err := watch.Start(root, watch.Options{
			IncludeHidden: cfg.IncludeHidden,
			Debounce:      cfg.WatchDebounce,
			HashLimit:     cfg.HashLimit,
		})
		if err != nil {
			logger.Log.Warn("watching disabled",
				zap.String("root", root),
				zap.Error(err))
		} else {
			defer feed.Stop()
			changes = feed.Changes()
		}
	}

	return tui.Run(s, changes)
}

// resolveRoot returns the canonical scan root: absolute, with symlinks resolved.
func resolveRoot(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}

	return root, nil
}

// canonicalFile resolves p the way scan roots are resolved. The file itself may be gone, so
// only its directory has symlinks evaluated.
func canonicalFile(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", filepath.Dir(p), err)
	}

	return filepath.Join(dir, filepath.Base(abs)), nil
}

func scanOptions() scan.Options {
	return scan.Options{
		IncludeHidden: cfg.IncludeHidden,
		Marker:        cfg.ConflictMarker,
		HashLimit:     cfg.HashLimit,
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&includeHidden, "include-hidden", false, "Scan hidden files and directories")
	rootCmd.Flags().BoolVar(&applyMode, "apply", false, "Start in apply mode instead of dry-run")
}
