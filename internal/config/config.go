package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ConflictMarker string        `mapstructure:"conflict_marker"`
	IncludeHidden  bool          `mapstructure:"include_hidden"`
	Apply          bool          `mapstructure:"apply"`
	DBPath         string        `mapstructure:"db_path"`
	LogPath        string        `mapstructure:"log_path"`
	Watch          bool          `mapstructure:"watch"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
	HashLimit      int64         `mapstructure:"hash_limit"`
}

var Default = Config{
	ConflictMarker: ".sync-conflict-",
	IncludeHidden:  false,
	Apply:          false,
	DBPath:         "history.db",
	LogPath:        "stconflict.log",
	Watch:          true,
	WatchDebounce:  500 * time.Millisecond,
	HashLimit:      64 << 20,
}

// Dir is the per-user directory holding config.yaml, the history database and the log file.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	return filepath.Join(home, ".stconflict"), nil
}

func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	return LoadFrom(dir)
}

// LoadFrom reads config.yaml from configDir, creating the directory when missing.
// Relative db and log paths are resolved against configDir.
func LoadFrom(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetDefault("conflict_marker", Default.ConflictMarker)
	v.SetDefault("include_hidden", Default.IncludeHidden)
	v.SetDefault("apply", Default.Apply)
	v.SetDefault("db_path", Default.DBPath)
	v.SetDefault("log_path", Default.LogPath)
	v.SetDefault("watch", Default.Watch)
	v.SetDefault("watch_debounce", Default.WatchDebounce)
	v.SetDefault("hash_limit", Default.HashLimit)

	v.SetEnvPrefix("STCONFLICT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if ok := errors.As(err, &notFound); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.ConflictMarker == "" {
		return nil, fmt.Errorf("conflict_marker must not be empty")
	}

	cfg.DBPath = resolve(configDir, cfg.DBPath)
	cfg.LogPath = resolve(configDir, cfg.LogPath)

	return &cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(dir, p)
}
