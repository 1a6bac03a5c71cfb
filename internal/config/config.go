package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the control layer's own settings. Engine settings live in
// the engine's settings file, not here.
type Config struct {
	EnginePath   string
	SettingsPath string
	LogPath      string
	Watch        bool
	Tray         TrayConfig
	Shuffle      ShuffleConfig
	Tracing      TracingConfig
}

// TrayConfig controls the tray icon.
type TrayConfig struct {
	Enabled bool
}

// ShuffleConfig controls the periodic `next`.
type ShuffleConfig struct {
	IntervalMinutes int
}

// Interval returns the shuffle period, or zero when shuffling is off.
func (s ShuffleConfig) Interval() time.Duration {
	if s.IntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// TracingConfig controls engine call spans.
type TracingConfig struct {
	Enabled  bool
	FilePath string
}

const (
	defaultConfigPath   = "~/.config/wallshuffle/config.toml"
	appletDir           = "~/.local/share/cinnamon/applets/wallpaper-shuffle@abcdqfr"
	defaultEnginePath   = appletDir + "/wallpaper-manager.sh"
	defaultSettingsPath = appletDir + "/settings-schema.json"
	defaultLogPath      = "~/.local/state/wallshuffle/wallshuffle.log"
	defaultTracePath    = "~/.local/state/wallshuffle/traces.jsonl"
)

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		EnginePath:   mustExpand(defaultEnginePath),
		SettingsPath: mustExpand(defaultSettingsPath),
		LogPath:      mustExpand(defaultLogPath),
		Watch:        true,
		Tray:         TrayConfig{Enabled: true},
		Tracing:      TracingConfig{FilePath: mustExpand(defaultTracePath)},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Pointers distinguish "absent" from "false".
	var raw struct {
		EnginePath   string `toml:"engine_path"`
		SettingsPath string `toml:"settings_path"`
		LogPath      string `toml:"log_path"`
		Watch        *bool  `toml:"watch"`
		Tray         struct {
			Enabled *bool `toml:"enabled"`
		} `toml:"tray"`
		Shuffle struct {
			IntervalMinutes int `toml:"interval_minutes"`
		} `toml:"shuffle"`
		Tracing struct {
			Enabled  bool   `toml:"enabled"`
			FilePath string `toml:"file_path"`
		} `toml:"tracing"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.EnginePath = pathOr(raw.EnginePath, defaultEnginePath)
	cfg.SettingsPath = pathOr(raw.SettingsPath, defaultSettingsPath)
	cfg.LogPath = pathOr(raw.LogPath, defaultLogPath)
	cfg.Tracing.FilePath = pathOr(raw.Tracing.FilePath, defaultTracePath)
	cfg.Tracing.Enabled = raw.Tracing.Enabled

	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}
	if raw.Tray.Enabled != nil {
		cfg.Tray.Enabled = *raw.Tray.Enabled
	}
	if raw.Shuffle.IntervalMinutes < 0 {
		return Config{}, fmt.Errorf("parse config: shuffle.interval_minutes must not be negative, got %d", raw.Shuffle.IntervalMinutes)
	}
	cfg.Shuffle.IntervalMinutes = raw.Shuffle.IntervalMinutes

	return cfg, nil
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func pathOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	return mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
