// Package prefs handles wallshuffle's per-user view preferences.
// Preferences are stored in ~/.config/wallshuffle/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/abcdqfr/wallpaper-shuffle/internal/config"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// Prefs holds view preferences. Unlike config they are written back when the
// user changes them from the view.
type Prefs struct {
	Theme   string `toml:"theme"`
	Columns int    `toml:"columns"`  // preset grid columns; 0 = fit to width
	ShowLog bool   `toml:"show_log"` // log pane visible at start
}

const (
	defaultPrefsPath = "~/.config/wallshuffle/prefs.toml"
	defaultTheme     = "Nightfox"
	maxColumns       = 12
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from the given path, falling back to defaults when
// the file is missing or broken. It never fails startup.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		log.Warn(log.CatConfig, "prefs path unusable", "path", path, "error", err.Error())
		return Defaults(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn(log.CatConfig, "prefs unreadable, using defaults", "path", resolved, "error", err.Error())
		}
		return Defaults(), nil
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		log.Warn(log.CatConfig, "prefs unreadable, using defaults", "path", resolved, "error", err.Error())
		return Defaults(), nil
	}

	prefs := Defaults()
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		log.Warn(log.CatConfig, "prefs malformed, using defaults", "path", resolved, "error", err.Error())
		return Defaults(), nil
	}

	return normalize(prefs), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func normalize(p Prefs) Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	if p.Columns < 0 {
		p.Columns = 0
	}
	if p.Columns > maxColumns {
		p.Columns = maxColumns
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
