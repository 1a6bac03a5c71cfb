package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/abcdqfr/wallpaper-shuffle/internal/config"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// Entry is one setting as the engine's settings file stores it. Fields the
// file carries beyond value and tooltip are ignored.
type Entry struct {
	Value   any    `json:"value"`
	Tooltip string `json:"tooltip"`
}

// Map is the key -> Entry view of the settings file. It is read once at
// startup; Apply keeps it in step with successful `settings` commands.
// The copy is advisory: the engine owns the real values.
type Map struct {
	entries map[string]Entry
}

// Load reads the settings file. A missing or malformed file yields an empty
// Map and a logged warning; the error is returned for callers that want to
// surface it, never to stop startup.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-configured settings path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn(log.CatConfig, "settings file missing", "path", path)
		} else {
			log.Warn(log.CatConfig, "settings file unreadable", "path", path, "error", err.Error())
		}
		return Map{entries: map[string]Entry{}}, fmt.Errorf("read settings: %w", err)
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn(log.CatConfig, "settings file malformed", "path", path, "error", err.Error())
		return Map{entries: map[string]Entry{}}, fmt.Errorf("parse settings: %w", err)
	}
	if raw == nil {
		raw = map[string]Entry{}
	}
	log.Debug(log.CatConfig, "settings loaded", "path", path, "keys", len(raw))
	return Map{entries: raw}, nil
}

// FromEntries builds a Map from entries, copying them.
func FromEntries(entries map[string]Entry) Map {
	m := Map{entries: make(map[string]Entry, len(entries))}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// Len returns the number of keys.
func (m Map) Len() int { return len(m.entries) }

// Keys returns the keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the entry for key.
func (m Map) Get(key string) (Entry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

// Tooltip returns the tooltip for key, or "".
func (m Map) Tooltip(key string) string {
	return m.entries[key].Tooltip
}

// String returns key's value as a string, or def when absent.
func (m Map) String(key, def string) string {
	e, ok := m.entries[key]
	if !ok || e.Value == nil {
		return def
	}
	s, err := cast.ToStringE(e.Value)
	if err != nil {
		return def
	}
	return s
}

// Int returns key's value as an int, or def when absent or not numeric.
func (m Map) Int(key string, def int) int {
	e, ok := m.entries[key]
	if !ok || e.Value == nil {
		return def
	}
	n, err := cast.ToIntE(e.Value)
	if err != nil {
		return def
	}
	return n
}

// Bool returns key's value as a bool, or def when absent or not boolean.
func (m Map) Bool(key string, def bool) bool {
	e, ok := m.entries[key]
	if !ok || e.Value == nil {
		return def
	}
	b, err := cast.ToBoolE(e.Value)
	if err != nil {
		return def
	}
	return b
}

// WallpaperDir returns the expanded preset directory, or "" when unset.
func (m Map) WallpaperDir() string {
	dir := strings.TrimSpace(m.String(KeyWallpaperDir, ""))
	if dir == "" {
		return ""
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return dir
	}
	return expanded
}

// Apply returns a copy of m with key set to the engine-formatted value.
// Call it only after the engine accepted `settings <key> <value>`.
func (m Map) Apply(key, value string) Map {
	out := FromEntries(m.entries)
	e := out.entries[key]
	e.Value = parsedValue(key, value)
	out.entries[key] = e
	return out
}

// parsedValue stores value with the type its descriptor implies so later
// reads through Int/Bool see the same thing the file would hold.
func parsedValue(key, value string) any {
	d, ok := Lookup(key)
	if !ok {
		return value
	}
	switch d.Kind {
	case KindInt:
		if n, err := cast.ToIntE(value); err == nil {
			return n
		}
	case KindBool:
		if b, err := cast.ToBoolE(value); err == nil {
			return b
		}
	}
	return value
}
