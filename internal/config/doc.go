// Package config loads wallshuffle's own TOML configuration.
//
// # Overview
//
// The config tells the control layer where the engine script and its
// settings file live, where to log, and which optional features to run
// (tray icon, directory watch, periodic shuffle, tracing). Engine settings
// such as the wallpaper directory or volume are not stored here; they are
// read from the engine's settings file by package settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/wallshuffle/config.toml (default)
//  3. If the config file doesn't exist, fall back to Defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	engine_path   = "~/.local/share/cinnamon/applets/wallpaper-shuffle@abcdqfr/wallpaper-manager.sh"
//	settings_path = "~/.local/share/cinnamon/applets/wallpaper-shuffle@abcdqfr/settings-schema.json"
//	log_path      = "~/.local/state/wallshuffle/wallshuffle.log"
//	watch         = true
//
//	[tray]
//	enabled = true
//
//	[shuffle]
//	interval_minutes = 0
//
//	[tracing]
//	enabled   = false
//	file_path = "~/.local/state/wallshuffle/traces.jsonl"
//
// Every field is optional. Paths are trimmed, tilde-expanded and made
// absolute. Booleans that are absent keep their default (watch and tray are
// on by default).
//
// # Error Handling
//
//   - Missing file: not an error, Defaults are returned
//   - Unreadable file: "open config" / "read config" errors
//   - Malformed TOML or a negative shuffle interval: "parse config" error
//
// A config error stops startup; there is no partial config.
package config
