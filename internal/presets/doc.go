// Package presets discovers wallpaper presets on disk.
//
// A preset is an immediate subdirectory of the preset directory that holds
// exactly one preview.jpg, preview.png or preview.gif (case-insensitive).
// The directory name is the preset identifier passed to `load`.
//
// Scan is a lazy iterator; Pipeline runs it on a background goroutine and
// schedules each preset onto the interactive thread as it is found, followed
// by a Stats summary. Invalid subdirectories are logged and skipped, and a
// missing directory yields nothing. Neither is reported as an error.
package presets
