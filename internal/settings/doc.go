// Package settings reads the engine's settings file and describes the
// settings the view can edit.
//
// The file is a JSON object of key -> {"value": ..., "tooltip": ...}. It is
// read once at startup and never written; changes go through the engine's
// `settings <key> <value>` verb, after which Map.Apply updates the in-memory
// copy. FormatValue and Step produce values in the engine's format.
package settings
