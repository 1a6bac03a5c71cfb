// Package log provides structured logging for wallshuffle.
// Entries go to a file because the terminal UI owns stdout; until Init is
// called everything is discarded.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Category groups related log messages.
type Category string

const (
	CatEngine  Category = "engine"  // engine invocations
	CatControl Category = "control" // coordinator and busy state
	CatPresets Category = "presets" // discovery runs and skips
	CatUI      Category = "ui"      // view intents and updates
	CatApp     Category = "app"     // lifecycle, shuffle timer
	CatTray    Category = "tray"    // tray icon and menu
	CatWatch   Category = "watch"   // directory watcher
	CatConfig  Category = "config"  // config, prefs and settings loading
)

var (
	mu     sync.RWMutex
	logger = newDiscard()
)

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init opens path for appending and routes all logging there.
// The returned func closes the file.
func Init(path string, debug bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // user-configured log path
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}

	SetLogger(l)
	return func() {
		SetLogger(newDiscard())
		_ = f.Close()
	}, nil
}

// SetLogger replaces the package logger. Tests use it to capture output;
// nil restores the discard logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = newDiscard()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	entry(cat, fields).Debug(msg)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	entry(cat, fields).Info(msg)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	entry(cat, fields).Warn(msg)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	entry(cat, fields).Error(msg)
}

// ErrorErr logs an error with the error value attached.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	entry(cat, fields).WithError(err).Error(msg)
}

func entry(cat Category, fields []any) *logrus.Entry {
	mu.RLock()
	l := logger
	mu.RUnlock()

	data := logrus.Fields{"cat": string(cat)}
	for i := 0; i+1 < len(fields); i += 2 {
		data[fmt.Sprint(fields[i])] = fields[i+1]
	}
	// Odd field count: keep the orphan key visible.
	if len(fields)%2 != 0 {
		data[fmt.Sprint(fields[len(fields)-1])] = "<missing>"
	}
	return l.WithFields(data)
}
