// Package watch signals when the preset directory changes so discovery can
// rescan it.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// DefaultDebounce coalesces bursts such as unpacking a preset archive.
const DefaultDebounce = time.Second

// Watcher watches a preset directory and its immediate subdirectories.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	Dir         string
	DebounceDur time.Duration
}

// DefaultConfig returns defaults for watching dir.
func DefaultConfig(dir string) Config {
	return Config{Dir: dir, DebounceDur: DefaultDebounce}
}

// New creates a watcher. It does not touch the directory until Start.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if cfg.DebounceDur <= 0 {
		cfg.DebounceDur = DefaultDebounce
	}
	return &Watcher{
		fsWatcher: fsw,
		root:      filepath.Clean(cfg.Dir),
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives at most one pending
// signal per quiet period; a missing directory is an error and the caller
// runs without a watcher.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.root); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.root, err)
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("listing directory %s: %w", w.root, err)
	}
	for _, e := range entries {
		path := filepath.Join(w.root, e.Name())
		if e.IsDir() {
			w.addSub(path)
			continue
		}
		// Linked presets are watched through the link.
		if e.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.addSub(path)
			}
		}
	}

	go w.loop()
	log.Info(log.CatWatch, "watching preset directory", "dir", w.root)
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) addSub(dir string) {
	if err := w.fsWatcher.Add(dir); err != nil {
		log.Debug(log.CatWatch, "cannot watch preset", "dir", dir, "error", err.Error())
	}
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == w.root {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addSub(event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
			pending = true

		case <-timerC:
			timerC = nil
			if pending {
				// Non-blocking: a signal already waiting covers this one.
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatch, "watch error", "dir", w.root, "error", err.Error())

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether event can change the preset list:
// entries appearing or leaving the root, or preview files changing inside a
// preset.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
		return false
	}
	if filepath.Dir(event.Name) == w.root {
		return event.Op&fsnotify.Write == 0
	}
	return strings.HasPrefix(strings.ToLower(filepath.Base(event.Name)), "preview.")
}
