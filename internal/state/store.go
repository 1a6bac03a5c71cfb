package state

import (
	"slices"
	"sync"
	"time"

	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/presets"
	"github.com/abcdqfr/wallpaper-shuffle/internal/settings"
)

// Snapshot is the session as the view last left it.
type Snapshot struct {
	Current    string // preset ID last loaded successfully
	Status     string
	Presets    []presets.Preset
	Generation uint64 // discovery run the presets belong to
	Scanning   bool
	Discovery  presets.Stats
	Settings   settings.Map

	LastResult          engine.Result
	HasResult           bool
	LastUpdated         time.Time
	ConsecutiveFailures int // engine commands failed in a row
}

// IsFailing reports whether the engine has rejected several commands in a
// row, which usually means it is not running.
func (s Snapshot) IsFailing() bool {
	return s.ConsecutiveFailures >= 2
}

// Index returns the position of the preset with id, or -1.
func (s Snapshot) Index(id string) int {
	return slices.IndexFunc(s.Presets, func(p presets.Preset) bool { return p.ID == id })
}

// Store holds the session across hiding and re-showing the view. Writers
// are the interactive thread; readers include the tray.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// RecordResult folds an engine result into the session. A successful load
// makes its preset current; any failure counts toward IsFailing and a
// success resets the count.
func (s *Store) RecordResult(res engine.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastResult = res
	s.snapshot.HasResult = true
	s.snapshot.LastUpdated = time.Now()

	if res.Failed() {
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.ConsecutiveFailures = 0
	if res.Command.Verb() == engine.VerbLoad {
		if args := res.Command.Args(); len(args) > 0 {
			s.snapshot.Current = args[0]
		}
	}
}

// SetStatus records the readout text so a re-shown view starts with it.
func (s *Store) SetStatus(text string) {
	s.mu.Lock()
	s.snapshot.Status = text
	s.mu.Unlock()
}

// SetCurrent records the current preset without a result, e.g. after the
// engine reports it on `next`.
func (s *Store) SetCurrent(id string) {
	s.mu.Lock()
	s.snapshot.Current = id
	s.mu.Unlock()
}

// SetSettings replaces the settings copy.
func (s *Store) SetSettings(m settings.Map) {
	s.mu.Lock()
	s.snapshot.Settings = m
	s.mu.Unlock()
}

// BeginDiscovery clears the preset list for run gen.
func (s *Store) BeginDiscovery(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Presets = nil
	s.snapshot.Generation = gen
	s.snapshot.Scanning = true
	s.snapshot.Discovery = presets.Stats{Generation: gen}
}

// AddPreset appends p when gen is the current run and reports whether it
// was kept. Emissions from a replaced run are dropped.
func (s *Store) AddPreset(gen uint64, p presets.Preset) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.snapshot.Generation {
		return false
	}
	s.snapshot.Presets = append(s.snapshot.Presets, p)
	return true
}

// FinishDiscovery records the summary of run st.Generation if it is still
// current.
func (s *Store) FinishDiscovery(st presets.Stats) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Generation != s.snapshot.Generation {
		return false
	}
	s.snapshot.Scanning = false
	s.snapshot.Discovery = st
	return true
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Presets = slices.Clone(s.snapshot.Presets)
	return snap
}
