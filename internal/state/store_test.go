package state

import (
	"testing"
	"time"

	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/presets"
	"github.com/abcdqfr/wallpaper-shuffle/internal/settings"
)

func TestStore_RecordResultLoadSetsCurrent(t *testing.T) {
	var s Store

	before := time.Now()
	s.RecordResult(engine.Result{Command: engine.Load("beach")})

	snap := s.Snapshot()
	if snap.Current != "beach" {
		t.Fatalf("Current = %q, want beach", snap.Current)
	}
	if !snap.HasResult || snap.LastResult.Command.Verb() != engine.VerbLoad {
		t.Fatalf("LastResult = %#v, want load", snap.LastResult)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// A failed load leaves the current preset alone.
	s.RecordResult(engine.Result{Command: engine.Load("missing"), ExitCode: 1})
	if got := s.Snapshot().Current; got != "beach" {
		t.Fatalf("Current = %q after failed load, want beach", got)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	fail := engine.Result{Command: engine.Next(), ExitCode: 1}

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsFailing() {
		t.Fatalf("fresh store failing: %+v", snap)
	}

	s.RecordResult(fail)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsFailing() {
		t.Fatalf("after 1 failure: failures=%d failing=%v", snap.ConsecutiveFailures, snap.IsFailing())
	}

	s.RecordResult(fail)
	s.RecordResult(fail)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 3 || !snap.IsFailing() {
		t.Fatalf("after 3 failures: failures=%d failing=%v", snap.ConsecutiveFailures, snap.IsFailing())
	}

	// Success resets counter
	s.RecordResult(engine.Result{Command: engine.Random()})
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsFailing() {
		t.Fatalf("after success: failures=%d failing=%v", snap.ConsecutiveFailures, snap.IsFailing())
	}
}

func TestStore_DiscoveryGenerations(t *testing.T) {
	var s Store

	s.BeginDiscovery(1)
	if !s.AddPreset(1, presets.Preset{ID: "a"}) {
		t.Fatal("AddPreset for current generation rejected")
	}

	s.BeginDiscovery(2)
	if s.AddPreset(1, presets.Preset{ID: "stale"}) {
		t.Fatal("AddPreset for old generation accepted")
	}
	s.AddPreset(2, presets.Preset{ID: "b"})
	if s.FinishDiscovery(presets.Stats{Generation: 1, Found: 9}) {
		t.Fatal("FinishDiscovery for old generation accepted")
	}

	snap := s.Snapshot()
	if !snap.Scanning {
		t.Fatal("Scanning = false before current run finished")
	}
	if len(snap.Presets) != 1 || snap.Presets[0].ID != "b" {
		t.Fatalf("Presets = %#v, want [b]", snap.Presets)
	}

	s.FinishDiscovery(presets.Stats{Generation: 2, Found: 1})
	snap = s.Snapshot()
	if snap.Scanning || snap.Discovery.Found != 1 {
		t.Fatalf("after finish: Scanning=%v Discovery=%+v", snap.Scanning, snap.Discovery)
	}
	if snap.Index("b") != 0 || snap.Index("a") != -1 {
		t.Fatalf("Index mismatch: b=%d a=%d", snap.Index("b"), snap.Index("a"))
	}
}

func TestStore_SnapshotClonesPresets(t *testing.T) {
	var s Store
	s.BeginDiscovery(1)
	s.AddPreset(1, presets.Preset{ID: "a"})

	snap := s.Snapshot()
	snap.Presets[0].ID = "mutated"

	if got := s.Snapshot().Presets[0].ID; got != "a" {
		t.Fatalf("Snapshot should clone presets; got %q want a", got)
	}
}

func TestStore_StatusAndSettings(t *testing.T) {
	var s Store
	s.SetStatus("Current: beach")
	s.SetCurrent("forest")
	s.SetSettings(settings.FromEntries(map[string]settings.Entry{
		settings.KeyMaxFps: {Value: 30},
	}))

	snap := s.Snapshot()
	if snap.Status != "Current: beach" || snap.Current != "forest" {
		t.Fatalf("Status=%q Current=%q", snap.Status, snap.Current)
	}
	if snap.Settings.Int(settings.KeyMaxFps, 0) != 30 {
		t.Fatalf("Settings maxFps = %d, want 30", snap.Settings.Int(settings.KeyMaxFps, 0))
	}
}
