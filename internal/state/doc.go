// Package state keeps the session that outlives the terminal view.
//
// # Overview
//
// Closing the view while the tray icon is up only hides it. When the user
// re-opens it, a fresh Bubble Tea model is built from the Store: current
// preset, status text, discovered presets, settings and the last engine
// result all come back as they were.
//
// # Writers and Readers
//
//	Interactive thread:                  Tray / CLI:
//	┌──────────────────────┐            ┌──────────────────────┐
//	│ RecordResult(res)    │            │                      │
//	│ BeginDiscovery(gen)  │            │                      │
//	│ AddPreset(gen, p)    │───────────→│ store.Snapshot()     │
//	│ FinishDiscovery(st)  │  (mutex)   │   tooltip, restore   │
//	│ SetStatus(text)      │            │                      │
//	└──────────────────────┘            └──────────────────────┘
//
// Writes come from the one loop that owns the view (or the lifecycle loop
// while it is hidden). The RWMutex exists for the tray goroutine, which only
// reads.
//
// # Discovery Generations
//
// BeginDiscovery clears the list and records the run's generation.
// AddPreset and FinishDiscovery ignore anything tagged with an older
// generation, so a rescan started while the previous one is still
// delivering cannot mix the two lists.
//
// # Failure Tracking
//
// RecordResult counts consecutive failed engine commands; IsFailing turns on
// at two, and any success resets it. A successful `load <id>` also makes id
// the current preset.
//
// # Copying
//
// Snapshot clones the preset slice. settings.Map is immutable by
// construction (Apply returns a copy), so it is shared.
//
// The zero Store is ready to use.
package state
