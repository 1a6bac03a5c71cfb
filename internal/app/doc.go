// Package app is the composition root for wallshuffle.
//
// # Overview
//
// Run loads the config, opens the log, builds the engine Runner and its
// Coordinator, starts discovery, the directory watcher, the tray icon and the
// shuffle timer, and then shows the control view. Dispatch and List back the
// one-shot CLI subcommands.
//
// # Components
//
//   - app.go: Run, Dispatch, List and shared setup
//   - session.go: state that outlives the view, intent routing, hidden loop
//   - shuffle.go: toggleable timer issuing `next`, backing off on failures
//
// # Lifecycle
//
//	Run()
//	 ├─> config.Load, log.Init, engine.NewRunner
//	 ├─> tray.Start           (optional; closing only hides the view)
//	 ├─> rescan()             discovery + directory watch
//	 ├─> timer.Start()        (when shuffle.interval_minutes > 0)
//	 └─> loop()
//	      ├─> ui.Run()        view owns the interactive thread
//	      ├─> waitHidden()    Mailbox drained here while hidden
//	      └─> exit()          Async `exit`, waits for its result
//
// # Routing
//
// Tray actions, shuffle ticks and watcher signals are scheduled on the
// Mailbox as intents. route hands them to the view while it is showing and
// runs them directly otherwise, so they always go through the Coordinator.
//
// # Error Handling
//
// Config and log failures are returned from Run. A missing tray, settings
// file or preset directory is logged and the session continues without it.
// An interrupt leaves the engine running; only the exit intent stops it.
package app
