// Package ui provides the terminal control view for wallshuffle.
//
// # Architecture Overview
//
// The view is a Bubble Tea program with a pointer Model. It shows the
// discovered presets as a grid of clickable cells, a toolbar, a status
// readout, a settings panel and an optional log pane. All engine commands
// go through control.Coordinator; the view never launches the engine itself.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View, intents and dispatch
//   - grid.go: preset grid layout, navigation and mouse hit-testing
//   - header.go: toolbar buttons and the status line
//   - settings_panel.go: paged settings editor that sends `settings` commands
//   - logs.go: log pane fed by logtail
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: colors, boxes and truncation
//
// # Event Flow
//
// The Model's Update loop is the interactive thread. Work from other
// goroutines reaches it in one way: a callback on control.Mailbox. A pump
// command waits until the Mailbox has work and sends mailMsg; Update then
// drains the Mailbox, re-reads the session store and re-arms the pump.
//
//  1. Blocking commands (load, next, prev, settings) call Readout.Begin,
//     which suspends keys and clicks and shows a spinner. The engine call
//     runs in a Bubble Tea command under the Coordinator's FIFO gate and
//     schedules its result on the Mailbox.
//  2. Async commands (random) return at once; their result arrives on the
//     Mailbox later and touches only the readout and the store.
//  3. Discovery emissions and tray or shuffle intents also arrive on the
//     Mailbox, so they are applied in the order they were scheduled.
//
// Because results always travel through the Mailbox, one that lands after
// the view closed is still applied to the store by whichever loop drains
// the Mailbox next.
//
// # Closing
//
// Closing the view (q) ends the program with OutcomeHide when a tray icon can
// bring it back, or OutcomeExit otherwise. X always asks for OutcomeExit.
// Stopping the engine is the caller's job.
//
// # Usage Example
//
//	m := ui.New(ui.Options{
//		Context:     ctx,
//		Coordinator: coord,
//		Mailbox:     mailbox,
//		Store:       store,
//		CanHide:     trayRunning,
//	})
//	outcome, err := ui.Run(m)
package ui
