// Package control coordinates engine calls with the interactive view.
//
// # Overview
//
// Two execution modes wrap engine.Executor:
//
//   - Blocking (RunBlocking): the caller waits; the coordinator is Blocked
//     for the duration and Blocking calls are served one at a time in
//     arrival order. The busy state is cleared on every path, including a
//     panicking executor.
//   - Async (RunAsync): returns at once; the result is written to a
//     single-shot channel and the completion callback is handed to a
//     Scheduler so it runs on the thread that owns the view.
//
// ModeFor picks the mode per verb: random and exit are Async, everything
// else blocks.
//
// # Interactive thread
//
// Mailbox is the Scheduler used throughout: background goroutines enqueue
// callbacks, and whichever loop owns the view (the Bubble Tea update loop or
// the headless tray loop) pops and runs them.
//
// Readout holds the status line policy: Begin shows WorkingText; Finish
// restores the previous text on success and leaves the error text in place
// on failure until the next action.
//
// # Limitations
//
// No retries, no timeouts, no cancellation. A hung engine keeps the
// coordinator Blocked, and later Blocking calls wait behind it.
package control
