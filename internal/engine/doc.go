// Package engine invokes the external wallpaper engine.
//
// # Overview
//
// The engine is an externally owned script (wallpaper-manager.sh) that
// renders the active wallpaper. The only contract with it is its command
// line:
//
//	<engine> load <presetId>
//	<engine> next
//	<engine> prev
//	<engine> random
//	<engine> exit
//	<engine> settings <key> <value>
//
// Exit status 0 means success; anything else is a failure with diagnostic
// text on stderr. Nothing else is parsed.
//
// # Architecture
//
//   - command.go: the immutable Command type and its constructors
//   - result.go: Result, the record of one invocation
//   - runner.go: Runner, which launches the engine and waits for it
//
// # Usage
//
//	runner, err := engine.NewRunner(cfg.EnginePath)
//	if err != nil {
//		return err
//	}
//	res := runner.Execute(ctx, engine.Load("beach"))
//	if res.Failed() {
//		fmt.Println(res.ErrorText())
//	}
//
// # Error Handling
//
// Execute never returns an error value. A non-zero exit is encoded in
// Result.ExitCode and Result.Stderr so callers decide policy. Only launch
// failures (missing executable, permission denied) set Result.Err, which
// wraps ErrLaunch.
//
// # Concurrency
//
// Execute is synchronous and blocks until the engine exits. There is no
// timeout and no cancellation: a hung engine hangs the caller. Running calls
// off the interactive thread and ordering them is the job of the control
// package.
package engine
