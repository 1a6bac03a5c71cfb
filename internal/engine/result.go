package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLaunch marks results whose engine process could not be started.
var ErrLaunch = errors.New("engine launch failed")

// Result captures one engine invocation. It is produced once and never
// mutated afterwards.
type Result struct {
	ID       string // invocation id for log and trace correlation
	Command  Command
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error // set only when the engine could not be launched
	Started  time.Time
	Duration time.Duration
}

// FailedResult builds a result for a command that never produced an exit
// status.
func FailedResult(id string, cmd Command, err error) Result {
	return Result{ID: id, Command: cmd, ExitCode: -1, Err: err, Started: time.Now()}
}

// OK reports whether the engine ran and exited with status zero.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Failed is the inverse of OK.
func (r Result) Failed() bool {
	return !r.OK()
}

// LaunchFailed reports whether the engine process never started.
func (r Result) LaunchFailed() bool {
	return errors.Is(r.Err, ErrLaunch)
}

// ErrorText describes a failure for the status readout. It is empty for a
// successful result.
func (r Result) ErrorText() string {
	if r.OK() {
		return ""
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("%s exited with status %d", r.Command.Verb(), r.ExitCode)
}
