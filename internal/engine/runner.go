package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// Executor runs a single engine command to completion.
// This interface is implemented by *Runner and can be used for testing.
type Executor interface {
	Execute(ctx context.Context, cmd Command) Result
}

// Ensure Runner implements Executor at compile time.
var _ Executor = (*Runner)(nil)

// commandFn builds the engine process; tests swap it for a helper process.
var commandFn = exec.Command

// Runner invokes the engine executable.
type Runner struct {
	path   string
	tracer trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithTracer records a span for every invocation.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracer = t
		}
	}
}

// NewRunner builds a Runner for the engine at path. The path is not checked
// for existence here; a missing engine surfaces as a launch failure on the
// first call.
func NewRunner(path string, opts ...Option) (*Runner, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("engine path is empty")
	}
	r := &Runner{
		path:   trimmed,
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Path returns the engine executable path.
func (r *Runner) Path() string {
	return r.path
}

// Execute runs the engine and waits for it to exit. A non-zero exit status
// is reported in the Result, not as an error. The call is not bound to ctx
// cancellation: once dispatched, a command runs to completion.
func (r *Runner) Execute(ctx context.Context, cmd Command) Result {
	res := Result{ID: uuid.NewString(), Command: cmd, Started: time.Now()}

	_, span := r.tracer.Start(ctx, "engine."+string(cmd.Verb()),
		trace.WithAttributes(
			attribute.String("engine.command", cmd.String()),
			attribute.String("engine.invocation_id", res.ID),
		))
	defer span.End()

	log.Debug(log.CatEngine, "dispatch", "id", res.ID, "command", cmd.String())

	proc := commandFn(r.path, cmd.Tokens()...)
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err := proc.Run()
	res.Duration = time.Since(res.Started)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = fmt.Errorf("%w: %w", ErrLaunch, err)
	}

	span.SetAttributes(attribute.Int("engine.exit_code", res.ExitCode))
	if res.Failed() {
		span.SetStatus(codes.Error, res.ErrorText())
		log.Error(log.CatEngine, "command failed",
			"id", res.ID, "command", cmd.String(), "exit", res.ExitCode,
			"error", res.ErrorText(), "took", res.Duration)
	} else {
		log.Info(log.CatEngine, "command ok",
			"id", res.ID, "command", cmd.String(), "took", res.Duration)
	}
	return res
}
