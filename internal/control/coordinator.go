package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abcdqfr/wallpaper-shuffle/internal/engine"
	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

// ErrDispatchPanic marks results of a dispatcher that panicked.
var ErrDispatchPanic = errors.New("dispatcher panicked")

// BusyState tells whether a Blocking command is outstanding.
type BusyState int

const (
	Idle BusyState = iota
	Blocked
)

func (s BusyState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Blocked:
		return "blocked"
	default:
		return fmt.Sprintf("BusyState(%d)", int(s))
	}
}

// Mode is how a command is run.
type Mode int

const (
	// Blocking suspends input until the engine answers.
	Blocking Mode = iota
	// Async runs off the interactive thread and reports back later.
	Async
)

// ModeFor returns the execution mode for a command. Commands the user
// expects to see confirmed block; random and exit do not gate input.
func ModeFor(cmd engine.Command) Mode {
	switch cmd.Verb() {
	case engine.VerbRandom, engine.VerbExit:
		return Async
	default:
		return Blocking
	}
}

// Coordinator serializes Blocking commands and runs Async ones in the
// background, handing their results back through a Scheduler.
type Coordinator struct {
	exec  engine.Executor
	sched Scheduler

	mu      sync.Mutex
	cond    *sync.Cond
	state   BusyState
	next    uint64 // next ticket to hand out
	serving uint64 // ticket allowed to run

	inflight sync.WaitGroup
}

// New builds a Coordinator. sched receives Async completions and must run
// them on the thread that owns the view.
func New(exec engine.Executor, sched Scheduler) *Coordinator {
	c := &Coordinator{exec: exec, sched: sched}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// State returns the current busy state.
func (c *Coordinator) State() BusyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Queued returns how many Blocking calls are waiting behind the one in
// flight.
func (c *Coordinator) Queued() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	waiting := int(c.next - c.serving)
	if c.state == Blocked {
		waiting--
	}
	return waiting
}

// RunBlocking waits for its turn, marks the coordinator Blocked, runs cmd and
// returns to Idle on every path. Calls are served strictly in arrival order.
func (c *Coordinator) RunBlocking(ctx context.Context, cmd engine.Command) engine.Result {
	c.mu.Lock()
	ticket := c.next
	c.next++
	for c.serving != ticket {
		c.cond.Wait()
	}
	c.state = Blocked
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state = Idle
		c.serving++
		c.mu.Unlock()
		c.cond.Broadcast()
	}()

	log.Debug(log.CatControl, "blocking call", "command", cmd.String(), "ticket", ticket)
	return c.dispatch(ctx, cmd)
}

// RunAsync returns immediately and runs cmd on its own goroutine. When the
// engine exits, onComplete is scheduled exactly once with the result. The
// busy state is left alone.
//
// One goroutine per call is deliberate: calls are rare and user driven, so
// there is no pool to size.
func (c *Coordinator) RunAsync(ctx context.Context, cmd engine.Command, onComplete func(engine.Result)) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		res := c.dispatch(ctx, cmd)
		if onComplete == nil || c.sched == nil {
			return
		}
		// The result slot is emptied by the first delivery, so a scheduler
		// that runs the callback again cannot call onComplete twice.
		done := make(chan engine.Result, 1)
		done <- res
		c.sched.Schedule(func() {
			select {
			case r := <-done:
				onComplete(r)
			default:
				log.Warn(log.CatControl, "async result already delivered", "command", cmd.String())
			}
		})
	}()
	log.Debug(log.CatControl, "async call", "command", cmd.String())
}

// Run dispatches cmd in the mode ModeFor picks. Blocking results are
// delivered through onComplete on the calling goroutine before Run returns;
// Async results arrive later through the Scheduler.
func (c *Coordinator) Run(ctx context.Context, cmd engine.Command, onComplete func(engine.Result)) {
	if ModeFor(cmd) == Async {
		c.RunAsync(ctx, cmd, onComplete)
		return
	}
	res := c.RunBlocking(ctx, cmd)
	if onComplete != nil {
		onComplete(res)
	}
}

// Wait blocks until every Async call has finished dispatching.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

func (c *Coordinator) dispatch(ctx context.Context, cmd engine.Command) (res engine.Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrDispatchPanic, r)
			log.ErrorErr(log.CatControl, "dispatch panic", err, "command", cmd.String())
			res = engine.FailedResult(uuid.NewString(), cmd, err)
		}
	}()
	return c.exec.Execute(ctx, cmd)
}
