package control

import (
	"context"
	"sync"
)

// Scheduler hands a callback to the thread that owns the view.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Schedule calls f(fn).
func (f SchedulerFunc) Schedule(fn func()) { f(fn) }

// Mailbox is an unbounded FIFO of callbacks. Producers never block; the
// owner of the interactive thread pops and runs them with Next or Drain.
type Mailbox struct {
	mu     sync.Mutex
	queue  []func()
	signal chan struct{}
	closed bool
}

// NewMailbox returns an empty Mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{signal: make(chan struct{}, 1)}
}

// Schedule enqueues fn. Callbacks scheduled after Close are dropped.
func (m *Mailbox) Schedule(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
	m.wake()
}

// Next waits for the oldest callback. It returns false once ctx is done, or
// once the mailbox is closed and empty.
func (m *Mailbox) Next(ctx context.Context) (func(), bool) {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			fn := m.queue[0]
			m.queue[0] = nil
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return fn, true
		}
		closed := m.closed
		m.mu.Unlock()
		if closed {
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-m.signal:
		}
	}
}

// Ready waits until at least one callback is queued without taking it, so
// the caller can Drain on its own thread. It returns false once ctx is done
// or the mailbox is closed and empty. Ready passes its wake-up on, so a
// Next or Ready on another goroutine still sees the queued work.
func (m *Mailbox) Ready(ctx context.Context) bool {
	for {
		m.mu.Lock()
		n, closed := len(m.queue), m.closed
		m.mu.Unlock()
		if n > 0 {
			m.wake()
			return true
		}
		if closed {
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-m.signal:
		}
	}
}

// Drain runs every queued callback on the calling goroutine and returns how
// many ran.
func (m *Mailbox) Drain() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.queue[0]
		m.queue[0] = nil
		m.queue = m.queue[1:]
		m.mu.Unlock()
		fn()
		n++
	}
}

// Len returns the number of queued callbacks.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close stops accepting callbacks and wakes a waiting Next.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.wake()
}

func (m *Mailbox) wake() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}
