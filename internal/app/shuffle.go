package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abcdqfr/wallpaper-shuffle/internal/log"
)

const (
	// maxBackoff caps the wait between shuffles while the engine keeps failing.
	maxBackoff = 30 * time.Minute
	// defaultShuffleInterval is used when the timer is started from the tray
	// or the view without shuffle.interval_minutes in the config.
	defaultShuffleInterval = 30 * time.Minute
	countdownTick          = time.Second
)

// shuffleTimer calls fire every interval while it runs. Each run has its own
// context, so it can be stopped and started again at any time.
type shuffleTimer struct {
	interval time.Duration
	tick     time.Duration
	failures func() int
	fire     func()
	notify   func() // after start, stop and each tick; runs on the timer goroutine for ticks

	mu     sync.Mutex
	cancel context.CancelFunc
	due    time.Time
}

func newShuffleTimer(interval time.Duration, failures func() int, fire, notify func()) *shuffleTimer {
	if interval <= 0 {
		interval = defaultShuffleInterval
	}
	return &shuffleTimer{
		interval: interval,
		tick:     countdownTick,
		failures: failures,
		fire:     fire,
		notify:   notify,
	}
}

// Start begins a run unless one is active and reports whether it did.
func (t *shuffleTimer) Start(parent context.Context) bool {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	t.due = time.Now().Add(t.interval)
	t.mu.Unlock()

	go t.run(ctx)
	log.Info(log.CatApp, "shuffle timer started", "interval", t.interval.String())
	t.changed()
	return true
}

// Stop ends the active run and reports whether there was one.
func (t *shuffleTimer) Stop() bool {
	t.mu.Lock()
	if t.cancel == nil {
		t.mu.Unlock()
		return false
	}
	// Cancel under the lock so the old run cannot write due after this.
	t.cancel()
	t.cancel = nil
	t.due = time.Time{}
	t.mu.Unlock()

	log.Info(log.CatApp, "shuffle timer stopped")
	t.changed()
	return true
}

// Toggle stops a running timer or starts a stopped one. It reports whether
// the timer is now running.
func (t *shuffleTimer) Toggle(parent context.Context) bool {
	if t.Stop() {
		return false
	}
	return t.Start(parent)
}

// Remaining returns the time until the next shuffle, and false when the
// timer is stopped.
func (t *shuffleTimer) Remaining() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel == nil {
		return 0, false
	}
	return max(0, time.Until(t.due)), true
}

func (t *shuffleTimer) run(ctx context.Context) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()

	for {
		var now time.Time
		select {
		case <-ctx.Done():
			return
		case now = <-ticker.C:
		}

		t.mu.Lock()
		if ctx.Err() != nil {
			t.mu.Unlock()
			return
		}
		due := !now.Before(t.due)
		t.mu.Unlock()

		if due {
			t.fire()
			wait := calculateBackoff(t.failures(), t.interval)
			if wait != t.interval {
				log.Debug(log.CatApp, "shuffle backing off", "wait", wait.String())
			}
			t.mu.Lock()
			if ctx.Err() == nil {
				t.due = time.Now().Add(wait)
			}
			t.mu.Unlock()
		}
		t.changed()
	}
}

func (t *shuffleTimer) changed() {
	if t.notify != nil {
		t.notify()
	}
}

// calculateBackoff returns the wait before the next shuffle: base for no
// failures, doubling per consecutive failure, never above maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

// formatClock renders d as mm:ss, rounding to the second.
func formatClock(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
