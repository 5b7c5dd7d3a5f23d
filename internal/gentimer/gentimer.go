// Package gentimer implements the "timers with generation counters"
// pattern from SPEC_FULL.md's design notes: cancellation bumps a
// generation counter so that a timer callback racing with a cancel-and-
// rearm is a guaranteed no-op, without any handler needing its own lock.
package gentimer

import (
	"sync"
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/grloop"
)

// Handle wraps a single clock.Timer plus a generation counter satisfying
// invariant I3 (at most one concurrent timer per record): arming always
// cancels whatever was previously armed before scheduling the new one.
type Handle struct {
	clk  clock.Clock
	disp grloop.Dispatcher

	mu    sync.Mutex
	gen   uint64
	timer clock.Timer
}

// New creates a Handle driven by clk, whose callbacks are delivered
// through disp (so they run on the single GR event loop, never on the
// clock's own goroutine).
func New(clk clock.Clock, disp grloop.Dispatcher) *Handle {
	return &Handle{clk: clk, disp: disp}
}

// Arm cancels any timer currently armed on this handle and schedules fn to
// run after d. fn is delivered via the dispatcher and is a no-op if the
// handle is cancelled or re-armed before it fires.
func (h *Handle) Arm(d time.Duration, fn func()) {
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.gen++
	gen := h.gen
	h.mu.Unlock()

	timer := h.clk.AfterFunc(d, func() {
		h.disp.Post(func() {
			h.mu.Lock()
			current := h.gen
			if current == gen {
				h.timer = nil
			}
			h.mu.Unlock()
			if current != gen {
				return
			}
			fn()
		})
	})

	h.mu.Lock()
	h.timer = timer
	h.mu.Unlock()
}

// Cancel stops whatever timer is armed and bumps the generation so any
// in-flight callback becomes a no-op.
func (h *Handle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.gen++
}

// Armed reports whether a timer is currently scheduled on this handle.
func (h *Handle) Armed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timer != nil
}
