// Package clock abstracts wall-clock time so the graceful restart timers
// (grace period, monitor, helper expiry, no-neighbor watchdog) can be
// driven by a deterministic virtual clock in tests and in the cmd/grsim
// scenario runner, instead of requiring real sleeps of up to 1800 seconds.
package clock

import "time"

// Timer is a handle returned by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the timer from firing, if it hasn't already. It
	// returns true if the stop removed a pending firing.
	Stop() bool
}

// Clock is the minimal time source the GR subsystem depends on.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is a Clock backed by the standard library.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }
