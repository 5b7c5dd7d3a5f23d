package clock

import (
	"sync"
	"time"
)

// Virtual is a Clock whose time only advances when Advance is called. It
// lets tests and cmd/grsim exercise a 30-minute grace period without a
// real 30-minute wait, while still exercising the exact same ordering
// (due timers fire in scheduled order) the real clock would produce.
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*virtualTimer
	seq    uint64
}

type virtualTimer struct {
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *virtualTimer) Stop() bool {
	fired := t.fired
	t.stopped = true
	return !fired
}

// NewVirtual creates a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (c *Virtual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &virtualTimer{at: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every due, unstopped timer
// in (scheduled-time, then insertion-order) order. Timers scheduled by a
// firing callback with a due time still within the advance are themselves
// fired before Advance returns, matching a real timer's behavior under a
// busy loop.
func (c *Virtual) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		due, idx := c.nextDueLocked(target)
		if due == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		due.fired = true
		c.now = due.at
		c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
		fn := due.fn
		c.mu.Unlock()

		fn()
	}
}

// nextDueLocked returns the earliest unfired, unstopped timer due at or
// before target, and its index in c.timers. Caller holds c.mu.
func (c *Virtual) nextDueLocked(target time.Time) (*virtualTimer, int) {
	best := -1
	for i, t := range c.timers {
		if t.stopped || t.fired {
			continue
		}
		if t.at.After(target) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		cand := c.timers[best]
		if t.at.Before(cand.at) || (t.at.Equal(cand.at) && t.seq < cand.seq) {
			best = i
		}
	}
	if best == -1 {
		return nil, -1
	}
	return c.timers[best], best
}
