package clock

import (
	"testing"
	"time"
)

func TestVirtualAdvanceFiresDueTimersInOrder(t *testing.T) {
	c := NewVirtual(time.Unix(0, 0))
	var order []string

	c.AfterFunc(2*time.Second, func() { order = append(order, "second") })
	c.AfterFunc(1*time.Second, func() { order = append(order, "first") })

	c.Advance(3 * time.Second)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("got %v, want [first second]", order)
	}
}

func TestVirtualAdvanceSkipsStoppedTimer(t *testing.T) {
	c := NewVirtual(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(1*time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatalf("Stop on a not-yet-fired timer should return true")
	}
	c.Advance(2 * time.Second)

	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestVirtualAdvanceLeavesFutureTimersPending(t *testing.T) {
	c := NewVirtual(time.Unix(0, 0))
	fired := false
	c.AfterFunc(10*time.Second, func() { fired = true })

	c.Advance(1 * time.Second)

	if fired {
		t.Fatalf("timer fired before its due time")
	}
	if got := c.Now(); !got.Equal(time.Unix(1, 0)) {
		t.Fatalf("Now() = %v, want t+1s", got)
	}
}

func TestVirtualAdvanceFiresTimerScheduledByAFiringCallback(t *testing.T) {
	c := NewVirtual(time.Unix(0, 0))
	var order []string

	c.AfterFunc(1*time.Second, func() {
		order = append(order, "outer")
		c.AfterFunc(1*time.Second, func() { order = append(order, "inner") })
	})

	c.Advance(5 * time.Second)

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("got %v, want [outer inner]", order)
	}
}

func TestVirtualStopAfterFireReturnsFalse(t *testing.T) {
	c := NewVirtual(time.Unix(0, 0))
	timer := c.AfterFunc(1*time.Second, func() {})

	c.Advance(1 * time.Second)

	if timer.Stop() {
		t.Fatalf("Stop on an already-fired timer should return false")
	}
}

func TestVirtualNowAdvancesToTargetWithNoPendingTimers(t *testing.T) {
	c := NewVirtual(time.Unix(0, 0))
	c.Advance(30 * time.Minute)

	if got := c.Now(); !got.Equal(time.Unix(0, 0).Add(30 * time.Minute)) {
		t.Fatalf("Now() = %v, want start+30m", got)
	}
}
