package grinfo

import (
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gentimer"
	"OSPFGraceRestart/internal/grloop"
)

// NeighborHelper is the per-neighbor helper record (spec.md §3). It is
// created when the containing neighbor is created and destroyed with it.
// Invariant I1: the neighbor is Helping exactly while Timer is armed.
type NeighborHelper struct {
	Status      domain.HelperStatus
	StartTime   time.Time
	ExitReason  domain.ExitReason
	GracePeriod time.Duration

	// Timer is the helper expiry timer, armed for GracePeriod seconds on
	// entry (invariant I1).
	Timer *gentimer.Handle

	// AdjacencyCheckPending is room for marking a scheduled adjacency
	// consistency check (C6) on this neighbor. No code in this module sets
	// or reads it; the check runs inline from the NSM change hook.
	AdjacencyCheckPending bool
}

// NewNeighborHelper creates a NeighborHelper record in NotHelping status.
func NewNeighborHelper(clk clock.Clock, disp grloop.Dispatcher) *NeighborHelper {
	return &NeighborHelper{
		Status: domain.NotHelping,
		Timer:  gentimer.New(clk, disp),
	}
}
