package grinfo

import (
	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gentimer"
	"OSPFGraceRestart/internal/grloop"
)

// Interface is the per-interface GR record (spec.md §3). It is created
// when the containing OSPF interface is created and destroyed with it.
type Interface struct {
	Resume domain.ResumeState

	// NoNeighborTimer is the watchdog armed for 2*DeadInterval when the
	// interface becomes operational; it fires NoNbr if the neighbor
	// table is still empty (spec.md §4.5).
	NoNeighborTimer *gentimer.Handle
}

// NewInterface creates an Interface GR record in the Idle resume state.
func NewInterface(clk clock.Clock, disp grloop.Dispatcher) *Interface {
	return &Interface{
		Resume:          domain.ResumeIdle,
		NoNeighborTimer: gentimer.New(clk, disp),
	}
}

// The five resume-state events of spec.md §4.5's event table. Every event
// transitions from any state, so these never reject one; NbrInconsistent
// additionally demands the caller set the instance exit reason to
// TopologyChange, which is the caller's responsibility (C5/C6), not this
// record's.

func (i *Interface) RaiseIntAdjComplete() { i.Resume = domain.ResumeOK }
func (i *Interface) RaiseExtend()         { i.Resume = domain.ResumeOK }
func (i *Interface) RaiseExpiry()         { i.Resume = domain.ResumeNOK }
func (i *Interface) RaiseNbrInconsistent() { i.Resume = domain.ResumeNOK }
func (i *Interface) RaiseNoNbr()          { i.Resume = domain.ResumeNOK }
