// Package grinfo implements C3: the per-instance, per-interface, and
// per-neighbor graceful restart records, their timers, and the creation
// policy and precondition check spec.md §4.3 describes.
package grinfo

import (
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gentimer"
	"OSPFGraceRestart/internal/grloop"
)

// Instance is the per-routing-instance GR record (spec.md §3).
type Instance struct {
	Enabled        bool
	StrictLSACheck bool
	GracePeriod    time.Duration
	Status         domain.RestartStatus
	StartTime      time.Time
	ExitReason     domain.ExitReason

	GraceTimer   *gentimer.Handle
	MonitorTimer *gentimer.Handle
}

// NewInstance implements the creation policy of spec.md §4.3: if
// restartInProgress (the process-wide flag) is set, the instance starts
// in PlannedRestart — or, per SPEC_FULL.md C10, UnplannedRestart when
// crashDetected reports the previous process instance never reached a
// clean shutdown — with start time now and exit reason InProgress.
// Otherwise it starts in NotRestart. enabled and strictLSACheck are set
// from configuration/marker by the caller; GracePeriod is populated
// later by CheckAndArmRestart.
func NewInstance(clk clock.Clock, disp grloop.Dispatcher, enabled, strictLSACheck, restartInProgress, crashDetected bool) *Instance {
	inst := &Instance{
		Enabled:        enabled,
		StrictLSACheck: strictLSACheck,
		GraceTimer:     gentimer.New(clk, disp),
		MonitorTimer:   gentimer.New(clk, disp),
	}
	if restartInProgress {
		inst.StartTime = clk.Now()
		inst.ExitReason = domain.ExitInProgress
		if crashDetected {
			inst.Status = domain.UnplannedRestart
		} else {
			inst.Status = domain.PlannedRestart
		}
	} else {
		inst.Status = domain.NotRestart
	}
	return inst
}

// Restarting reports whether the instance is in either restarting status.
// Everything downstream of creation treats PlannedRestart and
// UnplannedRestart identically (SPEC_FULL.md C10).
func (inst *Instance) Restarting() bool {
	return inst.Status == domain.PlannedRestart || inst.Status == domain.UnplannedRestart
}

// CheckAndArmRestart arms the grace expiry timer exactly once, per
// spec.md §4.3: only if GR is enabled, gracePeriod > 0, the instance is
// restarting with exit reason InProgress, and no grace timer is already
// armed. onExpire is delivered through the dispatcher supplied at
// NewInstance time.
func (inst *Instance) CheckAndArmRestart(gracePeriod time.Duration, onExpire func()) {
	if !inst.Enabled {
		return
	}
	if gracePeriod <= 0 {
		return
	}
	if !inst.Restarting() {
		return
	}
	if inst.ExitReason != domain.ExitInProgress {
		return
	}
	if inst.GraceTimer.Armed() {
		return
	}
	inst.GracePeriod = gracePeriod
	inst.GraceTimer.Arm(gracePeriod, onExpire)
}
