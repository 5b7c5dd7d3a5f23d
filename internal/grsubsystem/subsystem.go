// Package grsubsystem is the top-level graceful restart facade: it wires
// C3 (GR info model) through C7 (event plumbing) together for one
// routing instance, reads and writes the persistent marker across
// restarts, and exposes the operator surface spec.md §6 names (enable
// restarting/helper role, set grace period, enable strict-LSA check, arm
// a planned restart).
package grsubsystem

import (
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/config"
	"OSPFGraceRestart/internal/consistency"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/events"
	"OSPFGraceRestart/internal/gracelsa"
	"OSPFGraceRestart/internal/grinfo"
	"OSPFGraceRestart/internal/grloop"
	"OSPFGraceRestart/internal/helper"
	"OSPFGraceRestart/internal/logger"
	"OSPFGraceRestart/internal/marker"
	"OSPFGraceRestart/internal/ospfhost"
	"OSPFGraceRestart/internal/restarting"
)

// Subsystem owns every GR component for one routing instance.
type Subsystem struct {
	cfg  config.GRConfig
	host ospfhost.Host
	lgr  logger.Logger
	clk  clock.Clock
	disp grloop.Dispatcher

	Flag       *grinfo.RestartFlag
	Instance   *grinfo.Instance
	Helper     *helper.Machine
	Restarting *restarting.Machine
	Events     *events.Router
}

// New reads the persistent marker (consuming it per spec.md §4.2),
// creates the instance record per the creation policy of spec.md §4.3,
// and wires the helper, restarting, and event-plumbing components.
// crashDetected is supplied by the caller from whatever out-of-band
// signal the host environment uses to distinguish a deliberate restart
// from a crash recovery (spec.md §9 Open Question, resolved as C10);
// the marker file carries no such signal itself, since it is only ever
// written deliberately before a planned restart.
func New(cfg config.GRConfig, host ospfhost.Host, lgr logger.Logger, clk clock.Clock, disp grloop.Dispatcher, crashDetected bool) (*Subsystem, error) {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	flag := &grinfo.RestartFlag{}

	rec, err := marker.Read(cfg.Marker.SysConfDir)
	if err != nil {
		lgr.Warn("marker read failed, proceeding as cold start", logger.F("error", err))
	}

	enabled := cfg.RestartEnable
	reason := domain.RestartReason(cfg.RestartReason)
	restartInProgress := false
	if rec != nil {
		restartInProgress = rec.Enable
		reason = rec.Reason
		if cfg.Marker.AdjustSystemClock {
			// Legacy behavior forwards the wall clock so LSA ages
			// computed against it don't appear to jump backward across
			// the outage. This path does not: the setting is only
			// logged, rec.RestartTime is not applied, and system time is
			// left alone whether AdjustSystemClock is set or not.
			lgr.Info("AdjustSystemClock enabled by configuration; wall clock left unmodified, relying on unsigned LSA age comparison instead")
		}
	}
	if restartInProgress {
		flag.Set()
	}

	inst := grinfo.NewInstance(clk, disp, enabled, cfg.StrictLSACheck, restartInProgress, crashDetected)

	h := helper.New(host, lgr, clk, disp, inst)
	r := restarting.New(host, lgr, clk, disp, flag, inst, cfg.DeadInterval, cfg.MonitorInterval, reason)
	ev := events.New(host, lgr, h, r, cfg.HelperEnable, cfg.StrictLSACheck)
	ev.SetRestarting(inst.Restarting())

	s := &Subsystem{
		cfg:        cfg,
		host:       host,
		lgr:        lgr.Named("grsubsystem"),
		clk:        clk,
		disp:       disp,
		Flag:       flag,
		Instance:   inst,
		Helper:     h,
		Restarting: r,
		Events:     ev,
	}
	if inst.Restarting() {
		r.Start(cfg.GracePeriod)
	}
	return s, nil
}

// EnableRestartRole toggles the restarting role's enable flag.
func (s *Subsystem) EnableRestartRole(on bool) { s.Instance.Enabled = on }

// EnableHelperRole toggles whether Grace-LSA install events are honored.
func (s *Subsystem) EnableHelperRole(on bool) { s.Events.SetHelperEnable(on) }

// SetGracePeriod updates the grace period used for future restarts; it
// does not re-arm a timer already running.
func (s *Subsystem) SetGracePeriod(d time.Duration) { s.cfg.GracePeriod = d }

// SetStrictLSACheck toggles the LSDB change hook's topology-change
// detection.
func (s *Subsystem) SetStrictLSACheck(on bool) {
	s.Instance.StrictLSACheck = on
	s.Events.SetStrictLSACheck(on)
}

// ArmPlannedRestart writes the persistent marker ahead of a deliberate
// process restart (spec.md §4.2, §6): the next process instance will
// read it back and enter PlannedRestart.
func (s *Subsystem) ArmPlannedRestart(reason domain.RestartReason) error {
	return marker.Write(s.cfg.Marker.SysConfDir, true, reason, s.clk.Now())
}

// NeighborReachedFull is an entry point for a neighbor that reached
// Full; it runs the adjacency consistency check and resolves it into the
// matching restarting-machine event.
func (s *Subsystem) NeighborReachedFull(nbr domain.NeighborID) domain.AdjCheckResult {
	result := consistency.Check(s.host, nbr)
	info, ok := s.host.Neighbor(nbr)
	if !ok {
		return result
	}
	switch result {
	case domain.AdjOK:
		s.Restarting.RaiseIntAdjComplete(info.Interface)
	case domain.AdjNOK:
		s.Restarting.RaiseNbrInconsistent(info.Interface)
	}
	return result
}

// OnGraceLSAInstall re-exports the install hook for callers that parse
// the Grace-LSA body themselves and hold a decoded Body rather than a
// wire-format byte slice.
func (s *Subsystem) OnGraceLSAInstall(iface domain.InterfaceID, body gracelsa.Body, lsAge uint32) domain.Outcome {
	return s.Helper.OnGraceLSAInstalled(iface, body, lsAge)
}
