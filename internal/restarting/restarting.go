// Package restarting implements C5: the instance-level and per-interface
// restarting-mode state machine that runs while a routing instance comes
// back up after a graceful restart (spec.md §4.5).
package restarting

import (
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gracelsa"
	"OSPFGraceRestart/internal/grinfo"
	"OSPFGraceRestart/internal/grloop"
	"OSPFGraceRestart/internal/logger"
	"OSPFGraceRestart/internal/ospfhost"
	"OSPFGraceRestart/internal/telemetry/grtrace"
)

// defaultMonitorPeriod is spec.md §4.5's literal monitor cadence, used
// whenever New is given a non-positive monitorInterval.
const defaultMonitorPeriod = 10 * time.Second

// Machine runs the restarting-mode state machine for a single routing
// instance: one Instance record and one Interface record per interface.
type Machine struct {
	host ospfhost.Host
	lgr  logger.Logger
	clk  clock.Clock
	disp grloop.Dispatcher

	flag *grinfo.RestartFlag
	inst *grinfo.Instance

	deadInterval  time.Duration
	monitorPeriod time.Duration
	reason        domain.RestartReason

	interfaces map[domain.InterfaceID]*grinfo.Interface
}

// New creates a restarting state machine. deadInterval feeds the
// no-neighbor watchdog duration (2×DeadInterval); monitorInterval sets
// the monitor timer's period (defaulting to 10s if non-positive); reason
// is the restart reason carried on every originated Grace-LSA.
func New(host ospfhost.Host, lgr logger.Logger, clk clock.Clock, disp grloop.Dispatcher, flag *grinfo.RestartFlag, inst *grinfo.Instance, deadInterval, monitorInterval time.Duration, reason domain.RestartReason) *Machine {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	if monitorInterval <= 0 {
		monitorInterval = defaultMonitorPeriod
	}
	return &Machine{
		host:          host,
		lgr:           lgr.Named("restarting"),
		clk:           clk,
		disp:          disp,
		flag:          flag,
		inst:          inst,
		deadInterval:  deadInterval,
		monitorPeriod: monitorInterval,
		reason:        reason,
		interfaces:    make(map[domain.InterfaceID]*grinfo.Interface),
	}
}

func (m *Machine) interfaceFor(iface domain.InterfaceID) *grinfo.Interface {
	r, ok := m.interfaces[iface]
	if !ok {
		r = grinfo.NewInterface(m.clk, m.disp)
		m.interfaces[iface] = r
	}
	return r
}

// Resume reports an interface's current resume state; interfaces never
// referenced are Idle.
func (m *Machine) Resume(iface domain.InterfaceID) domain.ResumeState {
	if r, ok := m.interfaces[iface]; ok {
		return r.Resume
	}
	return domain.ResumeIdle
}

// Start arms the grace expiry timer per spec.md §4.3's precondition
// chain; it is a no-op unless the instance is restarting with exit
// reason InProgress and GR is enabled.
func (m *Machine) Start(gracePeriod time.Duration) {
	m.inst.CheckAndArmRestart(gracePeriod, m.onGraceExpiry)
}

// OnISMOperational is the per-interface ISM hook (spec.md §4.5), called
// when an interface reaches PointToPoint, DROther, or Waiting.
func (m *Machine) OnISMOperational(iface domain.InterfaceID) {
	if !m.inst.Restarting() {
		return
	}
	r := m.interfaceFor(iface)
	if r.Resume != domain.ResumeIdle {
		return
	}
	r.Resume = domain.ResumeInProgress
	m.armMonitor()
	r.NoNeighborTimer.Arm(2*m.deadInterval, func() { m.onNoNeighborWatchdog(iface) })

	area := m.host.InterfaceArea(iface)
	addr := m.host.InterfaceAddress(iface)
	_ = m.host.OriginateGraceLSA(iface, gracelsa.Body{
		GracePeriod:      uint32(m.inst.GracePeriod / time.Second),
		Reason:           m.reason,
		InterfaceAddress: addr,
	})
	m.lgr.Info("interface entered restarting resume", logger.F("interface", iface), logger.F("area", area.String()))
}

// OnISMDown is the ISM-down hook: while resuming, a dropped interface is
// treated as an Expiry.
func (m *Machine) OnISMDown(iface domain.InterfaceID) {
	r, ok := m.interfaces[iface]
	if !ok || r.Resume != domain.ResumeInProgress {
		return
	}
	m.raiseExpiry(iface, r)
}

// ShouldCheckAdjacency backs the per-neighbor NSM hook (spec.md §4.5):
// scheduling of the adjacency consistency check for a neighbor that just
// reached Full is the caller's responsibility (package consistency); this
// method only exists so callers have a single place to check restarting
// is active before invoking it.
func (m *Machine) ShouldCheckAdjacency() bool { return m.inst.Restarting() }

func (m *Machine) onNoNeighborWatchdog(iface domain.InterfaceID) {
	r, ok := m.interfaces[iface]
	if !ok {
		return
	}
	if len(m.host.NeighborTable(iface)) == 0 {
		r.RaiseNoNbr()
	}
}

func (m *Machine) raiseExpiry(iface domain.InterfaceID, r *grinfo.Interface) {
	r.NoNeighborTimer.Cancel()
	r.RaiseExpiry()
}

// RaiseIntAdjComplete is called once the consistency check (C6) returns
// AdjOK.
func (m *Machine) RaiseIntAdjComplete(iface domain.InterfaceID) {
	r, ok := m.interfaces[iface]
	if !ok {
		return
	}
	r.NoNeighborTimer.Cancel()
	r.RaiseIntAdjComplete()
}

// RaiseNbrInconsistent is called once the consistency check (C6) returns
// AdjNOK; it also sets the instance exit reason to TopologyChange.
func (m *Machine) RaiseNbrInconsistent(iface domain.InterfaceID) {
	r, ok := m.interfaces[iface]
	if !ok {
		return
	}
	r.NoNeighborTimer.Cancel()
	r.RaiseNbrInconsistent()
	m.inst.ExitReason = domain.ExitTopologyChange
}

func (m *Machine) armMonitor() {
	if m.inst.MonitorTimer.Armed() {
		return
	}
	m.inst.MonitorTimer.Arm(m.monitorPeriod, m.onMonitor)
}

func (m *Machine) onMonitor() {
	okCount, nokCount, total := 0, 0, len(m.interfaces)
	for _, r := range m.interfaces {
		switch r.Resume {
		case domain.ResumeOK:
			okCount++
		case domain.ResumeNOK:
			nokCount++
		}
	}
	if okCount+nokCount == total && total > 0 {
		m.inst.MonitorTimer.Cancel()
		m.inst.GraceTimer.Cancel()
		m.inst.Status = domain.NotRestart
		if okCount == total {
			m.inst.ExitReason = domain.ExitCompleted
		}
		m.disp.Post(m.instanceExitTask)
		return
	}
	m.inst.MonitorTimer.Arm(m.monitorPeriod, m.onMonitor)
}

func (m *Machine) onGraceExpiry() {
	for _, r := range m.interfaces {
		r.NoNeighborTimer.Cancel()
		r.RaiseExpiry()
	}
	m.inst.ExitReason = domain.ExitTimeout
	m.onMonitor()
}

// instanceExitTask implements spec.md §4.5's instance exit task: for each
// interface, flush the Grace-LSA, refresh the Router-LSA, and refresh or
// flush the Network-LSA depending on DR election; then clear the
// process-wide restart flag.
func (m *Machine) instanceExitTask() {
	defer grtrace.RestartingExitTask(m.host.LocalRouterID().String(), m.inst.ExitReason.String())()
	for iface := range m.interfaces {
		_ = m.host.FlushGraceLSA(iface)
		area := m.host.InterfaceArea(iface)
		_ = m.host.OriginateRouterLSA(area)
		if _, hasDR := m.host.InterfaceDR(iface); hasDR {
			_ = m.host.OriginateNetworkLSA(iface)
		} else {
			_ = m.host.FlushNetworkLSA(iface)
		}
	}
	m.flag.Clear()
	m.lgr.Info("instance exit task completed", logger.F("exit_reason", m.inst.ExitReason.String()))
}
