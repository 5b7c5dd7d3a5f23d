// Package helper implements C4: the per-neighbor helper-mode state
// machine driven by Grace-LSA install/delete, timer expiry, and topology
// changes detected by the LSDB change hook (spec.md §4.4, §4.7).
package helper

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

// Machine runs the helper state machine for every neighbor of a single
// routing instance. It owns no neighbor identity of its own: records are
// kept in a map keyed by domain.NeighborID and created on first use.
type Machine struct {
	host   ospfhost.Host
	lgr    logger.Logger
	clk    clock.Clock
	disp   grloop.Dispatcher
	global *grinfo.Instance // for Enabled (helper_enable) and StrictLSACheck

	records map[domain.NeighborID]*grinfo.NeighborHelper
}

// New creates a helper state machine bound to a host, a clock/dispatcher
// pair for the expiry timer, and the instance record that carries the
// helper_enable and strict_lsa_check flags.
func New(host ospfhost.Host, lgr logger.Logger, clk clock.Clock, disp grloop.Dispatcher, inst *grinfo.Instance) *Machine {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	return &Machine{
		host:    host,
		lgr:     lgr.Named("helper"),
		clk:     clk,
		disp:    disp,
		global:  inst,
		records: make(map[domain.NeighborID]*grinfo.NeighborHelper),
	}
}

// recordFor returns the helper record for a neighbor, creating it on
// first reference; records live for as long as the neighbor itself does,
// which is the caller's responsibility to tear down (Forget).
func (m *Machine) recordFor(nbr domain.NeighborID) *grinfo.NeighborHelper {
	r, ok := m.records[nbr]
	if !ok {
		r = grinfo.NewNeighborHelper(m.clk, m.disp)
		m.records[nbr] = r
	}
	return r
}

// Forget discards a neighbor's helper record, e.g. when the neighbor
// itself is destroyed.
func (m *Machine) Forget(nbr domain.NeighborID) {
	delete(m.records, nbr)
}

// Status reports a neighbor's current helper status; neighbors never
// referenced are NotHelping.
func (m *Machine) Status(nbr domain.NeighborID) domain.HelperStatus {
	if r, ok := m.records[nbr]; ok {
		return r.Status
	}
	return domain.NotHelping
}

// OnGraceLSAInstalled is the LSDB install hook (spec.md §4.7), called for
// every installed LSA of type opaque-link, opaque-type Grace. iface is
// the interface the LSA was received on; body is the already-decoded
// Grace-LSA contents; lsAge is the LSA's current age in seconds.
func (m *Machine) OnGraceLSAInstalled(iface domain.InterfaceID, body gracelsa.Body, lsAge uint32) domain.Outcome {
	if !m.global.Enabled {
		return domain.Rejected("helper role disabled")
	}
	nbr, ok := m.host.NeighborByAddress(iface, body.InterfaceAddress)
	if !ok {
		return domain.Rejected("no neighbor at Grace-LSA interface address")
	}
	r := m.recordFor(nbr)
	if r.Status == domain.Helping {
		return domain.Rejected("neighbor already helping")
	}
	if gracelsa.Expired(lsAge, body.GracePeriod) {
		return domain.Rejected("grace period already expired on receipt")
	}
	info, ok := m.host.Neighbor(nbr)
	if !ok || info.State != domain.NSMFull {
		return domain.Rejected("neighbor not Full")
	}
	total, self := m.host.RetransmitCounts(nbr)
	if total != self {
		return domain.Rejected("non-self LSA pending retransmission")
	}

	m.host.CancelInactivityTimer(nbr)
	r.Status = domain.Helping
	r.GracePeriod = time.Duration(body.GracePeriod) * time.Second
	r.StartTime = m.clk.Now()
	r.ExitReason = domain.ExitInProgress
	r.Timer.Arm(r.GracePeriod, func() { m.exit(nbr, domain.ExitTimeout) })

	m.lgr.Info("helper entered",
		logger.F("neighbor", nbr),
		logger.F("interface", iface),
		logger.F("grace_period", r.GracePeriod),
	)
	grtrace.HelperEntry(info.RouterID.String(), true)()
	return domain.Accepted()
}

// OnGraceLSADeleted is the LSDB delete hook filtered to Grace-LSAs
// (spec.md §4.7): exits the helper session with reason Completed.
func (m *Machine) OnGraceLSADeleted(nbr domain.NeighborID) {
	m.exit(nbr, domain.ExitCompleted)
}

// OnTopologyChange drives every neighbor currently Helping into exit with
// reason TopologyChange. It is called by the LSDB change hook once its
// own preconditions (helper_enable && strict_lsa_check && not restarting
// && LSA actually changed) have been evaluated by the caller (spec.md
// §4.7); this method does not re-check them.
func (m *Machine) OnTopologyChange() {
	for nbr, r := range m.records {
		if r.Status == domain.Helping {
			m.exit(nbr, domain.ExitTopologyChange)
		}
	}
}

// exit runs the common C4 exit action (spec.md §4.4) for a neighbor,
// regardless of trigger.
func (m *Machine) exit(nbr domain.NeighborID, reason domain.ExitReason) {
	r, ok := m.records[nbr]
	if !ok || r.Status != domain.Helping {
		return
	}
	r.Timer.Cancel()
	r.Status = domain.NotHelping
	r.GracePeriod = 0
	r.ExitReason = reason

	switch reason {
	case domain.ExitTimeout, domain.ExitTopologyChange:
		m.host.RaiseNSMInactivityTimer(nbr)
	default: // Completed
		if info, ok := m.host.Neighbor(nbr); ok {
			m.host.RaiseISMNeighborChange(info.Interface)
		}
	}

	if info, ok := m.host.Neighbor(nbr); ok {
		area := m.host.InterfaceArea(info.Interface)
		_ = m.host.OriginateRouterLSA(area)
		if _, hasDR := m.host.InterfaceDR(info.Interface); hasDR {
			_ = m.host.OriginateNetworkLSA(info.Interface)
		}
	}

	m.lgr.Info("helper exited", logger.F("neighbor", nbr), logger.F("reason", reason.String()))
	if info, ok := m.host.Neighbor(nbr); ok {
		grtrace.HelperExit(info.RouterID.String(), reason.String())()
	}
}
