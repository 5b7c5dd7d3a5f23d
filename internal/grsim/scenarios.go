// Package grsim drives the six scenarios of spec.md §8 against the
// ospfhost/fake double and a virtual clock, narrating each transition
// through a logger.Logger. It exercises the same state-machine code
// paths as the package unit tests, but sequentially and with commentary,
// the way cmd/tester exercises the DHT lookup path against discovered
// nodes instead of asserting on it.
package grsim

import (
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/config"
	"OSPFGraceRestart/internal/consistency"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gracelsa"
	"OSPFGraceRestart/internal/grinfo"
	"OSPFGraceRestart/internal/grloop"
	"OSPFGraceRestart/internal/helper"
	"OSPFGraceRestart/internal/logger"
	"OSPFGraceRestart/internal/ospfhost"
	"OSPFGraceRestart/internal/ospfhost/fake"
	"OSPFGraceRestart/internal/restarting"
)

// Scenario is one named, runnable spec.md §8 scenario.
type Scenario struct {
	Name string
	Run  func(lgr logger.Logger, cfg config.GRConfig)
}

// All returns the six scenarios of spec.md §8, in order.
func All() []Scenario {
	return []Scenario{
		{"happy-helper", scenarioHappyHelper},
		{"helper-early-completion", scenarioHelperEarlyCompletion},
		{"helper-topology-change", scenarioHelperTopologyChange},
		{"restarter-consistent", scenarioRestarterConsistent},
		{"restarter-grace-expires", scenarioRestarterGraceExpires},
		{"restarter-dr-network-inconsistency", scenarioRestarterDRNetworkInconsistency},
	}
}

func logTransition(lgr logger.Logger, clk *clock.Virtual, msg string, fields ...logger.Field) {
	fields = append(fields, logger.F("t", clk.Now().Format(time.RFC3339)))
	lgr.Info(msg, fields...)
}

// scenarioHappyHelper is spec.md §8 scenario 1: a Grace-LSA install
// starts a helper session that runs out its full grace period.
func scenarioHappyHelper(lgr logger.Logger, cfg config.GRConfig) {
	vc := clock.NewVirtual(time.Unix(1000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	host := fake.New(lgr, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})
	nbr := host.AddNeighbor(iface, domain.RouterID{2, 2, 2, 2}, domain.IPv4{10, 0, 0, 2}, domain.NSMFull)

	inst := grinfo.NewInstance(vc, grloop.Sync{}, true, cfg.StrictLSACheck, false, false)
	m := helper.New(host, lgr, vc, grloop.Sync{}, inst)

	body := gracelsa.Body{GracePeriod: 60, Reason: domain.ReasonSoftwareRestart, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	out := m.OnGraceLSAInstalled(iface, body, 0)
	logTransition(lgr, vc, "Grace-LSA installed", logger.F("neighbor", nbr), logger.F("accepted", out.Accepted), logger.F("status", m.Status(nbr).String()))

	vc.Advance(61 * time.Second)
	logTransition(lgr, vc, "helper session concluded", logger.F("neighbor", nbr), logger.F("status", m.Status(nbr).String()), logger.F("inactivity_raised", len(host.Events.InactivityRaised) == 1))
}

// scenarioHelperEarlyCompletion is spec.md §8 scenario 2: the Grace-LSA
// is deleted before the grace period elapses.
func scenarioHelperEarlyCompletion(lgr logger.Logger, cfg config.GRConfig) {
	vc := clock.NewVirtual(time.Unix(1000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	host := fake.New(lgr, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})
	nbr := host.AddNeighbor(iface, domain.RouterID{2, 2, 2, 2}, domain.IPv4{10, 0, 0, 2}, domain.NSMFull)

	inst := grinfo.NewInstance(vc, grloop.Sync{}, true, cfg.StrictLSACheck, false, false)
	m := helper.New(host, lgr, vc, grloop.Sync{}, inst)

	body := gracelsa.Body{GracePeriod: 60, Reason: domain.ReasonSoftwareRestart, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	m.OnGraceLSAInstalled(iface, body, 0)
	logTransition(lgr, vc, "Grace-LSA installed", logger.F("neighbor", nbr), logger.F("status", m.Status(nbr).String()))

	vc.Advance(20 * time.Second)
	m.OnGraceLSADeleted(nbr)
	logTransition(lgr, vc, "Grace-LSA deleted early", logger.F("neighbor", nbr), logger.F("status", m.Status(nbr).String()), logger.F("neighbor_change_raised", len(host.Events.NeighborChangeRaised) == 1))
}

// scenarioHelperTopologyChange is spec.md §8 scenario 3: strict-LSA
// check is enabled and a differing Router-LSA arrives mid-session.
func scenarioHelperTopologyChange(lgr logger.Logger, cfg config.GRConfig) {
	vc := clock.NewVirtual(time.Unix(1000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	host := fake.New(lgr, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})
	nbr := host.AddNeighbor(iface, domain.RouterID{2, 2, 2, 2}, domain.IPv4{10, 0, 0, 2}, domain.NSMFull)

	inst := grinfo.NewInstance(vc, grloop.Sync{}, true, true, false, false)
	m := helper.New(host, lgr, vc, grloop.Sync{}, inst)

	body := gracelsa.Body{GracePeriod: 60, Reason: domain.ReasonSoftwareRestart, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	m.OnGraceLSAInstalled(iface, body, 0)
	logTransition(lgr, vc, "Grace-LSA installed, strict check on", logger.F("neighbor", nbr), logger.F("status", m.Status(nbr).String()))

	vc.Advance(10 * time.Second)
	m.OnTopologyChange()
	logTransition(lgr, vc, "differing Router-LSA observed", logger.F("neighbor", nbr), logger.F("status", m.Status(nbr).String()), logger.F("inactivity_raised", len(host.Events.InactivityRaised) == 1))
}

// scenarioRestarterConsistent is spec.md §8 scenario 4: a single non-DR
// interface whose neighbor reaches Full with a consistent adjacency.
func scenarioRestarterConsistent(lgr logger.Logger, cfg config.GRConfig) {
	vc := clock.NewVirtual(time.Unix(2000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	peer := domain.RouterID{2, 2, 2, 2}
	host := fake.New(lgr, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})
	nbr := host.AddNeighbor(iface, peer, domain.IPv4{10, 0, 0, 2}, domain.NSMTwoWay)

	flag := &grinfo.RestartFlag{}
	flag.Set()
	inst := grinfo.NewInstance(vc, grloop.Sync{}, true, false, true, false)
	m := restarting.New(host, lgr, vc, grloop.Sync{}, flag, inst, cfg.DeadInterval, cfg.MonitorInterval, domain.ReasonSoftwareRestart)
	m.Start(cfg.GracePeriod)

	m.OnISMOperational(iface)
	logTransition(lgr, vc, "interface entered resume", logger.F("interface", iface), logger.F("grace_lsa_originated", len(host.Events.GraceOriginated) == 1))

	host.SetNeighborState(nbr, domain.NSMFull)
	result := consistency.Check(host, nbr)
	logTransition(lgr, vc, "adjacency consistency check", logger.F("neighbor", nbr), logger.F("result", result.String()))
	if result == domain.AdjOK {
		m.RaiseIntAdjComplete(iface)
	}

	vc.Advance(cfg.MonitorInterval)
	logTransition(lgr, vc, "instance exit evaluated", logger.F("status", inst.Status.String()), logger.F("exit_reason", inst.ExitReason.String()), logger.F("network_lsa_originated", len(host.Events.NetworkLSAOriginated)))
}

// scenarioRestarterGraceExpires is spec.md §8 scenario 5: as scenario 4
// but the neighbor never reaches Full and the grace timer fires.
func scenarioRestarterGraceExpires(lgr logger.Logger, cfg config.GRConfig) {
	vc := clock.NewVirtual(time.Unix(2000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	peer := domain.RouterID{2, 2, 2, 2}
	host := fake.New(lgr, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})
	host.AddNeighbor(iface, peer, domain.IPv4{10, 0, 0, 2}, domain.NSMTwoWay)

	flag := &grinfo.RestartFlag{}
	flag.Set()
	inst := grinfo.NewInstance(vc, grloop.Sync{}, true, false, true, false)
	m := restarting.New(host, lgr, vc, grloop.Sync{}, flag, inst, cfg.DeadInterval, cfg.MonitorInterval, domain.ReasonSoftwareRestart)
	gracePeriod := 120 * time.Second
	m.Start(gracePeriod)

	m.OnISMOperational(iface)
	logTransition(lgr, vc, "interface entered resume, neighbor stalled below Full", logger.F("interface", iface))

	vc.Advance(gracePeriod + time.Second)
	logTransition(lgr, vc, "grace period expired", logger.F("status", inst.Status.String()), logger.F("exit_reason", inst.ExitReason.String()), logger.F("network_lsa_flushed", len(host.Events.NetworkLSAFlushed)))
}

// scenarioRestarterDRNetworkInconsistency is spec.md §8 scenario 6: the
// router is DR on the interface, the Router-LSA test passes, but the
// triggering neighbor is missing from the Network-LSA.
func scenarioRestarterDRNetworkInconsistency(lgr logger.Logger, cfg config.GRConfig) {
	vc := clock.NewVirtual(time.Unix(2000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	peer := domain.RouterID{2, 2, 2, 2}
	host := fake.New(lgr, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})
	nbr := host.AddNeighbor(iface, peer, domain.IPv4{10, 0, 0, 2}, domain.NSMTwoWay)
	host.SetDR(iface, self, true)

	host.SetSelfRouterLSA(area, ospfhost.RouterLSA{AdvertisingRouter: self})
	third := domain.RouterID{3, 3, 3, 3}
	// Network-LSA for this segment omits the triggering neighbor.
	host.AddNetworkLSA(area, ospfhost.NetworkLSA{LinkStateID: self, AttachedRouters: []domain.RouterID{third}})

	flag := &grinfo.RestartFlag{}
	flag.Set()
	inst := grinfo.NewInstance(vc, grloop.Sync{}, true, false, true, false)
	m := restarting.New(host, lgr, vc, grloop.Sync{}, flag, inst, cfg.DeadInterval, cfg.MonitorInterval, domain.ReasonSoftwareRestart)
	m.Start(cfg.GracePeriod)
	m.OnISMOperational(iface)

	host.SetNeighborState(nbr, domain.NSMFull)
	result := consistency.Check(host, nbr)
	logTransition(lgr, vc, "adjacency consistency check as DR", logger.F("neighbor", nbr), logger.F("result", result.String()))
	switch result {
	case domain.AdjOK:
		m.RaiseIntAdjComplete(iface)
	case domain.AdjNOK:
		m.RaiseNbrInconsistent(iface)
	}

	vc.Advance(cfg.MonitorInterval)
	logTransition(lgr, vc, "instance exit evaluated", logger.F("status", inst.Status.String()), logger.F("exit_reason", inst.ExitReason.String()))
}
