package events

import (
	"testing"
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gracelsa"
	"OSPFGraceRestart/internal/grinfo"
	"OSPFGraceRestart/internal/grloop"
	"OSPFGraceRestart/internal/helper"
	"OSPFGraceRestart/internal/ospfhost/fake"
	"OSPFGraceRestart/internal/restarting"
)

func newFixture(t *testing.T, helperEnable, strictLSACheck bool) (*Router, *fake.Host, domain.InterfaceID, domain.NeighborID) {
	return newFixtureRestarting(t, helperEnable, strictLSACheck, false)
}

func newFixtureRestarting(t *testing.T, helperEnable, strictLSACheck, restartInProgress bool) (*Router, *fake.Host, domain.InterfaceID, domain.NeighborID) {
	t.Helper()
	vc := clock.NewVirtual(time.Unix(5000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	host := fake.New(nil, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})
	nbr := host.AddNeighbor(iface, domain.RouterID{2, 2, 2, 2}, domain.IPv4{10, 0, 0, 2}, domain.NSMFull)

	flag := &grinfo.RestartFlag{}
	inst := grinfo.NewInstance(vc, grloop.Sync{}, helperEnable, strictLSACheck, restartInProgress, false)
	h := helper.New(host, nil, vc, grloop.Sync{}, inst)
	r := restarting.New(host, nil, vc, grloop.Sync{}, flag, inst, 40*time.Second, 10*time.Second, domain.ReasonSoftwareRestart)

	router := New(host, nil, h, r, helperEnable, strictLSACheck)
	return router, host, iface, nbr
}

func TestLSDBInstallDrivesHelperEntry(t *testing.T) {
	router, _, iface, nbr := newFixture(t, true, false)
	body := gracelsa.Body{GracePeriod: 120, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	wire := gracelsa.Serialize(body)

	router.OnLSDBInstall(LSA{Type: domain.LSTypeOpaqueLink, OpaqueType: gracelsa.OpaqueTypeGrace, Interface: iface, Body: wire})

	if got := router.helper.Status(nbr); got != domain.Helping {
		t.Fatalf("helper status = %v, want Helping", got)
	}
}

// precondition 5 (spec.md §4.4): an LSA whose age already exceeds its own
// advertised grace period is rejected instead of starting a helper session.
func TestLSDBInstallRejectsAlreadyExpiredGraceLSA(t *testing.T) {
	router, _, iface, nbr := newFixture(t, true, false)
	body := gracelsa.Body{GracePeriod: 120, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	wire := gracelsa.Serialize(body)

	router.OnLSDBInstall(LSA{Type: domain.LSTypeOpaqueLink, OpaqueType: gracelsa.OpaqueTypeGrace, Interface: iface, Age: 150, Body: wire})

	if got := router.helper.Status(nbr); got != domain.NotHelping {
		t.Fatalf("helper status = %v, want NotHelping (grace-lsa already expired)", got)
	}
}

func TestLSDBDeleteDrivesHelperExit(t *testing.T) {
	router, _, iface, nbr := newFixture(t, true, false)
	body := gracelsa.Body{GracePeriod: 120, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	router.OnLSDBInstall(LSA{Type: domain.LSTypeOpaqueLink, OpaqueType: gracelsa.OpaqueTypeGrace, Interface: iface, Body: gracelsa.Serialize(body)})

	router.OnLSDBDelete(iface, nbr, domain.LSTypeOpaqueLink, gracelsa.OpaqueTypeGrace)

	if got := router.helper.Status(nbr); got != domain.NotHelping {
		t.Fatalf("helper status = %v, want NotHelping", got)
	}
}

// Scenario 3: helper with strict-LSA check on; a differing Router-LSA
// drives every Helping neighbor into exit with reason TopologyChange.
func TestLSDBChangeTriggersTopologyChangeExit(t *testing.T) {
	router, host, iface, nbr := newFixture(t, true, true)
	body := gracelsa.Body{GracePeriod: 120, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	router.OnLSDBInstall(LSA{Type: domain.LSTypeOpaqueLink, OpaqueType: gracelsa.OpaqueTypeGrace, Interface: iface, Body: gracelsa.Serialize(body)})

	router.OnLSDBInstall(LSA{Type: domain.LSTypeRouter, Interface: iface, Body: []byte{1, 2, 3}})
	router.OnLSDBInstall(LSA{Type: domain.LSTypeRouter, Interface: iface, Body: []byte{1, 2, 4}})

	if got := router.helper.Status(nbr); got != domain.NotHelping {
		t.Fatalf("helper status = %v, want NotHelping after topology change", got)
	}
	if len(host.Events.InactivityRaised) != 1 {
		t.Fatalf("expected inactivity timer raised once, got %v", host.Events.InactivityRaised)
	}
}

func TestLSDBChangeIgnoredWhenStrictCheckOff(t *testing.T) {
	router, _, iface, nbr := newFixture(t, true, false)
	body := gracelsa.Body{GracePeriod: 120, InterfaceAddress: domain.IPv4{10, 0, 0, 2}}
	router.OnLSDBInstall(LSA{Type: domain.LSTypeOpaqueLink, OpaqueType: gracelsa.OpaqueTypeGrace, Interface: iface, Body: gracelsa.Serialize(body)})

	router.OnLSDBInstall(LSA{Type: domain.LSTypeRouter, Interface: iface, Body: []byte{1, 2, 3}})
	router.OnLSDBInstall(LSA{Type: domain.LSTypeRouter, Interface: iface, Body: []byte{1, 2, 4}})

	if got := router.helper.Status(nbr); got != domain.Helping {
		t.Fatalf("helper status = %v, want still Helping (strict check off)", got)
	}
}

func TestISMAndNSMHooksDriveRestarting(t *testing.T) {
	router, _, iface, nbr := newFixtureRestarting(t, false, false, true)
	router.SetRestarting(true)

	router.OnISMChange(iface, domain.ISMPointToPoint)
	if got := router.restarting.Resume(iface); got != domain.ResumeInProgress {
		t.Fatalf("resume = %v, want InProgress", got)
	}

	router.OnNSMChange(nbr, domain.NSMFull)
	if got := router.restarting.Resume(iface); got != domain.ResumeOK {
		t.Fatalf("resume = %v, want OK after consistency check", got)
	}
}
