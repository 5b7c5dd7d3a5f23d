package restarting

import (
	"testing"
	"time"

	"OSPFGraceRestart/internal/clock"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/grinfo"
	"OSPFGraceRestart/internal/grloop"
	"OSPFGraceRestart/internal/ospfhost/fake"
)

func newFixture(t *testing.T) (*Machine, *fake.Host, domain.InterfaceID, *clock.Virtual, *grinfo.Instance) {
	t.Helper()
	vc := clock.NewVirtual(time.Unix(2000, 0))
	self := domain.RouterID{1, 1, 1, 1}
	host := fake.New(nil, self)
	iface := domain.InterfaceID(1)
	area := domain.AreaID{0, 0, 0, 0}
	host.AddInterface(iface, area, domain.IPv4{10, 0, 0, 1})

	flag := &grinfo.RestartFlag{}
	flag.Set()
	inst := grinfo.NewInstance(vc, grloop.Sync{}, true, false, true, false)
	m := New(host, nil, vc, grloop.Sync{}, flag, inst, 40*time.Second, 10*time.Second, domain.ReasonSoftwareRestart)
	m.Start(120 * time.Second)
	return m, host, iface, vc, inst
}

// Scenario 4: restarter with a single non-DR interface, consistent
// adjacency — the instance completes cleanly once the interface is
// declared OK.
func TestRestarterCompletesOnConsistentAdjacency(t *testing.T) {
	m, host, iface, vc, inst := newFixture(t)

	m.OnISMOperational(iface)
	if got := m.Resume(iface); got != domain.ResumeInProgress {
		t.Fatalf("resume = %v, want InProgress", got)
	}
	if _, ok := host.GraceLSA(iface); !ok {
		t.Fatalf("expected Grace-LSA originated on interface up")
	}

	m.RaiseIntAdjComplete(iface)
	if got := m.Resume(iface); got != domain.ResumeOK {
		t.Fatalf("resume = %v, want OK", got)
	}

	vc.Advance(10 * time.Second) // monitor tick

	if inst.Status != domain.NotRestart {
		t.Fatalf("instance status = %v, want NotRestart", inst.Status)
	}
	if inst.ExitReason != domain.ExitCompleted {
		t.Fatalf("exit reason = %v, want Completed", inst.ExitReason)
	}
	if len(host.Events.GraceFlushed) != 1 {
		t.Fatalf("expected Grace-LSA flushed by exit task, got %v", host.Events.GraceFlushed)
	}
	if len(host.Events.NetworkLSAFlushed) != 1 {
		t.Fatalf("expected Network-LSA flushed (no DR elected), got %v", host.Events.NetworkLSAFlushed)
	}
}

// Scenario 5: restarter where the neighbor never reaches Full before the
// grace timer expires.
func TestRestarterTimesOutWhenGraceExpires(t *testing.T) {
	m, host, iface, vc, inst := newFixture(t)
	host.AddNeighbor(iface, domain.RouterID{2, 2, 2, 2}, domain.IPv4{10, 0, 0, 2}, domain.NSMTwoWay)

	m.OnISMOperational(iface)
	vc.Advance(120 * time.Second)

	if got := m.Resume(iface); got != domain.ResumeNOK {
		t.Fatalf("resume = %v, want NOK after grace expiry", got)
	}
	if inst.ExitReason != domain.ExitTimeout {
		t.Fatalf("exit reason = %v, want Timeout", inst.ExitReason)
	}
	if len(host.Events.NetworkLSAFlushed) != 1 {
		t.Fatalf("expected Network-LSA flushed on timeout exit, got %v", host.Events.NetworkLSAFlushed)
	}
}

// Scenario 6: the router is DR on the interface and a Network-LSA
// inconsistency is detected, driving the interface to NOK and the
// instance exit reason to TopologyChange.
func TestRestarterHandlesNetworkLSAInconsistency(t *testing.T) {
	m, host, iface, vc, inst := newFixture(t)
	host.SetDR(iface, domain.RouterID{1, 1, 1, 1}, true)

	m.OnISMOperational(iface)
	m.RaiseNbrInconsistent(iface)

	if got := m.Resume(iface); got != domain.ResumeNOK {
		t.Fatalf("resume = %v, want NOK", got)
	}
	if inst.ExitReason != domain.ExitTopologyChange {
		t.Fatalf("exit reason = %v, want TopologyChange", inst.ExitReason)
	}

	vc.Advance(10 * time.Second)
	if len(host.Events.NetworkLSAOriginated) != 1 {
		t.Fatalf("expected Network-LSA re-originated (DR elected) on exit, got %v", host.Events.NetworkLSAOriginated)
	}
}

func TestNoNeighborWatchdogFiresNOK(t *testing.T) {
	m, _, iface, vc, _ := newFixture(t)

	m.OnISMOperational(iface)
	vc.Advance(81 * time.Second) // 2*deadInterval = 80s

	if got := m.Resume(iface); got != domain.ResumeNOK {
		t.Fatalf("resume = %v, want NOK after no-neighbor watchdog", got)
	}
}
