// Package events implements C7: the event plumbing that connects LSDB
// install/delete/change, ISM change, and NSM change hooks from the host
// OSPF daemon into the helper (C4), restarting (C5), and consistency
// (C6) components (spec.md §4.7).
package events

import (
	"OSPFGraceRestart/internal/consistency"
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gracelsa"
	"OSPFGraceRestart/internal/helper"
	"OSPFGraceRestart/internal/logger"
	"OSPFGraceRestart/internal/ospfhost"
	"OSPFGraceRestart/internal/restarting"
	"OSPFGraceRestart/internal/telemetry/grtrace"
)

// LSA is the minimal view of an installed or stored LSA the change hook
// needs: enough to test type, opaque-type, and content equality without
// the events package depending on a full LSDB record type.
type LSA struct {
	Type       domain.LSType
	OpaqueType int
	Interface  domain.InterfaceID
	Age        uint32 // LS age in seconds, as carried in the LSA header
	Body       []byte // opaque content, compared byte-for-byte for "differs"
}

const opaqueTypeGrace = gracelsa.OpaqueTypeGrace

// Router wires together one routing instance's helper, restarting, and
// consistency components and exposes the hook surface the host calls
// into.
type Router struct {
	host ospfhost.Host
	lgr  logger.Logger

	helper     *helper.Machine
	restarting *restarting.Machine

	helperEnable       bool
	strictLSACheck     bool
	instanceRestarting bool // mirrors instance.Restarting(), refreshed by caller via SetRestarting

	stored map[domain.InterfaceID]map[domain.LSType][]byte
}

// New creates the event router for one instance.
func New(host ospfhost.Host, lgr logger.Logger, h *helper.Machine, r *restarting.Machine, helperEnable, strictLSACheck bool) *Router {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	return &Router{
		host:           host,
		lgr:            lgr.Named("events"),
		helper:         h,
		restarting:     r,
		helperEnable:   helperEnable,
		strictLSACheck: strictLSACheck,
		stored:         make(map[domain.InterfaceID]map[domain.LSType][]byte),
	}
}

// SetRestarting updates whether the instance itself is currently
// restarting, consulted by the LSDB change hook (an instance never
// treats its own recovery as a helper-disrupting topology change).
func (r *Router) SetRestarting(v bool) { r.instanceRestarting = v }

// SetHelperEnable updates the helper_enable flag the LSDB change hook
// consults before driving a topology-change exit.
func (r *Router) SetHelperEnable(v bool) { r.helperEnable = v }

// SetStrictLSACheck updates the strict_lsa_check flag the LSDB change
// hook consults before driving a topology-change exit.
func (r *Router) SetStrictLSACheck(v bool) { r.strictLSACheck = v }

// OnLSDBInstall is the LSDB install hook. For Grace-LSAs it drives C4
// entry; for any other LSA in the Router..AS-NSSA range it records the
// content for the next change-hook comparison.
func (r *Router) OnLSDBInstall(lsa LSA) {
	if lsa.Type == domain.LSTypeOpaqueLink && lsa.OpaqueType == opaqueTypeGrace {
		r.onGraceLSAInstall(lsa)
		return
	}
	if lsa.Type.InRouterToASNSSARange() {
		r.onRouterToASNSSAChange(lsa)
	}
}

func (r *Router) onGraceLSAInstall(lsa LSA) {
	if !r.helperEnable {
		r.lgr.Debug("helper role disabled, Grace-LSA ignored", logger.F("interface", lsa.Interface))
		return
	}
	body, err := gracelsa.Parse(lsa.Body, len(lsa.Body)+gracelsa.HeaderLen)
	if err != nil {
		r.lgr.Warn("malformed Grace-LSA ignored", logger.F("interface", lsa.Interface), logger.F("error", err))
		return
	}
	out := r.helper.OnGraceLSAInstalled(lsa.Interface, body, lsa.Age)
	if !out.Accepted {
		r.lgr.Debug("helper entry rejected", logger.F("interface", lsa.Interface), logger.F("reason", out.Reason))
	}
}

// onRouterToASNSSAChange implements the LSDB change hook's strict-check
// branch (spec.md §4.7): when helper_enable and strict_lsa_check are both
// on, the instance is not itself restarting, and content differs from
// what was last stored, every currently-Helping neighbor is driven into
// C4 exit with reason TopologyChange.
func (r *Router) onRouterToASNSSAChange(lsa LSA) {
	byType := r.stored[lsa.Interface]
	if byType == nil {
		byType = make(map[domain.LSType][]byte)
		r.stored[lsa.Interface] = byType
	}
	prev, hadPrev := byType[lsa.Type]
	byType[lsa.Type] = lsa.Body

	if !r.helperEnable || !r.strictLSACheck || r.instanceRestarting {
		return
	}
	if hadPrev && bytesEqual(prev, lsa.Body) {
		return
	}
	r.helper.OnTopologyChange()
}

// OnLSDBDelete is the LSDB delete hook, filtered to Grace-LSAs (and to
// Grace-LSAs reaching MaxAge, which the host reports the same way).
func (r *Router) OnLSDBDelete(iface domain.InterfaceID, nbr domain.NeighborID, lsaType domain.LSType, opaqueType int) {
	if lsaType == domain.LSTypeOpaqueLink && opaqueType == opaqueTypeGrace {
		r.helper.OnGraceLSADeleted(nbr)
	}
}

// OnISMChange is the ISM change hook into C5.
func (r *Router) OnISMChange(iface domain.InterfaceID, state domain.ISMState) {
	if state.Operational() {
		r.restarting.OnISMOperational(iface)
		return
	}
	if state == domain.ISMDown {
		r.restarting.OnISMDown(iface)
	}
}

// OnNSMChange is the NSM change hook: into C5 (adjacency check
// scheduling) when the instance is restarting and the neighbor just
// reached Full.
func (r *Router) OnNSMChange(nbr domain.NeighborID, state domain.NSMState) {
	if state != domain.NSMFull || !r.restarting.ShouldCheckAdjacency() {
		return
	}
	info, ok := r.host.Neighbor(nbr)
	if !ok {
		return
	}
	result := consistency.Check(r.host, nbr)
	grtrace.ConsistencyCheck(info.RouterID.String(), result.String())()
	switch result {
	case domain.AdjOK:
		r.restarting.RaiseIntAdjComplete(info.Interface)
	case domain.AdjNOK:
		r.restarting.RaiseNbrInconsistent(info.Interface)
	case domain.AdjInProgress:
		// wait for more LSAs, per spec.md §4.6.
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
