// Package consistency implements C6: the adjacency consistency check run
// against a neighbor's Router-LSA and, for DR-elected interfaces, its
// Network-LSA, once the neighbor reaches Full during a restart
// (spec.md §4.6).
package consistency

import (
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/ospfhost"
)

// Check runs the consistency check for a neighbor that just reached
// Full and returns the result. It raises no event itself: the caller
// turns AdjOK into IntAdjComplete and AdjNOK into NbrInconsistent on the
// restarting machine, and does nothing for AdjInProgress ("wait for more
// LSAs", spec.md §4.6).
func Check(host ospfhost.Host, nbr domain.NeighborID) domain.AdjCheckResult {
	info, ok := host.Neighbor(nbr)
	if !ok {
		return domain.AdjNOK
	}
	area := host.InterfaceArea(info.Interface)

	if host.IsDR(info.Interface) {
		return checkAsDR(host, area, info)
	}
	return routerLSATest(host, area, info)
}

func checkAsDR(host ospfhost.Host, area domain.AreaID, info ospfhost.NeighborInfo) domain.AdjCheckResult {
	if _, ok := host.SelfRouterLSA(area); !ok {
		return domain.AdjNOK
	}
	// Unlike the non-DR path, a non-OK router-LSA test here does not end
	// the check: ospf_gr.c's DR branch only ever acts on OSPF_GR_ADJ_OK
	// from the router-LSA test, leaving AdjNOK/AdjInProgress to mean
	// "wait for more LSAs" rather than "inconsistent".
	if result := routerLSATest(host, area, info); result != domain.AdjOK {
		return domain.AdjInProgress
	}
	return networkLSATest(host, area, info)
}

// routerLSATest scans Router-LSAs advertised by the neighbor's router ID
// (spec.md §4.6). If none is found, the relationship cannot be
// disproven and the test returns AdjOK.
func routerLSATest(host ospfhost.Host, area domain.AreaID, info ospfhost.NeighborInfo) domain.AdjCheckResult {
	lsas := host.RouterLSAsByAdvertisingRouter(area, info.RouterID)
	if len(lsas) == 0 {
		return domain.AdjOK
	}
	self, hasSelf := host.SelfRouterLSA(area)
	dr, hasDR := host.InterfaceDR(info.Interface)
	local := host.LocalRouterID()

	for _, lsa := range lsas {
		for _, link := range lsa.Links {
			switch link.Type {
			case domain.LinkPointToPoint:
				if !link.LinkID.Equal(local) {
					continue
				}
				if hasSelf && selfHasP2PLinkTo(self, info.RouterID) {
					return domain.AdjOK
				}
				return domain.AdjNOK
			case domain.LinkTransit:
				if !link.LinkData.Equal(info.Address) {
					continue
				}
				if hasDR && link.LinkID.Equal(dr) {
					return domain.AdjOK
				}
				return domain.AdjNOK
			}
		}
	}
	return domain.AdjOK
}

func selfHasP2PLinkTo(self ospfhost.RouterLSA, neighbor domain.RouterID) bool {
	for _, link := range self.Links {
		if link.Type == domain.LinkPointToPoint && link.LinkID.Equal(neighbor) {
			return true
		}
	}
	return false
}

// networkLSATest inspects Network-LSAs this router once originated as DR
// (link-state ID == our own router ID), per spec.md §4.6.
func networkLSATest(host ospfhost.Host, area domain.AreaID, info ospfhost.NeighborInfo) domain.AdjCheckResult {
	local := host.LocalRouterID()
	lsas := host.NetworkLSAsByLinkStateID(area, local)
	if len(lsas) == 0 {
		return domain.AdjInProgress
	}

	table := host.NeighborTable(info.Interface)
	for _, lsa := range lsas {
		matchCount := 0
		matchFound := false
		for _, attached := range lsa.AttachedRouters {
			if attached.Equal(info.RouterID) {
				matchFound = true
			}
			for _, nbr := range table {
				if n, ok := host.Neighbor(nbr); ok && n.RouterID.Equal(attached) {
					matchCount++
					break
				}
			}
		}
		switch {
		case matchCount == len(lsa.AttachedRouters):
			return domain.AdjOK
		case !matchFound:
			return domain.AdjNOK
		default:
			return domain.AdjInProgress
		}
	}
	return domain.AdjInProgress
}
