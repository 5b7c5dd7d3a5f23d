// Package ospfhost defines the collaboration surface the graceful restart
// core consumes from, and drives, the host OSPF daemon: neighbor and
// interface state queries, per-area LSDB access filtered by type, and
// Router-LSA/Network-LSA/Grace-LSA origination and flush. It has no
// opaque-LSA registration call; the host delivers LSDB and ISM/NSM changes
// by calling the hook methods of package events. Host
// OSPF owns packet parsing and transport, the full ISM/NSM, and the flood
// engine (out of scope here, per spec.md §1); the core only ever mutates
// the LSDB and neighbor tables through the operations below.
package ospfhost

import (
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gracelsa"
)

// RouterLSALink is one link entry of a Router-LSA, as needed by the
// Router-LSA test (spec.md §4.6).
type RouterLSALink struct {
	Type     domain.RouterLSALinkType
	LinkID   domain.RouterID // P2P: neighbor's router ID. Transit: the DR's router ID.
	LinkData domain.IPv4     // Transit: interface address on the subnet.
}

// RouterLSA is the subset of a Router-LSA's contents the consistency
// check reads.
type RouterLSA struct {
	AdvertisingRouter domain.RouterID
	Links             []RouterLSALink
}

// NetworkLSA is the subset of a Network-LSA's contents the consistency
// check reads. LinkStateID identifies the DR that originated it.
type NetworkLSA struct {
	LinkStateID     domain.RouterID
	AttachedRouters []domain.RouterID
}

// NeighborInfo is the neighbor state the helper and consistency checks
// need, resolved by the host from a NeighborID.
type NeighborInfo struct {
	RouterID    domain.RouterID
	Interface   domain.InterfaceID
	State       domain.NSMState
	Address     domain.IPv4 // the neighbor's address on the shared subnet
}

// Host is implemented by the OSPF daemon proper. The GR core calls it to
// read LSDB/neighbor state and to originate, re-originate, or flush LSAs;
// it never mutates the LSDB or neighbor tables directly.
type Host interface {
	// LocalRouterID returns this router's own router ID.
	LocalRouterID() domain.RouterID

	// NeighborByAddress resolves a neighbor on the given interface by its
	// address on the shared subnet, as carried in a Grace-LSA's
	// interface-address TLV (spec.md §4.4 precondition 3).
	NeighborByAddress(iface domain.InterfaceID, addr domain.IPv4) (domain.NeighborID, bool)

	// Neighbor returns the current state of a resolved neighbor.
	Neighbor(nbr domain.NeighborID) (NeighborInfo, bool)

	// NeighborTable lists the neighbors currently known on an interface,
	// used by the no-neighbor watchdog and the Network-LSA test.
	NeighborTable(iface domain.InterfaceID) []domain.NeighborID

	// RetransmitCounts returns the total number of LSAs on a neighbor's
	// link-state retransmission list and the count of those that are
	// self-originated, for helper entry precondition 7.
	RetransmitCounts(nbr domain.NeighborID) (total, self int)

	// CancelInactivityTimer cancels the neighbor's NSM inactivity timer,
	// run on successful helper entry.
	CancelInactivityTimer(nbr domain.NeighborID)

	// RaiseNSMInactivityTimer schedules an NSM InactivityTimer event on
	// the neighbor, tearing the adjacency down as if it had gone silent.
	RaiseNSMInactivityTimer(nbr domain.NeighborID)

	// RaiseISMNeighborChange schedules an ISM NeighborChange event on the
	// interface.
	RaiseISMNeighborChange(iface domain.InterfaceID)

	// InterfaceArea returns the area an interface belongs to.
	InterfaceArea(iface domain.InterfaceID) domain.AreaID

	// InterfaceAddress returns this router's own address on the
	// interface.
	InterfaceAddress(iface domain.InterfaceID) domain.IPv4

	// InterfaceDR reports the router ID of the interface's elected DR,
	// and whether one is currently elected.
	InterfaceDR(iface domain.InterfaceID) (domain.RouterID, bool)

	// IsDR reports whether this router is itself the DR on the
	// interface.
	IsDR(iface domain.InterfaceID) bool

	// SelfRouterLSA returns this router's own, currently-installed
	// Router-LSA for an area.
	SelfRouterLSA(area domain.AreaID) (RouterLSA, bool)

	// RouterLSAsByAdvertisingRouter lists Router-LSAs in the area
	// advertised by the given router, for the Router-LSA test.
	RouterLSAsByAdvertisingRouter(area domain.AreaID, router domain.RouterID) []RouterLSA

	// NetworkLSAsByLinkStateID lists Network-LSAs in the area whose
	// link-state ID equals the given router ID, for the Network-LSA
	// test.
	NetworkLSAsByLinkStateID(area domain.AreaID, router domain.RouterID) []NetworkLSA

	// OriginateGraceLSA (re-)originates a Grace-LSA on the interface with
	// the given body.
	OriginateGraceLSA(iface domain.InterfaceID, body gracelsa.Body) error

	// FlushGraceLSA re-originates the interface's self Grace-LSA with
	// age = MaxAge, signalling helpers that the restart is over.
	FlushGraceLSA(iface domain.InterfaceID) error

	// OriginateRouterLSA triggers re-origination of this router's
	// Router-LSA for an area.
	OriginateRouterLSA(area domain.AreaID) error

	// OriginateNetworkLSA triggers re-origination of the Network-LSA for
	// an interface this router is DR on.
	OriginateNetworkLSA(iface domain.InterfaceID) error

	// FlushNetworkLSA re-originates, with age = MaxAge, a previously
	// self-originated Network-LSA for an interface this router is no
	// longer DR on.
	FlushNetworkLSA(iface domain.InterfaceID) error
}
