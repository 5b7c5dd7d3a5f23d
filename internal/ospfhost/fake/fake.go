// Package fake provides an in-memory double of ospfhost.Host for the
// graceful restart state-machine unit tests and the cmd/grsim scenario
// runner. It is test-only: no concurrency guarantees are provided, since
// every caller in this repository runs it from the single-threaded event
// loop (spec.md §5).
package fake

import (
	"OSPFGraceRestart/internal/domain"
	"OSPFGraceRestart/internal/gracelsa"
	"OSPFGraceRestart/internal/logger"
	"OSPFGraceRestart/internal/ospfhost"
)

type neighborEntry struct {
	info         ospfhost.NeighborInfo
	retransTotal int
	retransSelf  int
	inactivity   bool // inactivity timer currently armed
}

type interfaceEntry struct {
	area      domain.AreaID
	address   domain.IPv4
	dr        domain.RouterID
	hasDR     bool
	neighbors []domain.NeighborID
}

// Host is the in-memory ospfhost.Host double. Zero value is not usable;
// construct with New.
type Host struct {
	lgr logger.Logger

	self domain.RouterID

	interfaces map[domain.InterfaceID]*interfaceEntry
	neighbors  map[domain.NeighborID]*neighborEntry

	selfRouterLSA map[domain.AreaID]ospfhost.RouterLSA
	routerLSAs    map[domain.AreaID]map[domain.RouterID][]ospfhost.RouterLSA
	networkLSAs   map[domain.AreaID][]ospfhost.NetworkLSA

	graceLSAs map[domain.InterfaceID]gracelsa.Body

	// Events records calls the core made back into the host, for test
	// assertions. Each slice grows monotonically; tests read it, never
	// reset it mid-scenario.
	Events Log
}

// Log accumulates observable calls made against a Host double.
type Log struct {
	InactivityRaised     []domain.NeighborID
	NeighborChangeRaised []domain.InterfaceID
	GraceOriginated      []domain.InterfaceID
	GraceFlushed         []domain.InterfaceID
	RouterLSAOriginated  []domain.AreaID
	NetworkLSAOriginated []domain.InterfaceID
	NetworkLSAFlushed    []domain.InterfaceID
}

// New creates an empty Host double for router self.
func New(lgr logger.Logger, self domain.RouterID) *Host {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	return &Host{
		lgr:           lgr,
		self:          self,
		interfaces:    make(map[domain.InterfaceID]*interfaceEntry),
		neighbors:     make(map[domain.NeighborID]*neighborEntry),
		selfRouterLSA: make(map[domain.AreaID]ospfhost.RouterLSA),
		routerLSAs:    make(map[domain.AreaID]map[domain.RouterID][]ospfhost.RouterLSA),
		networkLSAs:   make(map[domain.AreaID][]ospfhost.NetworkLSA),
		graceLSAs:     make(map[domain.InterfaceID]gracelsa.Body),
	}
}

// --- scenario setup, not part of ospfhost.Host ---

// AddInterface registers an interface with its area and self address.
func (h *Host) AddInterface(iface domain.InterfaceID, area domain.AreaID, addr domain.IPv4) {
	h.interfaces[iface] = &interfaceEntry{area: area, address: addr}
}

// SetDR sets (or clears, with ok=false) the DR elected on an interface.
func (h *Host) SetDR(iface domain.InterfaceID, dr domain.RouterID, ok bool) {
	e := h.interfaces[iface]
	e.dr, e.hasDR = dr, ok
}

// AddNeighbor registers a neighbor on an interface with a starting NSM
// state, and returns its assigned NeighborID.
func (h *Host) AddNeighbor(iface domain.InterfaceID, router domain.RouterID, addr domain.IPv4, state domain.NSMState) domain.NeighborID {
	id := domain.NeighborID(len(h.neighbors) + 1)
	h.neighbors[id] = &neighborEntry{info: ospfhost.NeighborInfo{
		RouterID:  router,
		Interface: iface,
		State:     state,
		Address:   addr,
	}}
	e := h.interfaces[iface]
	e.neighbors = append(e.neighbors, id)
	return id
}

// SetNeighborState updates a neighbor's NSM state.
func (h *Host) SetNeighborState(nbr domain.NeighborID, state domain.NSMState) {
	h.neighbors[nbr].info.State = state
}

// SetRetransmitCounts sets the retransmit-list counts a neighbor reports.
func (h *Host) SetRetransmitCounts(nbr domain.NeighborID, total, self int) {
	h.neighbors[nbr].retransTotal = total
	h.neighbors[nbr].retransSelf = self
}

// SetSelfRouterLSA installs this router's own Router-LSA for an area.
func (h *Host) SetSelfRouterLSA(area domain.AreaID, lsa ospfhost.RouterLSA) {
	h.selfRouterLSA[area] = lsa
}

// AddRouterLSA installs a (possibly non-self) Router-LSA in an area's
// LSDB, indexed by its advertising router.
func (h *Host) AddRouterLSA(area domain.AreaID, lsa ospfhost.RouterLSA) {
	if h.routerLSAs[area] == nil {
		h.routerLSAs[area] = make(map[domain.RouterID][]ospfhost.RouterLSA)
	}
	h.routerLSAs[area][lsa.AdvertisingRouter] = append(h.routerLSAs[area][lsa.AdvertisingRouter], lsa)
}

// AddNetworkLSA installs a Network-LSA in an area's LSDB.
func (h *Host) AddNetworkLSA(area domain.AreaID, lsa ospfhost.NetworkLSA) {
	h.networkLSAs[area] = append(h.networkLSAs[area], lsa)
}

// GraceLSA returns the most recently originated Grace-LSA body for an
// interface, for test assertions.
func (h *Host) GraceLSA(iface domain.InterfaceID) (gracelsa.Body, bool) {
	b, ok := h.graceLSAs[iface]
	return b, ok
}

// --- ospfhost.Host ---

func (h *Host) LocalRouterID() domain.RouterID { return h.self }

func (h *Host) NeighborByAddress(iface domain.InterfaceID, addr domain.IPv4) (domain.NeighborID, bool) {
	e, ok := h.interfaces[iface]
	if !ok {
		return 0, false
	}
	for _, id := range e.neighbors {
		if h.neighbors[id].info.Address.Equal(addr) {
			return id, true
		}
	}
	return 0, false
}

func (h *Host) Neighbor(nbr domain.NeighborID) (ospfhost.NeighborInfo, bool) {
	e, ok := h.neighbors[nbr]
	if !ok {
		return ospfhost.NeighborInfo{}, false
	}
	return e.info, true
}

func (h *Host) NeighborTable(iface domain.InterfaceID) []domain.NeighborID {
	e, ok := h.interfaces[iface]
	if !ok {
		return nil
	}
	out := make([]domain.NeighborID, len(e.neighbors))
	copy(out, e.neighbors)
	return out
}

func (h *Host) RetransmitCounts(nbr domain.NeighborID) (int, int) {
	e, ok := h.neighbors[nbr]
	if !ok {
		return 0, 0
	}
	return e.retransTotal, e.retransSelf
}

func (h *Host) CancelInactivityTimer(nbr domain.NeighborID) {
	if e, ok := h.neighbors[nbr]; ok {
		e.inactivity = false
	}
}

func (h *Host) RaiseNSMInactivityTimer(nbr domain.NeighborID) {
	h.Events.InactivityRaised = append(h.Events.InactivityRaised, nbr)
	if e, ok := h.neighbors[nbr]; ok {
		e.info.State = domain.NSMDown
	}
}

func (h *Host) RaiseISMNeighborChange(iface domain.InterfaceID) {
	h.Events.NeighborChangeRaised = append(h.Events.NeighborChangeRaised, iface)
}

func (h *Host) InterfaceArea(iface domain.InterfaceID) domain.AreaID {
	return h.interfaces[iface].area
}

func (h *Host) InterfaceAddress(iface domain.InterfaceID) domain.IPv4 {
	return h.interfaces[iface].address
}

func (h *Host) InterfaceDR(iface domain.InterfaceID) (domain.RouterID, bool) {
	e := h.interfaces[iface]
	return e.dr, e.hasDR
}

func (h *Host) IsDR(iface domain.InterfaceID) bool {
	e := h.interfaces[iface]
	return e.hasDR && e.dr.Equal(h.self)
}

func (h *Host) SelfRouterLSA(area domain.AreaID) (ospfhost.RouterLSA, bool) {
	l, ok := h.selfRouterLSA[area]
	return l, ok
}

func (h *Host) RouterLSAsByAdvertisingRouter(area domain.AreaID, router domain.RouterID) []ospfhost.RouterLSA {
	return h.routerLSAs[area][router]
}

func (h *Host) NetworkLSAsByLinkStateID(area domain.AreaID, router domain.RouterID) []ospfhost.NetworkLSA {
	var out []ospfhost.NetworkLSA
	for _, n := range h.networkLSAs[area] {
		if n.LinkStateID.Equal(router) {
			out = append(out, n)
		}
	}
	return out
}

func (h *Host) OriginateGraceLSA(iface domain.InterfaceID, body gracelsa.Body) error {
	h.graceLSAs[iface] = body
	h.Events.GraceOriginated = append(h.Events.GraceOriginated, iface)
	h.lgr.Debug("fake: originated Grace-LSA", logger.F("interface", iface))
	return nil
}

func (h *Host) FlushGraceLSA(iface domain.InterfaceID) error {
	delete(h.graceLSAs, iface)
	h.Events.GraceFlushed = append(h.Events.GraceFlushed, iface)
	return nil
}

func (h *Host) OriginateRouterLSA(area domain.AreaID) error {
	h.Events.RouterLSAOriginated = append(h.Events.RouterLSAOriginated, area)
	return nil
}

func (h *Host) OriginateNetworkLSA(iface domain.InterfaceID) error {
	h.Events.NetworkLSAOriginated = append(h.Events.NetworkLSAOriginated, iface)
	return nil
}

func (h *Host) FlushNetworkLSA(iface domain.InterfaceID) error {
	h.Events.NetworkLSAFlushed = append(h.Events.NetworkLSAFlushed, iface)
	return nil
}
