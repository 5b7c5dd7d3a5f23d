// Package domain holds the value types shared by the graceful restart
// state machines: router/interface/neighbor identifiers and the small
// enums that drive the C3 data model (spec.md §3).
package domain

import "fmt"

// RouterID is an OSPF router ID: a 32-bit value conventionally written and
// compared in IPv4 dotted-quad form.
type RouterID [4]byte

func (r RouterID) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", r[0], r[1], r[2], r[3])
}

func (r RouterID) Equal(o RouterID) bool { return r == o }

// IPv4 is a 4-byte IPv4 address, used for interface addresses and the
// Grace-LSA's Interface Address TLV.
type IPv4 [4]byte

func (a IPv4) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

func (a IPv4) Equal(o IPv4) bool { return a == o }

// InterfaceID identifies an interface local to this router. The host OSPF
// daemon owns the real interface objects; the GR subsystem only ever holds
// this opaque handle and resolves it back through ospfhost.
type InterfaceID uint32

// NeighborID identifies a neighbor adjacency local to one interface. Two
// neighbors on different interfaces never share a NeighborID even if they
// happen to advertise the same RouterID (e.g. through misconfiguration).
type NeighborID uint64

// AreaID is an OSPF area identifier, conventionally an IPv4-shaped value.
type AreaID [4]byte

func (a AreaID) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}
