// Package gracelsa implements C1: serialization and parsing of the
// Grace-LSA, an opaque link-scope LSA carrying the graceful restart grace
// period, restart reason, and originating interface address (spec.md §3,
// §4.1, §6).
package gracelsa

import (
	"encoding/binary"
	"fmt"

	"OSPFGraceRestart/internal/domain"
)

// Wire constants from spec.md §3/§6.
const (
	// LSAgeMax is OSPF's MaxAge in seconds; ages at or beyond this are
	// always "already expired" (spec.md §9 Open Question, resolved as an
	// unsigned comparison).
	LSAgeMax = 3600

	OpaqueTypeGrace = 3

	tlvGracePeriod      = 1
	tlvRestartReason    = 2
	tlvInterfaceAddress = 3

	tlvHeaderLen        = 4
	lenGracePeriod      = 4
	lenRestartReason    = 1
	lenInterfaceAddress = 4

	// ospfLSAHeaderLen is the fixed 20-byte OSPF LSA header size
	// subtracted from the declared LSA length to get the TLV body size.
	ospfLSAHeaderLen = 20

	// HeaderLen is ospfLSAHeaderLen, exported for callers (e.g. the LSDB
	// event hooks) that only ever have a TLV body in hand and need to
	// reconstruct a declared LSA length for Parse.
	HeaderLen = ospfLSAHeaderLen
)

// Body is the decoded content of a Grace-LSA: the three TLVs in any
// combination, unknown TLVs having already been skipped.
type Body struct {
	GracePeriod      uint32
	Reason           domain.RestartReason
	InterfaceAddress domain.IPv4
}

// Serialize encodes the three TLVs in the fixed order Grace Period,
// Restart Reason, Interface Address, each individually 4-byte-aligned, as
// spec.md §4.1 requires for the LSA body. It does not produce the OSPF
// LSA header; that is the host daemon's job (the opaque-LSA origination
// entry point in ospfhost).
func Serialize(b Body) []byte {
	out := make([]byte, 0, tlvHeaderLen+4+tlvHeaderLen+4+tlvHeaderLen+4)

	out = appendTLV(out, tlvGracePeriod, func(p []byte) []byte {
		return binary.BigEndian.AppendUint32(p, b.GracePeriod)
	})
	out = appendTLV(out, tlvRestartReason, func(p []byte) []byte {
		return append(p, byte(b.Reason))
	})
	out = appendTLV(out, tlvInterfaceAddress, func(p []byte) []byte {
		return append(p, b.InterfaceAddress[:]...)
	})
	return out
}

// appendTLV writes a TLV header followed by the payload produced by
// writePayload, then pads the payload to a 4-byte boundary with zeros.
func appendTLV(out []byte, tlvType uint16, writePayload func([]byte) []byte) []byte {
	start := len(out)
	out = binary.BigEndian.AppendUint16(out, tlvType)
	out = binary.BigEndian.AppendUint16(out, 0) // length placeholder
	payloadStart := len(out)
	out = writePayload(out)
	payloadLen := len(out) - payloadStart
	binary.BigEndian.PutUint16(out[start+2:start+4], uint16(payloadLen))

	padded := padded4(payloadLen)
	for i := payloadLen; i < padded; i++ {
		out = append(out, 0)
	}
	return out
}

func padded4(n int) int { return (n + 3) &^ 3 }

// Parse walks the TLVs in an LSA body of the given declared LSA length
// (the wire `length` field from the LSA header), stopping once the
// consumed byte count reaches length-ospfLSAHeaderLen. Unknown TLV types
// are skipped by their padded length. It never reads past body.
//
// Parse takes no LSA age: per spec.md §4.4 precondition 5 and §9, the
// caller checks the LSA's age with Expired (ages >= LSAgeMax are always
// expired); Parse only decodes the TLVs.
func Parse(body []byte, declaredLSALength int) (Body, error) {
	bodyLen := declaredLSALength - ospfLSAHeaderLen
	if bodyLen < 0 || bodyLen > len(body) {
		return Body{}, fmt.Errorf("%w: declared length %d inconsistent with body of %d bytes",
			domain.ErrMalformedGraceLSA, declaredLSALength, len(body))
	}
	body = body[:bodyLen]

	var out Body
	sum := 0
	for sum < bodyLen {
		if bodyLen-sum < tlvHeaderLen {
			return Body{}, fmt.Errorf("%w: truncated TLV header at offset %d", domain.ErrMalformedGraceLSA, sum)
		}
		tlvType := binary.BigEndian.Uint16(body[sum : sum+2])
		tlvLen := int(binary.BigEndian.Uint16(body[sum+2 : sum+4]))
		payloadStart := sum + tlvHeaderLen
		if tlvLen == 0 {
			return Body{}, fmt.Errorf("%w: zero-length TLV at offset %d", domain.ErrMalformedGraceLSA, sum)
		}
		if payloadStart+tlvLen > bodyLen {
			return Body{}, fmt.Errorf("%w: TLV at offset %d extends past declared length", domain.ErrMalformedGraceLSA, sum)
		}
		payload := body[payloadStart : payloadStart+tlvLen]

		switch tlvType {
		case tlvGracePeriod:
			if tlvLen != lenGracePeriod {
				return Body{}, fmt.Errorf("%w: grace period TLV has length %d, want %d", domain.ErrMalformedGraceLSA, tlvLen, lenGracePeriod)
			}
			out.GracePeriod = binary.BigEndian.Uint32(payload)
		case tlvRestartReason:
			if tlvLen != lenRestartReason {
				return Body{}, fmt.Errorf("%w: restart reason TLV has length %d, want %d", domain.ErrMalformedGraceLSA, tlvLen, lenRestartReason)
			}
			out.Reason = domain.RestartReason(payload[0])
		case tlvInterfaceAddress:
			if tlvLen != lenInterfaceAddress {
				return Body{}, fmt.Errorf("%w: interface address TLV has length %d, want %d", domain.ErrMalformedGraceLSA, tlvLen, lenInterfaceAddress)
			}
			copy(out.InterfaceAddress[:], payload)
		default:
			// unknown TLV type: skip, per spec.md §4.1
		}

		sum = payloadStart + padded4(tlvLen)
	}
	return out, nil
}

// Expired reports whether an LSA of the given age (seconds) should be
// treated as already expired relative to the advertised grace period, per
// invariant I5 and the unsigned-comparison resolution of spec.md §9: ages
// at or beyond OSPF's MaxAge are always expired regardless of the grace
// period advertised.
func Expired(lsAgeSeconds uint32, gracePeriod uint32) bool {
	if lsAgeSeconds >= LSAgeMax {
		return true
	}
	return lsAgeSeconds >= gracePeriod
}
