package gracelsa

import (
	"testing"

	"OSPFGraceRestart/internal/domain"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	cases := []Body{
		{GracePeriod: 0, Reason: domain.ReasonUnknown, InterfaceAddress: domain.IPv4{0, 0, 0, 0}},
		{GracePeriod: 120, Reason: domain.ReasonSoftwareRestart, InterfaceAddress: domain.IPv4{10, 0, 0, 1}},
		{GracePeriod: 1800, Reason: domain.ReasonSwitchover, InterfaceAddress: domain.IPv4{192, 168, 1, 254}},
		{GracePeriod: 0xFFFFFFFF, Reason: domain.ReasonSoftwareReload, InterfaceAddress: domain.IPv4{255, 255, 255, 255}},
	}

	for _, c := range cases {
		body := Serialize(c)
		got, err := Parse(body, len(body)+ospfLSAHeaderLen)
		if err != nil {
			t.Fatalf("Parse(%+v) failed: %v", c, err)
		}
		if got != c {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
		}
	}
}

func TestSerializeProducesAlignedTLVs(t *testing.T) {
	body := Serialize(Body{GracePeriod: 60, Reason: domain.ReasonSoftwareRestart, InterfaceAddress: domain.IPv4{1, 2, 3, 4}})
	if len(body)%4 != 0 {
		t.Fatalf("serialized body not 4-byte aligned: %d bytes", len(body))
	}
	// Restart Reason TLV payload is 1 byte, padded to 4.
	wantLen := (tlvHeaderLen + 4) + (tlvHeaderLen + 4) + (tlvHeaderLen + 4)
	if len(body) != wantLen {
		t.Fatalf("unexpected serialized length: got %d, want %d", len(body), wantLen)
	}
}

func TestParseUnknownTLVIsSkipped(t *testing.T) {
	body := Serialize(Body{GracePeriod: 30, Reason: domain.ReasonSwitchover, InterfaceAddress: domain.IPv4{7, 7, 7, 7}})

	// Prepend an unknown TLV (type 99, 4-byte payload) before the known ones.
	unknown := []byte{0, 99, 0, 4, 0xDE, 0xAD, 0xBE, 0xEF}
	full := append(append([]byte{}, unknown...), body...)

	got, err := Parse(full, len(full)+ospfLSAHeaderLen)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Body{GracePeriod: 30, Reason: domain.ReasonSwitchover, InterfaceAddress: domain.IPv4{7, 7, 7, 7}}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseRejectsTruncatedTLV(t *testing.T) {
	body := []byte{0, 1, 0, 4, 0, 0} // claims 4-byte payload, only 2 present
	if _, err := Parse(body, len(body)+ospfLSAHeaderLen); err == nil {
		t.Fatal("expected error for truncated TLV, got nil")
	}
}

func TestParseRejectsZeroLengthTLV(t *testing.T) {
	body := []byte{0, 1, 0, 0}
	if _, err := Parse(body, len(body)+ospfLSAHeaderLen); err == nil {
		t.Fatal("expected error for zero-length TLV, got nil")
	}
}

func TestExpired(t *testing.T) {
	if Expired(59, 60) {
		t.Fatal("age 59 < grace period 60 should not be expired")
	}
	if !Expired(60, 60) {
		t.Fatal("age 60 >= grace period 60 should be expired")
	}
	if !Expired(LSAgeMax, 1800) {
		t.Fatal("age at MaxAge should always be expired regardless of grace period")
	}
}
