package domain

import "errors"

// Error kinds from spec.md §7. These are never returned to the packet
// path: they are absorbed into local state transitions and logs.
var (
	// ErrMalformedGraceLSA is returned by the codec when a TLV extends
	// past the declared LSA length or has zero length.
	ErrMalformedGraceLSA = errors.New("malformed grace-lsa")

	// ErrPersistentMarkerIO is returned on marker file read/write failure.
	// It does not prevent forwarding; GR simply cannot proceed.
	ErrPersistentMarkerIO = errors.New("persistent marker i/o failure")

	// ErrRegistrationFailed names a failure to register the opaque-LSA
	// function table at init. No code path in this module returns it:
	// ospfhost.Host has no registration call.
	ErrRegistrationFailed = errors.New("opaque-lsa registration failed")
)
