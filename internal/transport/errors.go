package transport

import "errors"

var (
	// ErrRingFull is returned by Ring.Push when the consumer has not drained
	// enough slots to accept another frame.
	ErrRingFull = errors.New("transport: ring buffer full")
	// ErrRingEmpty is returned by Ring.Pop when there is nothing to read.
	ErrRingEmpty = errors.New("transport: ring buffer empty")
	// ErrFrameTooLarge is returned by Ring.Push when a frame exceeds the
	// ring's slot size.
	ErrFrameTooLarge = errors.New("transport: frame exceeds ring slot size")
	// ErrBadRingHeader is returned by OpenRing when the backing region does
	// not carry a valid ring header (wrong magic, inconsistent slot geometry,
	// or a region too small to hold SlotCount*SlotSize bytes).
	ErrBadRingHeader = errors.New("transport: invalid ring header")
	// ErrRegionTooSmall is returned by NewRing when the caller-supplied
	// region cannot hold the requested slot geometry.
	ErrRegionTooSmall = errors.New("transport: backing region too small for requested geometry")
	// ErrConnectionClosed is returned by Connection methods after Close.
	ErrConnectionClosed = errors.New("transport: connection closed")
	// ErrZoneUnknown is returned by a Backend when asked to connect to a
	// zone it has no shared-memory region provisioned for.
	ErrZoneUnknown = errors.New("transport: unknown zone")
)
