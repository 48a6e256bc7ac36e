package device

import "errors"

var (
	// ErrOutOfMemory is returned by Driver.Alloc when the device has no
	// room for the requested size.
	ErrOutOfMemory = errors.New("device: out of memory")
	// ErrInvalidSize is returned by Driver.Alloc when the requested size is
	// zero.
	ErrInvalidSize = errors.New("device: invalid size")
	// ErrOutOfBounds is returned by Copy/Memset when an offset+length
	// would read or write past the end of the named allocation, or when
	// the named reference is unknown (Free wraps it for an unknown ref).
	ErrOutOfBounds = errors.New("device: access out of bounds")
	// ErrDeviceFailure represents an opaque lower-level driver failure,
	// carried to the client as ErrorKindDeviceError. No driver-native code
	// accompanies it: the ERROR response's DriverCode is 0.
	ErrDeviceFailure = errors.New("device: driver failure")
)
