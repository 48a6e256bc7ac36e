package idm

import "errors"

// Sentinel framing errors, returned by header/payload parsing. These are
// Go-side parse errors; ErrorKindInvalidFrame (see status.go) is the wire
// representation a tenant sees when one of these causes a request to fail.
var (
	ErrMessageTooShort  = errors.New("idm: message shorter than header")
	ErrInvalidMagic     = errors.New("idm: invalid protocol magic")
	ErrInvalidVersion   = errors.New("idm: unsupported protocol version")
	ErrPayloadTooLarge  = errors.New("idm: payload length exceeds slot capacity")
	ErrPayloadTruncated = errors.New("idm: payload shorter than declared fields")
	ErrUnknownKind      = errors.New("idm: unknown message kind")
	ErrInlineLenMismatch = errors.New("idm: inline data length does not match declared size")
)
