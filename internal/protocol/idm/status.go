package idm

// ErrorKind is the closed taxonomy of IDM error kinds carried in ERROR
// responses (spec.md §7). Ownership violations are deliberately mapped to
// ErrorKindInvalidHandle rather than a distinct "forbidden" code, so a
// tenant cannot distinguish "not yours" from "doesn't exist" — see
// package handletable for the enforcement point.
type ErrorKind uint32

const (
	ErrorKindNone             ErrorKind = 0
	ErrorKindInvalidFrame     ErrorKind = 1
	ErrorKindInvalidHandle    ErrorKind = 2
	ErrorKindPermissionDenied ErrorKind = 3 // reserved; current ownership violations use InvalidHandle
	ErrorKindOutOfMemory      ErrorKind = 4
	ErrorKindInvalidSize      ErrorKind = 5
	ErrorKindTimedOut         ErrorKind = 6
	ErrorKindConnectionLost   ErrorKind = 7
	ErrorKindDeviceError      ErrorKind = 8
	ErrorKindUnknown          ErrorKind = 99
)

// String returns the wire name of k.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNone:
		return "None"
	case ErrorKindInvalidFrame:
		return "InvalidFrame"
	case ErrorKindInvalidHandle:
		return "InvalidHandle"
	case ErrorKindPermissionDenied:
		return "PermissionDenied"
	case ErrorKindOutOfMemory:
		return "OutOfMemory"
	case ErrorKindInvalidSize:
		return "InvalidSize"
	case ErrorKindTimedOut:
		return "TimedOut"
	case ErrorKindConnectionLost:
		return "ConnectionLost"
	case ErrorKindDeviceError:
		return "DeviceError"
	default:
		return "Unknown"
	}
}
