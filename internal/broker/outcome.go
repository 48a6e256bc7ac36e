package broker

import "github.com/nyxgate/idmbroker/internal/protocol/idm"

// Outcome is a handler's result, independent of how it gets encoded onto
// the wire. The dispatcher turns a successful Outcome into an OK frame and
// a Failure into an ERROR frame.
type Outcome struct {
	ResultHandle uint64
	ResultScalar uint64
	InlineData   []byte
}

// Failure is a handler's error result, carrying the same information the
// wire ERROR response does.
type Failure struct {
	Kind       idm.ErrorKind
	DriverCode int32
	Message    string
}

func (f *Failure) Error() string {
	return f.Message
}

// fail constructs a *Failure, satisfying the error interface so handlers
// can return it directly as their error value.
func fail(kind idm.ErrorKind, driverCode int32, message string) *Failure {
	return &Failure{Kind: kind, DriverCode: driverCode, Message: message}
}

// inBounds reports whether [offset, offset+size) fits within
// [0, allocSize), per spec.md §3 invariant 5. It is written to never
// compute offset+size, so a request crafted to overflow that sum (e.g.
// offset = math.MaxUint64) is rejected rather than wrapping around to a
// small value that would pass a naive offset+size <= allocSize check.
func inBounds(offset, size, allocSize uint64) bool {
	if size > allocSize {
		return false
	}
	return offset <= allocSize-size
}
