package handletable

import "time"

// Handle is an opaque allocation identifier returned to a zone by ALLOC and
// consumed by FREE, COPY_*, and MEMSET.
type Handle uint64

// Record is the broker-side bookkeeping for one live allocation.
type Record struct {
	Handle      Handle
	OwnerZone   uint32
	DeviceRef   uint64 // device/driver-local allocation identifier
	Size        uint64
	Flags       uint32
	CreatedAt   time.Time
}
