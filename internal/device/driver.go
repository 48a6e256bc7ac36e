// Package device is the broker's boundary to the actual GPU driver. The
// broker never touches device memory or driver ioctls directly; it talks to
// a Driver, which Mock implements in-process for development and testing
// until a real driver binding is wired in.
package device

// InfoSelector mirrors the GET_INFO selectors of the wire protocol
// (package idm), kept as an independent type so this package does not
// depend on the wire format.
type InfoSelector uint32

const (
	InfoDeviceCount InfoSelector = iota
	InfoDeviceName
	InfoTotalMemory
	InfoFreeMemory
)

// Driver is the broker's view of the underlying device. Every method
// operates in terms of a device-local reference (an opaque uint64 the
// driver assigns on Alloc), never the wire handle a zone sees — that
// indirection is the handle table's job (package handletable).
type Driver interface {
	// Alloc reserves size bytes of device memory and returns a
	// driver-local reference to it.
	Alloc(size uint64, flags uint32) (ref uint64, err error)
	// Free releases a previously allocated reference.
	Free(ref uint64) error
	// CopyIn writes data into the allocation named by ref, starting at
	// offset.
	CopyIn(ref uint64, offset uint64, data []byte) error
	// CopyOut reads length bytes from the allocation named by ref,
	// starting at offset.
	CopyOut(ref uint64, offset, length uint64) ([]byte, error)
	// CopyDeviceToDevice copies size bytes from one allocation to
	// another, both within this driver's device.
	CopyDeviceToDevice(dstRef, dstOffset, srcRef, srcOffset, size uint64) error
	// Memset fills size bytes of the allocation named by ref, starting at
	// offset, with value.
	Memset(ref uint64, offset, size uint64, value byte) error
	// Sync blocks until all outstanding operations against the device
	// have completed.
	Sync(flags uint32) error
	// Info answers a GET_INFO query. scalar carries numeric results
	// (InfoTotalMemory, InfoFreeMemory, InfoDeviceCount); text carries
	// string results (InfoDeviceName).
	Info(selector InfoSelector) (scalar uint64, text string, err error)
}
