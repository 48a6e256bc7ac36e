package device

import (
	"fmt"
	"sync"
)

// Mock is an in-process Driver simulating a single GPU with a fixed memory
// budget. It backs each allocation with a plain byte slice; useful for
// development and for tests that need device semantics (bounds checking,
// memory accounting) without real hardware.
type Mock struct {
	mu        sync.Mutex
	name      string
	total     uint64
	allocated uint64
	nextRef   uint64
	regions   map[uint64][]byte
}

// NewMock returns a Mock simulating a device named name with totalMemory
// bytes of capacity.
func NewMock(name string, totalMemory uint64) *Mock {
	return &Mock{
		name:    name,
		total:   totalMemory,
		nextRef: 1,
		regions: make(map[uint64][]byte),
	}
}

func (m *Mock) Alloc(size uint64, flags uint32) (uint64, error) {
	if size == 0 {
		return 0, ErrInvalidSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.allocated+size > m.total {
		return 0, ErrOutOfMemory
	}
	ref := m.nextRef
	m.nextRef++
	m.regions[ref] = make([]byte, size)
	m.allocated += size
	return ref, nil
}

func (m *Mock) Free(ref uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	region, ok := m.regions[ref]
	if !ok {
		return fmt.Errorf("device: free unknown ref %d: %w", ref, ErrOutOfBounds)
	}
	m.allocated -= uint64(len(region))
	delete(m.regions, ref)
	return nil
}

func (m *Mock) CopyIn(ref uint64, offset uint64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	region, ok := m.regions[ref]
	if !ok {
		return ErrOutOfBounds
	}
	if !regionFits(offset, uint64(len(data)), uint64(len(region))) {
		return ErrOutOfBounds
	}
	copy(region[offset:], data)
	return nil
}

func (m *Mock) CopyOut(ref uint64, offset, length uint64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	region, ok := m.regions[ref]
	if !ok {
		return nil, ErrOutOfBounds
	}
	if !regionFits(offset, length, uint64(len(region))) {
		return nil, ErrOutOfBounds
	}
	out := make([]byte, length)
	copy(out, region[offset:offset+length])
	return out, nil
}

func (m *Mock) CopyDeviceToDevice(dstRef, dstOffset, srcRef, srcOffset, size uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dst, ok := m.regions[dstRef]
	if !ok {
		return ErrOutOfBounds
	}
	src, ok := m.regions[srcRef]
	if !ok {
		return ErrOutOfBounds
	}
	if !regionFits(dstOffset, size, uint64(len(dst))) || !regionFits(srcOffset, size, uint64(len(src))) {
		return ErrOutOfBounds
	}
	copy(dst[dstOffset:dstOffset+size], src[srcOffset:srcOffset+size])
	return nil
}

func (m *Mock) Memset(ref uint64, offset, size uint64, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	region, ok := m.regions[ref]
	if !ok {
		return ErrOutOfBounds
	}
	if !regionFits(offset, size, uint64(len(region))) {
		return ErrOutOfBounds
	}
	span := region[offset : offset+size]
	for i := range span {
		span[i] = value
	}
	return nil
}

// Sync is a no-op: Mock's operations are synchronous already.
func (m *Mock) Sync(flags uint32) error {
	return nil
}

func (m *Mock) Info(selector InfoSelector) (uint64, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch selector {
	case InfoDeviceCount:
		return 1, "", nil
	case InfoDeviceName:
		return 0, m.name, nil
	case InfoTotalMemory:
		return m.total, "", nil
	case InfoFreeMemory:
		return m.total - m.allocated, "", nil
	default:
		return 0, "", fmt.Errorf("device: unknown info selector %d", selector)
	}
}

// regionFits reports whether [offset, offset+size) fits within
// [0, regionLen) without computing offset+size, so a caller-supplied
// offset near math.MaxUint64 cannot wrap the sum into a small value that
// would otherwise pass the bounds check.
func regionFits(offset, size, regionLen uint64) bool {
	if size > regionLen {
		return false
	}
	return offset <= regionLen-size
}

var _ Driver = (*Mock)(nil)
