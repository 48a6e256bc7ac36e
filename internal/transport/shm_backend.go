package transport

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// DefaultSlotSize is the per-slot payload capacity used by DevBackend when
// the caller does not override it. It comfortably holds a header-free
// COPY_H2D/COPY_D2H payload for spec.md's reference inline-copy size.
const DefaultSlotSize = 64 * 1024

// DefaultSlotCount is the per-ring depth used by DevBackend when the caller
// does not override it.
const DefaultSlotCount = 256

// DevBackend is the development Backend: each zone's pair of rings is a
// pair of regular files, mmap'd MAP_SHARED, so a broker process and a zone
// process on the same host see the same memory the way they would across a
// real hypervisor-enforced boundary. Modeled on the teacher's append-only
// mmap persister (pkg/wal/mmap.go), trading its log format for a fixed ring.
type DevBackend struct {
	mu          sync.Mutex
	dir         string
	slotSize    uint32
	slotCount   uint32
	conns       map[uint32]*Connection
	brokerConns map[uint32]*Connection
	notifiers   map[uint32]*notifierPair
	mapped      []mmapRegion
}

type mmapRegion struct {
	file *os.File
	data []byte
}

// notifierPair is the single up/down notifier pair shared by a zone's two
// Connections (Connect's and ConnectBroker's), so a Signal on one side is
// observed by the Wait on the other. Minted once per zone, never duplicated.
type notifierPair struct {
	up   Notifier
	down Notifier
}

// NewDevBackend creates a DevBackend rooted at dir, which is created if
// absent. Ring files for each zone are created lazily on first Connect.
func NewDevBackend(dir string, slotSize, slotCount uint32) (*DevBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("transport: create backend dir: %w", err)
	}
	if slotSize == 0 {
		slotSize = DefaultSlotSize
	}
	if slotCount == 0 {
		slotCount = DefaultSlotCount
	}
	return &DevBackend{
		dir:         dir,
		slotSize:    slotSize,
		slotCount:   slotCount,
		conns:       make(map[uint32]*Connection),
		brokerConns: make(map[uint32]*Connection),
		notifiers:   make(map[uint32]*notifierPair),
	}, nil
}

// Connect returns zone's Connection from the zone's side: it pushes
// requests onto the uplink ring and pops responses off the downlink ring.
// Creates the backing ring files if they don't already exist.
func (b *DevBackend) Connect(zone uint32) (*Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.conns[zone]; ok {
		return c, nil
	}
	up, down, err := b.openZoneRings(zone)
	if err != nil {
		return nil, err
	}
	upNotify, downNotify, err := b.zoneNotifiers(zone)
	if err != nil {
		return nil, err
	}

	conn := NewConnection(zone, up, down, upNotify, downNotify)
	b.conns[zone] = conn
	return conn, nil
}

// ConnectBroker returns the broker's side of zone's Connection: the mirror
// image of Connect, popping requests off the uplink ring and pushing
// responses onto the downlink ring.
func (b *DevBackend) ConnectBroker(zone uint32) (*Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.brokerConns[zone]; ok {
		return c, nil
	}
	up, down, err := b.openZoneRings(zone)
	if err != nil {
		return nil, err
	}
	upNotify, downNotify, err := b.zoneNotifiers(zone)
	if err != nil {
		return nil, err
	}

	conn := NewConnection(zone, down, up, downNotify, upNotify)
	b.brokerConns[zone] = conn
	return conn, nil
}

// openZoneRings maps and formats (if needed) zone's uplink and downlink
// ring files, in zone-relative order: up, then down.
func (b *DevBackend) openZoneRings(zone uint32) (up, down *Ring, err error) {
	upPath := filepath.Join(b.dir, fmt.Sprintf("zone-%d.up.ring", zone))
	downPath := filepath.Join(b.dir, fmt.Sprintf("zone-%d.down.ring", zone))

	upRegion, err := b.mapRing(upPath)
	if err != nil {
		return nil, nil, err
	}
	downRegion, err := b.mapRing(downPath)
	if err != nil {
		return nil, nil, err
	}

	up, err = openOrFormatRing(upRegion, b.slotSize, b.slotCount)
	if err != nil {
		return nil, nil, err
	}
	down, err = openOrFormatRing(downRegion, b.slotSize, b.slotCount)
	if err != nil {
		return nil, nil, err
	}
	return up, down, nil
}

// zoneNotifiers returns zone's uplink and downlink notifier pair, minting it
// on first use and caching it thereafter so Connect and ConnectBroker always
// share the same instances: the uplink notifier a client Signals on Send is
// the exact instance the broker's Connection Waits on for Recv, and
// symmetrically for the downlink. Without this sharing each side gets its
// own eventfd and the peer's Signal is never observed.
func (b *DevBackend) zoneNotifiers(zone uint32) (up, down Notifier, err error) {
	if p, ok := b.notifiers[zone]; ok {
		return p.up, p.down, nil
	}
	up, err = newEventfdNotifier()
	if err != nil {
		return nil, nil, fmt.Errorf("transport: eventfd for zone %d uplink: %w", zone, err)
	}
	down, err = newEventfdNotifier()
	if err != nil {
		return nil, nil, fmt.Errorf("transport: eventfd for zone %d downlink: %w", zone, err)
	}
	b.notifiers[zone] = &notifierPair{up: up, down: down}
	return up, down, nil
}

// mapRing opens (creating if necessary) and mmaps the ring file at path,
// sized to hold this backend's configured slot geometry.
func (b *DevBackend) mapRing(path string) ([]byte, error) {
	size := RegionSize(b.slotSize, b.slotCount)

	existed := true
	if _, err := os.Stat(path); os.IsNotExist(err) {
		existed = false
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("transport: open ring file %s: %w", path, err)
	}
	if !existed {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("transport: truncate ring file %s: %w", path, err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("transport: mmap ring file %s: %w", path, err)
	}

	b.mapped = append(b.mapped, mmapRegion{file: f, data: data})
	return data, nil
}

// openOrFormatRing opens region as a ring if it already carries a valid
// header, or formats it fresh otherwise.
func openOrFormatRing(region []byte, slotSize, slotCount uint32) (*Ring, error) {
	if r, err := OpenRing(region); err == nil {
		return r, nil
	}
	return NewRing(region, slotSize, slotCount)
}

// Close unmaps and closes every ring file this backend opened, and closes
// every Connection it handed out.
func (b *DevBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range b.conns {
		_ = c.Close()
	}
	for _, c := range b.brokerConns {
		_ = c.Close()
	}
	var firstErr error
	for _, m := range b.mapped {
		if err := unix.Munmap(m.data); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
