package handletable

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nyxgate/idmbroker/internal/logger"
)

// ErrNotFound is returned by Lookup and Remove both when a handle was never
// allocated and when it belongs to a different zone. Callers must not
// branch on which of the two actually happened; see the package doc.
var ErrNotFound = errors.New("handletable: handle not found")

// Table is the broker's live handle set. The zero value is not usable; call
// New. A Table is safe for concurrent use, though the broker's dispatcher
// is currently single-threaded and serializes access itself.
type Table struct {
	entries sync.Map // Handle -> *Record
	next    atomic.Uint64
}

// New returns an empty Table.
func New() *Table {
	t := &Table{}
	t.next.Store(1) // handle 0 is never issued, so it can serve as a sentinel
	return t
}

// Insert allocates a fresh handle owned by ownerZone, recording deviceRef
// and size, and returns it.
func (t *Table) Insert(ownerZone uint32, deviceRef, size uint64, flags uint32) Handle {
	h := Handle(t.next.Add(1) - 1)
	t.entries.Store(h, &Record{
		Handle:    h,
		OwnerZone: ownerZone,
		DeviceRef: deviceRef,
		Size:      size,
		Flags:     flags,
		CreatedAt: time.Now(),
	})
	return h
}

// Lookup returns the record for h if it exists and is owned by callerZone.
// It returns ErrNotFound in every other case, including when h exists but
// is owned by a different zone.
func (t *Table) Lookup(callerZone uint32, h Handle) (Record, error) {
	v, ok := t.entries.Load(h)
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := v.(*Record)
	if rec.OwnerZone != callerZone {
		logSecurityEvent("lookup", callerZone, rec.OwnerZone, h)
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

// Remove deletes h if it exists and is owned by callerZone, returning the
// removed record. It returns ErrNotFound in every other case, with the same
// not-owned/not-found conflation as Lookup.
func (t *Table) Remove(callerZone uint32, h Handle) (Record, error) {
	v, ok := t.entries.Load(h)
	if !ok {
		return Record{}, ErrNotFound
	}
	rec := v.(*Record)
	if rec.OwnerZone != callerZone {
		logSecurityEvent("remove", callerZone, rec.OwnerZone, h)
		return Record{}, ErrNotFound
	}
	// Only the caller that actually unlinks the record succeeds, so two
	// concurrent Removes of the same handle cannot both return it.
	if !t.entries.CompareAndDelete(h, v) {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

// RemoveAllForZone releases every handle owned by zone, e.g. on connection
// teardown. It returns the number of handles removed and the total bytes
// they accounted for.
func (t *Table) RemoveAllForZone(zone uint32) (count int, bytes uint64) {
	var toDelete []Handle
	t.entries.Range(func(key, value any) bool {
		rec := value.(*Record)
		if rec.OwnerZone == zone {
			toDelete = append(toDelete, rec.Handle)
			bytes += rec.Size
		}
		return true
	})
	for _, h := range toDelete {
		t.entries.Delete(h)
	}
	return len(toDelete), bytes
}

// Stats is a point-in-time summary of table occupancy.
type Stats struct {
	HandleCount int
	TotalBytes  uint64
}

// Stats scans the table and returns current occupancy. Used by the
// broker's periodic metrics emission (internal/broker/stats.go).
func (t *Table) Stats() Stats {
	var s Stats
	t.entries.Range(func(_, value any) bool {
		rec := value.(*Record)
		s.HandleCount++
		s.TotalBytes += rec.Size
		return true
	})
	return s
}

// logSecurityEvent records a zone's access attempt against a handle it does
// not own, the audit trail spec.md §4.3 requires alongside the
// not-owned/not-found conflation returned to the caller.
func logSecurityEvent(op string, callerZone, ownerZone uint32, h Handle) {
	logger.Warn("handletable: unauthorized access attempt",
		slog.String("op", op),
		logger.SrcZone(callerZone),
		slog.Any("owner_zone", ownerZone),
		logger.Handle(uint64(h)),
	)
}
