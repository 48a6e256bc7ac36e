package handletable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertReturnsDistinctNonZeroHandles(t *testing.T) {
	tbl := New()
	seen := make(map[Handle]bool)
	for i := 0; i < 100; i++ {
		h := tbl.Insert(2, uint64(i), 1024, 0)
		require.NotZero(t, h)
		require.False(t, seen[h], "handle %d reused", h)
		seen[h] = true
	}
}

func TestLookupOwnerMatch(t *testing.T) {
	tbl := New()
	h := tbl.Insert(2, 0xAAAA, 2048, 0)

	rec, err := tbl.Lookup(2, h)
	require.NoError(t, err)
	assert.Equal(t, uint64(2048), rec.Size)
	assert.Equal(t, uint32(2), rec.OwnerZone)
}

func TestLookupCrossTenantConflatesNotFound(t *testing.T) {
	tbl := New()
	h := tbl.Insert(2, 0xAAAA, 2048, 0)

	_, err := tbl.Lookup(3, h)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tbl.Lookup(3, Handle(999999))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveIsIdempotentAgainstDoubleFree(t *testing.T) {
	tbl := New()
	h := tbl.Insert(2, 0xAAAA, 1024, 0)

	rec, err := tbl.Remove(2, h)
	require.NoError(t, err)
	assert.Equal(t, h, rec.Handle)

	_, err = tbl.Remove(2, h)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveRejectsWrongZone(t *testing.T) {
	tbl := New()
	h := tbl.Insert(2, 0xAAAA, 1024, 0)

	_, err := tbl.Remove(3, h)
	assert.ErrorIs(t, err, ErrNotFound)

	// Still owned by zone 2 afterwards.
	_, err = tbl.Lookup(2, h)
	assert.NoError(t, err)
}

func TestStatsReflectOnlyLiveRecords(t *testing.T) {
	tbl := New()
	h1 := tbl.Insert(2, 1, 1024, 0)
	_ = tbl.Insert(2, 2, 2048, 0)

	stats := tbl.Stats()
	assert.Equal(t, 2, stats.HandleCount)
	assert.Equal(t, uint64(3072), stats.TotalBytes)

	_, err := tbl.Remove(2, h1)
	require.NoError(t, err)

	stats = tbl.Stats()
	assert.Equal(t, 1, stats.HandleCount)
	assert.Equal(t, uint64(2048), stats.TotalBytes)
}

func TestRemoveAllForZoneOnlyRemovesOwnedHandles(t *testing.T) {
	tbl := New()
	tbl.Insert(2, 1, 1024, 0)
	tbl.Insert(2, 2, 2048, 0)
	tbl.Insert(3, 3, 512, 0)

	count, bytes := tbl.RemoveAllForZone(2)
	assert.Equal(t, 2, count)
	assert.Equal(t, uint64(3072), bytes)

	stats := tbl.Stats()
	assert.Equal(t, 1, stats.HandleCount)
	assert.Equal(t, uint64(512), stats.TotalBytes)
}
