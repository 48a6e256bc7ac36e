package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRing(t *testing.T, slotSize, slotCount uint32) *Ring {
	t.Helper()
	region := make([]byte, RegionSize(slotSize, slotCount))
	r, err := NewRing(region, slotSize, slotCount)
	require.NoError(t, err)
	return r
}

func TestRingPushPopFIFO(t *testing.T) {
	r := newTestRing(t, 64, 4)

	msgs := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for _, m := range msgs {
		require.NoError(t, r.Push(m))
	}
	for _, want := range msgs {
		got, err := r.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRingEmptyPopReturnsErrRingEmpty(t *testing.T) {
	r := newTestRing(t, 64, 4)
	_, err := r.Pop()
	assert.ErrorIs(t, err, ErrRingEmpty)
}

func TestRingFullPushReturnsErrRingFull(t *testing.T) {
	r := newTestRing(t, 64, 2)
	require.NoError(t, r.Push([]byte("a")))
	require.NoError(t, r.Push([]byte("b")))

	err := r.Push([]byte("c"))
	assert.ErrorIs(t, err, ErrRingFull)
}

func TestRingOversizeFrameRejected(t *testing.T) {
	r := newTestRing(t, 8, 2)
	err := r.Push(make([]byte, 9))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestRingDrainThenRefillWraps(t *testing.T) {
	r := newTestRing(t, 16, 2)

	for i := 0; i < 10; i++ {
		msg := []byte{byte(i)}
		require.NoError(t, r.Push(msg))
		got, err := r.Pop()
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}
	assert.Equal(t, uint64(0), r.Len())
}

func TestOpenRingRejectsBadHeader(t *testing.T) {
	region := make([]byte, RegionSize(64, 4))
	_, err := OpenRing(region)
	assert.ErrorIs(t, err, ErrBadRingHeader)
}

func TestOpenRingAttachesToFormattedRegion(t *testing.T) {
	region := make([]byte, RegionSize(64, 4))
	writer, err := NewRing(region, 64, 4)
	require.NoError(t, err)
	require.NoError(t, writer.Push([]byte("hi")))

	reader, err := OpenRing(region)
	require.NoError(t, err)
	got, err := reader.Pop()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), got)
}

func TestNewRingRejectsUndersizedRegion(t *testing.T) {
	_, err := NewRing(make([]byte, 10), 64, 4)
	assert.ErrorIs(t, err, ErrRegionTooSmall)
}
