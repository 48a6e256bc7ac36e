package device

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocFreeRoundTrip(t *testing.T) {
	m := NewMock("test-gpu", 1<<20)

	ref, err := m.Alloc(1024, 0)
	require.NoError(t, err)
	require.NotZero(t, ref)

	require.NoError(t, m.Free(ref))

	err = m.Free(ref)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestAllocRejectsZeroSize(t *testing.T) {
	m := NewMock("test-gpu", 1<<20)
	_, err := m.Alloc(0, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestAllocRejectsOverCapacity(t *testing.T) {
	m := NewMock("test-gpu", 1024)
	_, err := m.Alloc(2048, 0)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestCopyInOutRoundTrip(t *testing.T) {
	m := NewMock("test-gpu", 1<<20)
	ref, err := m.Alloc(256, 0)
	require.NoError(t, err)

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, m.CopyIn(ref, 0, data))

	out, err := m.CopyOut(ref, 0, 256)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCopyOutOfBounds(t *testing.T) {
	m := NewMock("test-gpu", 1<<20)
	ref, err := m.Alloc(100, 0)
	require.NoError(t, err)

	err = m.CopyIn(ref, 50, make([]byte, 60))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCopyRejectsOverflowingOffset(t *testing.T) {
	m := NewMock("test-gpu", 1<<20)
	ref, err := m.Alloc(1024, 0)
	require.NoError(t, err)

	_, err = m.CopyOut(ref, math.MaxUint64-4, 16)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestMemsetFillsRange(t *testing.T) {
	m := NewMock("test-gpu", 1<<20)
	ref, err := m.Alloc(64, 0)
	require.NoError(t, err)

	require.NoError(t, m.Memset(ref, 8, 16, 0xAB))
	out, err := m.CopyOut(ref, 0, 64)
	require.NoError(t, err)

	for i := 8; i < 24; i++ {
		assert.Equal(t, byte(0xAB), out[i])
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, byte(0), out[i])
	}
}

func TestCopyDeviceToDevice(t *testing.T) {
	m := NewMock("test-gpu", 1<<20)
	src, err := m.Alloc(32, 0)
	require.NoError(t, err)
	dst, err := m.Alloc(32, 0)
	require.NoError(t, err)

	data := []byte{1, 2, 3, 4}
	require.NoError(t, m.CopyIn(src, 0, data))
	require.NoError(t, m.CopyDeviceToDevice(dst, 10, src, 0, 4))

	out, err := m.CopyOut(dst, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestInfoSelectors(t *testing.T) {
	m := NewMock("test-gpu", 1024)
	ref, err := m.Alloc(256, 0)
	require.NoError(t, err)

	count, _, err := m.Info(InfoDeviceCount)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, name, err := m.Info(InfoDeviceName)
	require.NoError(t, err)
	assert.Equal(t, "test-gpu", name)

	total, _, err := m.Info(InfoTotalMemory)
	require.NoError(t, err)
	assert.EqualValues(t, 1024, total)

	free, _, err := m.Info(InfoFreeMemory)
	require.NoError(t, err)
	assert.EqualValues(t, 1024-256, free)

	_, _, err = m.Info(InfoSelector(999))
	assert.Error(t, err)

	_ = ref
}
