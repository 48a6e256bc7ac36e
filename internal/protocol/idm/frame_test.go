package idm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeParseRoundTrip(t *testing.T) {
	h := Header{
		Magic:      Magic,
		Version:    CurrentVersion,
		Kind:       KindAlloc,
		SrcZone:    2,
		DstZone:    1,
		SeqNum:     42,
		PayloadLen: 12,
	}
	buf := make([]byte, HeaderSize)
	h.Encode(buf)

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h.Magic, got.Magic)
	assert.Equal(t, h.Version, got.Version)
	assert.Equal(t, h.Kind, got.Kind)
	assert.Equal(t, h.SrcZone, got.SrcZone)
	assert.Equal(t, h.DstZone, got.DstZone)
	assert.Equal(t, h.SeqNum, got.SeqNum)
	assert.Equal(t, h.PayloadLen, got.PayloadLen)
}

func TestHeaderValidateRejectsBadMagic(t *testing.T) {
	h := Header{Magic: 0xDEADBEEF, Version: CurrentVersion}
	assert.ErrorIs(t, h.Validate(4096), ErrInvalidMagic)
}

func TestHeaderValidateRejectsBadVersion(t *testing.T) {
	h := Header{Magic: Magic, Version: 0x0201}
	assert.ErrorIs(t, h.Validate(4096), ErrInvalidVersion)
}

func TestHeaderValidateRejectsOversizePayload(t *testing.T) {
	h := Header{Magic: Magic, Version: CurrentVersion, PayloadLen: 100}
	assert.ErrorIs(t, h.Validate(64), ErrPayloadTooLarge)
}

func TestParseHeaderTooShort(t *testing.T) {
	_, err := ParseHeader(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, ErrMessageTooShort)
}

func TestFrameBuildParseRoundTrip(t *testing.T) {
	req := AllocRequest{Size: 4096, Flags: 0}
	payload := make([]byte, allocRequestSize)
	req.Encode(payload)

	f := Build(2, 1, KindAlloc, 7, payload)
	buf := make([]byte, f.EncodedLen())
	f.Encode(buf)

	got, err := Parse(buf, 65536)
	require.NoError(t, err)
	assert.Equal(t, KindAlloc, got.Header.Kind)
	assert.Equal(t, uint64(7), got.Header.SeqNum)
	assert.Equal(t, uint32(2), got.Header.SrcZone)
	assert.Equal(t, uint32(1), got.Header.DstZone)

	decoded, err := DecodeAllocRequest(got.Payload)
	require.NoError(t, err)
	assert.Equal(t, req.Size, decoded.Size)
}

func TestParseRejectsFlippedMagic(t *testing.T) {
	req := AllocRequest{Size: 1024}
	payload := make([]byte, allocRequestSize)
	req.Encode(payload)

	f := Build(2, 1, KindAlloc, 1, payload)
	buf := make([]byte, f.EncodedLen())
	f.Encode(buf)
	buf[0] ^= 0xFF // flip a magic byte

	_, err := Parse(buf, 65536)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestParseRejectsTruncatedPayload(t *testing.T) {
	req := AllocRequest{Size: 1024}
	payload := make([]byte, allocRequestSize)
	req.Encode(payload)

	f := Build(2, 1, KindAlloc, 1, payload)
	buf := make([]byte, f.EncodedLen())
	f.Encode(buf)

	_, err := Parse(buf[:len(buf)-4], 65536)
	assert.ErrorIs(t, err, ErrPayloadTruncated)
}

func TestCopyH2DRequestRejectsInlineLenMismatch(t *testing.T) {
	buf := make([]byte, copyH2DFixedSize+8)
	req := CopyH2DRequest{DstHandle: 1, DstOffset: 0, Size: 16, Data: make([]byte, 8)}
	req.Encode(buf)

	_, err := DecodeCopyH2DRequest(buf)
	assert.ErrorIs(t, err, ErrInlineLenMismatch)
}

func TestCopyH2DRequestRoundTrip(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	req := CopyH2DRequest{DstHandle: 9, DstOffset: 16, Size: uint64(len(data)), Data: data}
	buf := make([]byte, req.EncodedLen())
	req.Encode(buf)

	got, err := DecodeCopyH2DRequest(buf)
	require.NoError(t, err)
	assert.Equal(t, req.DstHandle, got.DstHandle)
	assert.Equal(t, req.DstOffset, got.DstOffset)
	assert.Equal(t, data, got.Data)
}

func TestOKResponseRoundTripWithInlineData(t *testing.T) {
	resp := OKResponse{RequestSeq: 5, ResultHandle: 0, ResultScalar: 0, InlineData: []byte("hello")}
	buf := make([]byte, resp.EncodedLen())
	resp.Encode(buf)

	got, err := DecodeOKResponse(buf)
	require.NoError(t, err)
	assert.Equal(t, resp.RequestSeq, got.RequestSeq)
	assert.Equal(t, []byte("hello"), got.InlineData)
}

func TestErrorResponseRoundTrip(t *testing.T) {
	resp := ErrorResponse{RequestSeq: 3, Kind: ErrorKindInvalidHandle, DriverCode: -1, Message: "handle not owned by caller"}
	buf := make([]byte, resp.EncodedLen())
	resp.Encode(buf)

	got, err := DecodeErrorResponse(buf)
	require.NoError(t, err)
	assert.Equal(t, resp.Kind, got.Kind)
	assert.Equal(t, resp.Message, got.Message)
}

func TestKindStringAndClassification(t *testing.T) {
	assert.True(t, KindAlloc.IsRequest())
	assert.False(t, KindAlloc.IsResponse())
	assert.True(t, KindOK.IsResponse())
	assert.False(t, KindOK.IsRequest())
	assert.Equal(t, "ALLOC", KindAlloc.String())
	assert.Equal(t, "ERROR", KindError.String())
}
