package idm

import "encoding/binary"

// InfoSelector enumerates the GET_INFO queries the broker answers. The set
// is closed; spec.md §4.4 leaves the selector as a bare integer, this core
// supplements it with names since the dispatcher must know which field to
// populate.
type InfoSelector uint32

const (
	InfoDeviceCount InfoSelector = iota
	InfoDeviceName
	InfoTotalMemory
	InfoFreeMemory
)

// --- Request payloads -------------------------------------------------

// AllocRequest is the ALLOC request payload (12 bytes).
type AllocRequest struct {
	Size  uint64
	Flags uint32
}

const allocRequestSize = 12

func (r *AllocRequest) Encode(buf []byte) {
	_ = buf[:allocRequestSize]
	binary.LittleEndian.PutUint64(buf[0:8], r.Size)
	binary.LittleEndian.PutUint32(buf[8:12], r.Flags)
}

func DecodeAllocRequest(buf []byte) (AllocRequest, error) {
	if len(buf) < allocRequestSize {
		return AllocRequest{}, ErrPayloadTruncated
	}
	return AllocRequest{
		Size:  binary.LittleEndian.Uint64(buf[0:8]),
		Flags: binary.LittleEndian.Uint32(buf[8:12]),
	}, nil
}

// FreeRequest is the FREE request payload (8 bytes).
type FreeRequest struct {
	Handle uint64
}

const freeRequestSize = 8

func (r *FreeRequest) Encode(buf []byte) {
	binary.LittleEndian.PutUint64(buf[:8], r.Handle)
}

func DecodeFreeRequest(buf []byte) (FreeRequest, error) {
	if len(buf) < freeRequestSize {
		return FreeRequest{}, ErrPayloadTruncated
	}
	return FreeRequest{Handle: binary.LittleEndian.Uint64(buf[0:8])}, nil
}

// CopyH2DRequest is the COPY_H2D request payload: a 24-byte fixed part
// followed by Size bytes of inline source data.
type CopyH2DRequest struct {
	DstHandle uint64
	DstOffset uint64
	Size      uint64
	Data      []byte
}

const copyH2DFixedSize = 24

func (r *CopyH2DRequest) Encode(buf []byte) {
	_ = buf[:copyH2DFixedSize+len(r.Data)]
	binary.LittleEndian.PutUint64(buf[0:8], r.DstHandle)
	binary.LittleEndian.PutUint64(buf[8:16], r.DstOffset)
	binary.LittleEndian.PutUint64(buf[16:24], r.Size)
	copy(buf[copyH2DFixedSize:], r.Data)
}

// EncodedLen returns the total wire size of r, fixed part plus inline data.
func (r *CopyH2DRequest) EncodedLen() int { return copyH2DFixedSize + len(r.Data) }

func DecodeCopyH2DRequest(buf []byte) (CopyH2DRequest, error) {
	if len(buf) < copyH2DFixedSize {
		return CopyH2DRequest{}, ErrPayloadTruncated
	}
	size := binary.LittleEndian.Uint64(buf[16:24])
	if uint64(len(buf)-copyH2DFixedSize) != size {
		return CopyH2DRequest{}, ErrInlineLenMismatch
	}
	return CopyH2DRequest{
		DstHandle: binary.LittleEndian.Uint64(buf[0:8]),
		DstOffset: binary.LittleEndian.Uint64(buf[8:16]),
		Size:      size,
		Data:      append([]byte(nil), buf[copyH2DFixedSize:]...),
	}, nil
}

// CopyD2HRequest is the COPY_D2H request payload (24 bytes, no inline data;
// the OK response carries the read bytes).
type CopyD2HRequest struct {
	SrcHandle uint64
	SrcOffset uint64
	Size      uint64
}

const copyD2HRequestSize = 24

func (r *CopyD2HRequest) Encode(buf []byte) {
	_ = buf[:copyD2HRequestSize]
	binary.LittleEndian.PutUint64(buf[0:8], r.SrcHandle)
	binary.LittleEndian.PutUint64(buf[8:16], r.SrcOffset)
	binary.LittleEndian.PutUint64(buf[16:24], r.Size)
}

func DecodeCopyD2HRequest(buf []byte) (CopyD2HRequest, error) {
	if len(buf) < copyD2HRequestSize {
		return CopyD2HRequest{}, ErrPayloadTruncated
	}
	return CopyD2HRequest{
		SrcHandle: binary.LittleEndian.Uint64(buf[0:8]),
		SrcOffset: binary.LittleEndian.Uint64(buf[8:16]),
		Size:      binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}

// CopyD2DRequest is the COPY_D2D request payload (40 bytes).
type CopyD2DRequest struct {
	DstHandle uint64
	DstOffset uint64
	SrcHandle uint64
	SrcOffset uint64
	Size      uint64
}

const copyD2DRequestSize = 40

func (r *CopyD2DRequest) Encode(buf []byte) {
	_ = buf[:copyD2DRequestSize]
	binary.LittleEndian.PutUint64(buf[0:8], r.DstHandle)
	binary.LittleEndian.PutUint64(buf[8:16], r.DstOffset)
	binary.LittleEndian.PutUint64(buf[16:24], r.SrcHandle)
	binary.LittleEndian.PutUint64(buf[24:32], r.SrcOffset)
	binary.LittleEndian.PutUint64(buf[32:40], r.Size)
}

func DecodeCopyD2DRequest(buf []byte) (CopyD2DRequest, error) {
	if len(buf) < copyD2DRequestSize {
		return CopyD2DRequest{}, ErrPayloadTruncated
	}
	return CopyD2DRequest{
		DstHandle: binary.LittleEndian.Uint64(buf[0:8]),
		DstOffset: binary.LittleEndian.Uint64(buf[8:16]),
		SrcHandle: binary.LittleEndian.Uint64(buf[16:24]),
		SrcOffset: binary.LittleEndian.Uint64(buf[24:32]),
		Size:      binary.LittleEndian.Uint64(buf[32:40]),
	}, nil
}

// MemsetRequest is the MEMSET request payload (32 bytes).
type MemsetRequest struct {
	Handle uint64
	Offset uint64
	Size   uint64
	Value  byte
}

const memsetRequestSize = 32

func (r *MemsetRequest) Encode(buf []byte) {
	_ = buf[:memsetRequestSize]
	binary.LittleEndian.PutUint64(buf[0:8], r.Handle)
	binary.LittleEndian.PutUint64(buf[8:16], r.Offset)
	binary.LittleEndian.PutUint64(buf[16:24], r.Size)
	buf[24] = r.Value
	for i := 25; i < memsetRequestSize; i++ {
		buf[i] = 0
	}
}

func DecodeMemsetRequest(buf []byte) (MemsetRequest, error) {
	if len(buf) < memsetRequestSize {
		return MemsetRequest{}, ErrPayloadTruncated
	}
	return MemsetRequest{
		Handle: binary.LittleEndian.Uint64(buf[0:8]),
		Offset: binary.LittleEndian.Uint64(buf[8:16]),
		Size:   binary.LittleEndian.Uint64(buf[16:24]),
		Value:  buf[24],
	}, nil
}

// SyncRequest is the SYNC request payload (8 bytes).
type SyncRequest struct {
	Flags uint32
}

const syncRequestSize = 8

func (r *SyncRequest) Encode(buf []byte) {
	_ = buf[:syncRequestSize]
	binary.LittleEndian.PutUint32(buf[0:4], r.Flags)
	binary.LittleEndian.PutUint32(buf[4:8], 0)
}

func DecodeSyncRequest(buf []byte) (SyncRequest, error) {
	if len(buf) < syncRequestSize {
		return SyncRequest{}, ErrPayloadTruncated
	}
	return SyncRequest{Flags: binary.LittleEndian.Uint32(buf[0:4])}, nil
}

// GetInfoRequest is the GET_INFO request payload (8 bytes).
type GetInfoRequest struct {
	Selector InfoSelector
}

const getInfoRequestSize = 8

func (r *GetInfoRequest) Encode(buf []byte) {
	_ = buf[:getInfoRequestSize]
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.Selector))
	binary.LittleEndian.PutUint32(buf[4:8], 0)
}

func DecodeGetInfoRequest(buf []byte) (GetInfoRequest, error) {
	if len(buf) < getInfoRequestSize {
		return GetInfoRequest{}, ErrPayloadTruncated
	}
	return GetInfoRequest{Selector: InfoSelector(binary.LittleEndian.Uint32(buf[0:4]))}, nil
}

// --- Response payloads --------------------------------------------------

// OKResponse is the OK response payload: a 24-byte fixed part followed by
// the inline result data (populated for COPY_D2H and GET_INFO string
// results). There is no separate inline-length field; the inline data is
// everything in the payload after the fixed part.
type OKResponse struct {
	RequestSeq   uint64
	ResultHandle uint64
	ResultScalar uint64
	InlineData   []byte
}

const okResponseFixedSize = 24

func (r *OKResponse) EncodedLen() int { return okResponseFixedSize + len(r.InlineData) }

func (r *OKResponse) Encode(buf []byte) {
	_ = buf[:r.EncodedLen()]
	binary.LittleEndian.PutUint64(buf[0:8], r.RequestSeq)
	binary.LittleEndian.PutUint64(buf[8:16], r.ResultHandle)
	binary.LittleEndian.PutUint64(buf[16:24], r.ResultScalar)
	copy(buf[okResponseFixedSize:], r.InlineData)
}

func DecodeOKResponse(buf []byte) (OKResponse, error) {
	if len(buf) < okResponseFixedSize {
		return OKResponse{}, ErrPayloadTruncated
	}
	return OKResponse{
		RequestSeq:   binary.LittleEndian.Uint64(buf[0:8]),
		ResultHandle: binary.LittleEndian.Uint64(buf[8:16]),
		ResultScalar: binary.LittleEndian.Uint64(buf[16:24]),
		InlineData:   append([]byte(nil), buf[okResponseFixedSize:]...),
	}, nil
}

// ErrorResponse is the ERROR response payload: a 16-byte fixed part
// followed by a short human-readable message.
type ErrorResponse struct {
	RequestSeq uint64
	Kind       ErrorKind
	DriverCode int32
	Message    string
}

const errorResponseFixedSize = 16

func (r *ErrorResponse) EncodedLen() int { return errorResponseFixedSize + len(r.Message) }

func (r *ErrorResponse) Encode(buf []byte) {
	_ = buf[:r.EncodedLen()]
	binary.LittleEndian.PutUint64(buf[0:8], r.RequestSeq)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(r.Kind))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(r.DriverCode))
	copy(buf[errorResponseFixedSize:], r.Message)
}

func DecodeErrorResponse(buf []byte) (ErrorResponse, error) {
	if len(buf) < errorResponseFixedSize {
		return ErrorResponse{}, ErrPayloadTruncated
	}
	return ErrorResponse{
		RequestSeq: binary.LittleEndian.Uint64(buf[0:8]),
		Kind:       ErrorKind(binary.LittleEndian.Uint32(buf[8:12])),
		DriverCode: int32(binary.LittleEndian.Uint32(buf[12:16])),
		Message:    string(buf[errorResponseFixedSize:]),
	}, nil
}
