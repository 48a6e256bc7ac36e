package client

import (
	"context"
	"fmt"

	"github.com/nyxgate/idmbroker/internal/protocol/idm"
)

// ResponseError wraps a broker ERROR response as a Go error, carrying the
// same fields spec.md §7 defines: the wire ErrorKind, the driver's own
// error code (if any), and the broker's short diagnostic message. Outer
// driver-API shims map Kind to their own error codes (spec.md §7
// "User-visible behavior"); that mapping is outside this core.
type ResponseError struct {
	Kind       idm.ErrorKind
	DriverCode int32
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("idm: %s: %s", e.Kind, e.Message)
}

// call sends payload as kind and returns the decoded OK response, or a
// *ResponseError if the broker answered ERROR.
func (s *Stub) call(ctx context.Context, kind idm.Kind, payload []byte) (idm.OKResponse, error) {
	resp, err := s.Call(ctx, kind, payload)
	if err != nil {
		return idm.OKResponse{}, err
	}
	if resp.Header.Kind == idm.KindError {
		ef, err := idm.DecodeErrorResponse(resp.Payload)
		if err != nil {
			return idm.OKResponse{}, fmt.Errorf("client: decode error response: %w", err)
		}
		return idm.OKResponse{}, &ResponseError{Kind: ef.Kind, DriverCode: ef.DriverCode, Message: ef.Message}
	}
	ok, err := idm.DecodeOKResponse(resp.Payload)
	if err != nil {
		return idm.OKResponse{}, fmt.Errorf("client: decode ok response: %w", err)
	}
	return ok, nil
}

// Alloc requests size bytes of device memory and returns the resulting
// handle.
func (s *Stub) Alloc(ctx context.Context, size uint64, flags uint32) (uint64, error) {
	req := idm.AllocRequest{Size: size, Flags: flags}
	buf := make([]byte, 12)
	req.Encode(buf)
	ok, err := s.call(ctx, idm.KindAlloc, buf)
	if err != nil {
		return 0, err
	}
	return ok.ResultHandle, nil
}

// Free releases handle. handle is not reusable by the caller after this
// returns without error.
func (s *Stub) Free(ctx context.Context, handle uint64) error {
	req := idm.FreeRequest{Handle: handle}
	buf := make([]byte, 8)
	req.Encode(buf)
	_, err := s.call(ctx, idm.KindFree, buf)
	return err
}

// CopyH2D writes data into handle's allocation starting at offset.
func (s *Stub) CopyH2D(ctx context.Context, handle, offset uint64, data []byte) error {
	req := idm.CopyH2DRequest{DstHandle: handle, DstOffset: offset, Size: uint64(len(data)), Data: data}
	buf := make([]byte, req.EncodedLen())
	req.Encode(buf)
	_, err := s.call(ctx, idm.KindCopyH2D, buf)
	return err
}

// CopyD2H reads size bytes from handle's allocation starting at offset.
func (s *Stub) CopyD2H(ctx context.Context, handle, offset, size uint64) ([]byte, error) {
	req := idm.CopyD2HRequest{SrcHandle: handle, SrcOffset: offset, Size: size}
	buf := make([]byte, 24)
	req.Encode(buf)
	ok, err := s.call(ctx, idm.KindCopyD2H, buf)
	if err != nil {
		return nil, err
	}
	return ok.InlineData, nil
}

// CopyD2D copies size bytes from srcHandle/srcOffset to dstHandle/dstOffset.
// Both handles must be owned by this stub's zone.
func (s *Stub) CopyD2D(ctx context.Context, dstHandle, dstOffset, srcHandle, srcOffset, size uint64) error {
	req := idm.CopyD2DRequest{DstHandle: dstHandle, DstOffset: dstOffset, SrcHandle: srcHandle, SrcOffset: srcOffset, Size: size}
	buf := make([]byte, 40)
	req.Encode(buf)
	_, err := s.call(ctx, idm.KindCopyD2D, buf)
	return err
}

// Memset fills size bytes of handle's allocation starting at offset with
// value.
func (s *Stub) Memset(ctx context.Context, handle, offset, size uint64, value byte) error {
	req := idm.MemsetRequest{Handle: handle, Offset: offset, Size: size, Value: value}
	buf := make([]byte, 32)
	req.Encode(buf)
	_, err := s.call(ctx, idm.KindMemset, buf)
	return err
}

// Sync blocks until the broker's device driver reports all outstanding
// work complete.
func (s *Stub) Sync(ctx context.Context, flags uint32) error {
	req := idm.SyncRequest{Flags: flags}
	buf := make([]byte, 8)
	req.Encode(buf)
	_, err := s.call(ctx, idm.KindSync, buf)
	return err
}

// GetInfo queries a device metadata field. scalar is populated for numeric
// selectors, text for string selectors (see idm.InfoSelector).
func (s *Stub) GetInfo(ctx context.Context, selector idm.InfoSelector) (scalar uint64, text string, err error) {
	req := idm.GetInfoRequest{Selector: selector}
	buf := make([]byte, 8)
	req.Encode(buf)
	ok, err := s.call(ctx, idm.KindGetInfo, buf)
	if err != nil {
		return 0, "", err
	}
	return ok.ResultScalar, string(ok.InlineData), nil
}
