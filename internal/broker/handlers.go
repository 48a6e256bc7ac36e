package broker

import (
	"github.com/nyxgate/idmbroker/internal/device"
	"github.com/nyxgate/idmbroker/internal/handletable"
	"github.com/nyxgate/idmbroker/internal/protocol/idm"
)

func handleAlloc(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeAllocRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	if req.Size == 0 {
		return Outcome{}, fail(idm.ErrorKindInvalidSize, 0, "alloc size must be non-zero")
	}
	ref, err := b.device.Alloc(req.Size, req.Flags)
	if err != nil {
		return Outcome{}, deviceFailure(err)
	}
	h := b.handles.Insert(zone, ref, req.Size, req.Flags)
	return Outcome{ResultHandle: uint64(h)}, nil
}

func handleFree(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeFreeRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	rec, err := b.handles.Remove(zone, handletable.Handle(req.Handle))
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidHandle, 0, "handle not owned by caller")
	}
	if err := b.device.Free(rec.DeviceRef); err != nil {
		return Outcome{}, deviceFailure(err)
	}
	return Outcome{}, nil
}

func handleCopyH2D(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeCopyH2DRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	rec, err := b.handles.Lookup(zone, handletable.Handle(req.DstHandle))
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidHandle, 0, "handle not owned by caller")
	}
	if !inBounds(req.DstOffset, req.Size, rec.Size) {
		return Outcome{}, fail(idm.ErrorKindInvalidSize, 0, "copy exceeds allocation bounds")
	}
	if err := b.device.CopyIn(rec.DeviceRef, req.DstOffset, req.Data); err != nil {
		return Outcome{}, deviceFailure(err)
	}
	return Outcome{}, nil
}

func handleCopyD2H(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeCopyD2HRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	rec, err := b.handles.Lookup(zone, handletable.Handle(req.SrcHandle))
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidHandle, 0, "handle not owned by caller")
	}
	if !inBounds(req.SrcOffset, req.Size, rec.Size) {
		return Outcome{}, fail(idm.ErrorKindInvalidSize, 0, "copy exceeds allocation bounds")
	}
	data, err := b.device.CopyOut(rec.DeviceRef, req.SrcOffset, req.Size)
	if err != nil {
		return Outcome{}, deviceFailure(err)
	}
	return Outcome{InlineData: data}, nil
}

func handleCopyD2D(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeCopyD2DRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	dst, err := b.handles.Lookup(zone, handletable.Handle(req.DstHandle))
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidHandle, 0, "dst handle not owned by caller")
	}
	src, err := b.handles.Lookup(zone, handletable.Handle(req.SrcHandle))
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidHandle, 0, "src handle not owned by caller")
	}
	if !inBounds(req.DstOffset, req.Size, dst.Size) || !inBounds(req.SrcOffset, req.Size, src.Size) {
		return Outcome{}, fail(idm.ErrorKindInvalidSize, 0, "copy exceeds allocation bounds")
	}
	if err := b.device.CopyDeviceToDevice(dst.DeviceRef, req.DstOffset, src.DeviceRef, req.SrcOffset, req.Size); err != nil {
		return Outcome{}, deviceFailure(err)
	}
	return Outcome{}, nil
}

func handleMemset(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeMemsetRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	rec, err := b.handles.Lookup(zone, handletable.Handle(req.Handle))
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidHandle, 0, "handle not owned by caller")
	}
	if !inBounds(req.Offset, req.Size, rec.Size) {
		return Outcome{}, fail(idm.ErrorKindInvalidSize, 0, "memset exceeds allocation bounds")
	}
	if err := b.device.Memset(rec.DeviceRef, req.Offset, req.Size, req.Value); err != nil {
		return Outcome{}, deviceFailure(err)
	}
	return Outcome{}, nil
}

func handleSync(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeSyncRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	if err := b.device.Sync(req.Flags); err != nil {
		return Outcome{}, deviceFailure(err)
	}
	return Outcome{}, nil
}

func handleGetInfo(b *Broker, zone uint32, payload []byte) (Outcome, error) {
	req, err := idm.DecodeGetInfoRequest(payload)
	if err != nil {
		return Outcome{}, fail(idm.ErrorKindInvalidFrame, 0, err.Error())
	}
	scalar, text, err := b.device.Info(device.InfoSelector(req.Selector))
	if err != nil {
		return Outcome{}, deviceFailure(err)
	}
	return Outcome{ResultScalar: scalar, InlineData: []byte(text)}, nil
}

// deviceFailure maps a device-layer error to a wire ErrorKind:
// device.ErrOutOfMemory to ErrorKindOutOfMemory, device.ErrInvalidSize and
// device.ErrOutOfBounds to ErrorKindInvalidSize, and anything else to
// ErrorKindDeviceError. The original error text is preserved for operator
// diagnosis; DriverCode is always 0.
func deviceFailure(err error) *Failure {
	switch err {
	case device.ErrOutOfMemory:
		return fail(idm.ErrorKindOutOfMemory, 0, err.Error())
	case device.ErrInvalidSize:
		return fail(idm.ErrorKindInvalidSize, 0, err.Error())
	case device.ErrOutOfBounds:
		return fail(idm.ErrorKindInvalidSize, 0, err.Error())
	default:
		return fail(idm.ErrorKindDeviceError, 0, err.Error())
	}
}
