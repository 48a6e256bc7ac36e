package logger

import "log/slog"

// Standard field keys for structured logging across the broker, transport,
// and client stub.
const (
	KeySrcZone     = "src_zone"
	KeyDstZone     = "dst_zone"
	KeySeqNum      = "seq_num"
	KeyKind        = "kind"
	KeyHandle      = "handle"
	KeyErrorKind   = "error_kind"
	KeyDriverCode  = "driver_code"
	KeyDurationMs  = "duration_ms"
	KeyError       = "error"
	KeyConnID      = "connection_id"
	KeyRingSlot    = "ring_slot"
	KeyByteTotal   = "byte_total"
	KeyHandleCount = "handle_count"
)

// SrcZone returns a slog.Attr for the requesting zone id.
func SrcZone(z uint32) slog.Attr { return slog.Any(KeySrcZone, z) }

// DstZone returns a slog.Attr for the destination zone id.
func DstZone(z uint32) slog.Attr { return slog.Any(KeyDstZone, z) }

// SeqNum returns a slog.Attr for a request/response sequence number.
func SeqNum(n uint64) slog.Attr { return slog.Uint64(KeySeqNum, n) }

// Kind returns a slog.Attr for a message kind name.
func Kind(k string) slog.Attr { return slog.String(KeyKind, k) }

// Handle returns a slog.Attr for an opaque handle value.
func Handle(h uint64) slog.Attr { return slog.Uint64(KeyHandle, h) }

// ErrorKind returns a slog.Attr for a wire error kind name.
func ErrorKind(k string) slog.Attr { return slog.String(KeyErrorKind, k) }

// DriverCode returns a slog.Attr for the underlying driver error code.
func DriverCode(code int32) slog.Attr { return slog.Int(KeyDriverCode, int(code)) }

// DurationMs returns a slog.Attr for an operation duration in milliseconds.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ConnID returns a slog.Attr for a transport connection id.
func ConnID(id string) slog.Attr { return slog.String(KeyConnID, id) }

// HandleCount returns a slog.Attr for the live handle count.
func HandleCount(n int) slog.Attr { return slog.Int(KeyHandleCount, n) }

// ByteTotal returns a slog.Attr for the total bytes backing live handles.
func ByteTotal(n uint64) slog.Attr { return slog.Uint64(KeyByteTotal, n) }
