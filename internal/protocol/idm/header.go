// Package idm implements the wire format of the Inter-Domain Messaging
// protocol: a 32-byte fixed header followed by a kind-specific payload,
// carried over the shared-memory rings in package transport.
//
// # Header layout (32 bytes, little-endian, packed)
//
//	┌────────┬──────┬─────────────┬────────────────────────────────────┐
//	│ Offset │ Size │ Field       │ Description                        │
//	├────────┼──────┼─────────────┼────────────────────────────────────┤
//	│   0    │  4   │ Magic       │ 'I' 'D' 'M' 0x00                   │
//	│   4    │  2   │ Version     │ major<<8 | minor                   │
//	│   6    │  2   │ Kind        │ message kind code                  │
//	│   8    │  4   │ SrcZone     │ sender zone id                     │
//	│  12    │  4   │ DstZone     │ destination zone id                │
//	│  16    │  8   │ SeqNum      │ per-sender monotonic sequence       │
//	│  24    │  4   │ PayloadLen  │ bytes following the header          │
//	│  28    │  4   │ Reserved    │ must be zero on send                │
//	└────────┴──────┴─────────────┴────────────────────────────────────┘
package idm

import "encoding/binary"

// HeaderSize is the fixed size of the IDM header, in bytes.
const HeaderSize = 32

// Magic is the protocol magic constant, the ASCII bytes "IDM\0" read as a
// little-endian uint32.
const Magic uint32 = 0x00_4D_44_49

// CurrentVersion is the protocol version this implementation speaks.
// Major in the high byte, minor in the low byte.
const CurrentVersion uint16 = (1 << 8) | 0

// Header is the common IDM message header, present on every frame.
type Header struct {
	Magic      uint32
	Version    uint16
	Kind       Kind
	SrcZone    uint32
	DstZone    uint32
	SeqNum     uint64
	PayloadLen uint32
	Reserved   uint32
}

// Encode writes h into the first HeaderSize bytes of buf.
func (h *Header) Encode(buf []byte) {
	_ = buf[:HeaderSize]
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(h.Kind))
	binary.LittleEndian.PutUint32(buf[8:12], h.SrcZone)
	binary.LittleEndian.PutUint32(buf[12:16], h.DstZone)
	binary.LittleEndian.PutUint64(buf[16:24], h.SeqNum)
	binary.LittleEndian.PutUint32(buf[24:28], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[28:32], 0)
}

// ParseHeader decodes a Header from the first HeaderSize bytes of buf.
// It does not validate the header; call Validate for that.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrMessageTooShort
	}
	return Header{
		Magic:      binary.LittleEndian.Uint32(buf[0:4]),
		Version:    binary.LittleEndian.Uint16(buf[4:6]),
		Kind:       Kind(binary.LittleEndian.Uint16(buf[6:8])),
		SrcZone:    binary.LittleEndian.Uint32(buf[8:12]),
		DstZone:    binary.LittleEndian.Uint32(buf[12:16]),
		SeqNum:     binary.LittleEndian.Uint64(buf[16:24]),
		PayloadLen: binary.LittleEndian.Uint32(buf[24:28]),
		Reserved:   binary.LittleEndian.Uint32(buf[28:32]),
	}, nil
}

// Validate checks the header against the invariants in spec.md §3: magic
// matches, version matches this implementation's, and payload length does
// not exceed the transport's per-slot capacity.
func (h *Header) Validate(maxPayload uint32) error {
	if h.Magic != Magic {
		return ErrInvalidMagic
	}
	if h.Version != CurrentVersion {
		return ErrInvalidVersion
	}
	if h.PayloadLen > maxPayload {
		return ErrPayloadTooLarge
	}
	return nil
}
