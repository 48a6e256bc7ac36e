package idm

// Frame is a fully decoded IDM message: header plus raw payload bytes. The
// payload is left undecoded here; callers use the per-kind Decode* functions
// once they know which kind they are looking at.
type Frame struct {
	Header  Header
	Payload []byte
}

// Build assembles a Frame for transmission from srcZone to dstZone. seq is
// the caller-assigned sequence number (request side allocates it; response
// side echoes the request's). payload must already be wire-encoded.
func Build(srcZone, dstZone uint32, kind Kind, seq uint64, payload []byte) Frame {
	return Frame{
		Header: Header{
			Magic:      Magic,
			Version:    CurrentVersion,
			Kind:       kind,
			SrcZone:    srcZone,
			DstZone:    dstZone,
			SeqNum:     seq,
			PayloadLen: uint32(len(payload)),
		},
		Payload: payload,
	}
}

// EncodedLen returns the total wire size of f, header plus payload.
func (f *Frame) EncodedLen() int { return HeaderSize + len(f.Payload) }

// Encode writes f into the first f.EncodedLen() bytes of buf.
func (f *Frame) Encode(buf []byte) {
	_ = buf[:f.EncodedLen()]
	f.Header.Encode(buf[:HeaderSize])
	copy(buf[HeaderSize:], f.Payload)
}

// Parse decodes a Frame from buf, validating the header against maxPayload
// and checking that buf carries at least as many payload bytes as the header
// declares; bytes past PayloadLen are ignored. The returned Frame's Payload
// aliases buf; callers that retain a
// Frame past the lifetime of the ring slot it came from must copy it.
func Parse(buf []byte, maxPayload uint32) (Frame, error) {
	hdr, err := ParseHeader(buf)
	if err != nil {
		return Frame{}, err
	}
	if err := hdr.Validate(maxPayload); err != nil {
		return Frame{}, err
	}
	if !hdr.Kind.IsRequest() && !hdr.Kind.IsResponse() {
		return Frame{}, ErrUnknownKind
	}
	rest := buf[HeaderSize:]
	if uint32(len(rest)) < hdr.PayloadLen {
		return Frame{}, ErrPayloadTruncated
	}
	return Frame{Header: hdr, Payload: rest[:hdr.PayloadLen]}, nil
}
