package idm

// Kind identifies an IDM message kind. The wire codes are preserved from
// the source C protocol so the two sides of a migration interoperate during
// transition (spec.md §6).
type Kind uint16

const (
	KindAlloc    Kind = 0x01
	KindFree     Kind = 0x02
	KindCopyH2D  Kind = 0x10
	KindCopyD2H  Kind = 0x11
	KindCopyD2D  Kind = 0x12
	KindMemset   Kind = 0x13
	KindSync     Kind = 0x21
	KindGetInfo  Kind = 0x30
	KindOK       Kind = 0xF0
	KindError    Kind = 0xF1
)

// IsRequest reports whether k is one of the request kinds.
func (k Kind) IsRequest() bool {
	switch k {
	case KindAlloc, KindFree, KindCopyH2D, KindCopyD2H, KindCopyD2D, KindMemset, KindSync, KindGetInfo:
		return true
	default:
		return false
	}
}

// IsResponse reports whether k is one of the response kinds.
func (k Kind) IsResponse() bool {
	return k == KindOK || k == KindError
}

// String returns the wire name of k.
func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "ALLOC"
	case KindFree:
		return "FREE"
	case KindCopyH2D:
		return "COPY_H2D"
	case KindCopyD2H:
		return "COPY_D2H"
	case KindCopyD2D:
		return "COPY_D2D"
	case KindMemset:
		return "MEMSET"
	case KindSync:
		return "SYNC"
	case KindGetInfo:
		return "GET_INFO"
	case KindOK:
		return "OK"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
