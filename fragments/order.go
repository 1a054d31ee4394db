package fragments

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// A ByteOrder reads and writes multi-byte integers.
type ByteOrder interface {
	byteOrder
	name() string
}

type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

type wrapStd struct {
	byteOrder
}

func (w wrapStd) name() string {
	switch w.byteOrder {
	case binary.BigEndian:
		return "big-endian"
	case binary.LittleEndian:
		return "little-endian"
	case binary.NativeEndian:
		if cpu.IsBigEndian {
			return "big-endian"
		}
		return "little-endian"
	default:
		panic("unknown ByteOrder, how did you manage to make one of those?")
	}
}

var (
	BigEndian    ByteOrder = wrapStd{binary.BigEndian}
	LittleEndian ByteOrder = wrapStd{binary.LittleEndian}
	// NativeEndian is the host's byte order. Netlink record headers
	// and most scalar attributes use it.
	NativeEndian ByteOrder = wrapStd{binary.NativeEndian}
)

// OrderName returns "big-endian" or "little-endian", resolving
// [NativeEndian] to the host's order.
func OrderName(o ByteOrder) string {
	return o.name()
}

func orDefault(o ByteOrder) ByteOrder {
	if o == nil {
		return NativeEndian
	}
	return o
}
