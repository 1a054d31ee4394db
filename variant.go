package nlmsg

import (
	"net/netip"

	"github.com/danderson/nlmsg/fragments"
)

// A Value is the payload of an [Attribute].
//
// The set of Values is closed. Scalars are [Uint8], [Uint16],
// [Uint32], [Uint16BE] and [Uint32BE], text is [String], addresses
// are [Addr], and nested attribute trees are [Nest].
type Value interface {
	// Len returns the encoded length of the value, excluding the
	// attribute header and trailing padding.
	Len() int

	appendValue(*fragments.Encoder)
	nested() bool
}

// Uint8 is a single byte value.
type Uint8 uint8

func (Uint8) Len() int                           { return 1 }
func (v Uint8) appendValue(e *fragments.Encoder) { e.Uint8(uint8(v)) }
func (Uint8) nested() bool                       { return false }

// Uint16 is a 16-bit value in host byte order.
type Uint16 uint16

func (Uint16) Len() int { return 2 }
func (v Uint16) appendValue(e *fragments.Encoder) {
	e.Uint16(fragments.NativeEndian, uint16(v))
}
func (Uint16) nested() bool { return false }

// Uint32 is a 32-bit value in host byte order.
type Uint32 uint32

func (Uint32) Len() int { return 4 }
func (v Uint32) appendValue(e *fragments.Encoder) {
	e.Uint32(fragments.NativeEndian, uint32(v))
}
func (Uint32) nested() bool { return false }

// Uint16BE is a 16-bit value in network byte order.
type Uint16BE uint16

func (Uint16BE) Len() int { return 2 }
func (v Uint16BE) appendValue(e *fragments.Encoder) {
	e.Uint16(fragments.BigEndian, uint16(v))
}
func (Uint16BE) nested() bool { return false }

// Uint32BE is a 32-bit value in network byte order.
type Uint32BE uint32

func (Uint32BE) Len() int { return 4 }
func (v Uint32BE) appendValue(e *fragments.Encoder) {
	e.Uint32(fragments.BigEndian, uint32(v))
}
func (Uint32BE) nested() bool { return false }

// String is a UTF-8 string. It encodes with a trailing NUL byte,
// which is not part of the logical value and must not appear within
// it.
type String string

func (s String) Len() int                         { return len(s) + 1 }
func (s String) appendValue(e *fragments.Encoder) { e.String(string(s)) }
func (String) nested() bool                       { return false }

// Addr is an IP address. IPv4 addresses encode as 4 bytes, all
// others as 16 bytes.
//
// The zero Addr has no encoding. Len, and therefore every encoder,
// panics if given one.
type Addr netip.Addr

func (a Addr) Len() int {
	ip := netip.Addr(a)
	switch {
	case ip.Is4():
		return 4
	case ip.IsValid():
		return 16
	default:
		panic("nlmsg: cannot encode the zero Addr")
	}
}
func (a Addr) appendValue(e *fragments.Encoder) { e.Write(netip.Addr(a).AsSlice()) }
func (Addr) nested() bool                       { return false }

// Nest is an ordered sequence of child attributes. Attributes with a
// Nest value are encoded with the nested bit set.
type Nest[A Attribute] []A

// Len returns the sum of the children's padded record lengths.
func (n Nest[A]) Len() int { return TreeLen([]A(n)) }

func (n Nest[A]) appendValue(e *fragments.Encoder) {
	for _, a := range n {
		appendAttribute(e, a)
	}
}

func (Nest[A]) nested() bool { return true }
