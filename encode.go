package nlmsg

import (
	"fmt"

	"github.com/danderson/nlmsg/fragments"
)

// An Attribute is one typed netlink attribute.
//
// Each nesting level of a protocol defines its own closed set of
// attributes, conventionally as an interface that embeds Attribute
// and adds an unexported marker method.
type Attribute interface {
	// Kind returns the attribute's kind code, without flags. The
	// nested flag is derived from Value.
	Kind() uint16
	// Value returns the attribute's payload.
	Value() Value
}

// KindCode returns a's wire kind, with [fragments.NestedFlag] set if
// and only if a's value is a [Nest].
func KindCode(a Attribute) uint16 {
	return kindCode(a.Kind(), a.Value())
}

func kindCode(kind uint16, v Value) uint16 {
	kind &= fragments.KindMask
	if v.nested() {
		kind |= fragments.NestedFlag
	}
	return kind
}

// EncodedLen returns the length of a's encoded value, excluding the
// attribute header and padding.
//
// EncodedLen panics if the value is longer than
// [fragments.MaxValueLen]. The other length functions and the
// encoders panic likewise.
func EncodedLen(a Attribute) int {
	return valueLen(a.Kind(), a.Value())
}

func valueLen(kind uint16, v Value) int {
	n := v.Len()
	if n > fragments.MaxValueLen {
		panic(fmt.Sprintf("nlmsg: attribute kind %d has a %d byte value, longer than the maximum of %d", kind&fragments.KindMask, n, fragments.MaxValueLen))
	}
	return n
}

// RecordLen returns the number of bytes a occupies on the wire,
// including its header and trailing padding.
func RecordLen(a Attribute) int {
	return fragments.AlignLen(fragments.AttrHeaderLen + EncodedLen(a))
}

// TreeLen returns the encoded length of attrs.
func TreeLen[A Attribute](attrs []A) int {
	ret := 0
	for _, a := range attrs {
		ret += RecordLen(a)
	}
	return ret
}

// AppendAttribute appends the wire encoding of a to b, including
// trailing padding.
func AppendAttribute(b []byte, a Attribute) []byte {
	e := fragments.Encoder{Out: b}
	appendAttribute(&e, a)
	return e.Out
}

// AppendTree appends the wire encoding of attrs to b, in order.
func AppendTree[A Attribute](b []byte, attrs []A) []byte {
	e := fragments.Encoder{Out: b}
	for _, a := range attrs {
		appendAttribute(&e, a)
	}
	return e.Out
}

// MarshalTree returns the wire encoding of attrs.
func MarshalTree[A Attribute](attrs []A) []byte {
	return AppendTree(make([]byte, 0, TreeLen(attrs)), attrs)
}

func appendAttribute(e *fragments.Encoder, a Attribute) {
	v := a.Value()
	n := valueLen(a.Kind(), v)
	e.AttrHeader(n, kindCode(a.Kind(), v))
	v.appendValue(e)
	// Pad relative to the start of the record, not of e.Out.
	var pad [fragments.Align]byte
	e.Write(pad[:fragments.AlignLen(n)-n])
}
