package fragments

import "math"

const (
	// AttrHeaderLen is the size of an attribute record header: a
	// 16-bit length followed by a 16-bit kind.
	AttrHeaderLen = 4
	// Align is the alignment of attribute records. Every record
	// starts at a multiple of Align bytes.
	Align = 4

	// NestedFlag is set in a record's kind when the value is itself a
	// sequence of attribute records.
	NestedFlag uint16 = 0x8000
	// NetByteOrderFlag is set in a record's kind by some peers to
	// indicate a value in network byte order. It carries no meaning
	// for decoding and is masked off.
	NetByteOrderFlag uint16 = 0x4000
	// KindMask extracts the kind code from a record's kind field.
	KindMask = ^(NestedFlag | NetByteOrderFlag)

	// MaxValueLen is the longest value that fits in a record. The
	// 16-bit length field counts the header and the value.
	MaxValueLen = math.MaxUint16 - AttrHeaderLen
)

// AlignLen returns n rounded up to the next multiple of [Align].
func AlignLen(n int) int {
	return (n + Align - 1) &^ (Align - 1)
}

// An Encoder provides utilities to write netlink attribute records
// to a byte slice.
//
// Methods append verbatim, with no implicit padding. Callers must pad
// each record to [Align] bytes. [Encoder.Pad] does so when Out starts
// at an aligned offset.
type Encoder struct {
	// Order is the byte order of record headers. If nil,
	// [NativeEndian] is used.
	Order ByteOrder
	// Out is the encoded output.
	Out []byte
}

// Pad inserts zero bytes as needed to make the output a multiple of
// [Align] bytes. If the output is already aligned, no padding is
// inserted.
func (e *Encoder) Pad() {
	extra := len(e.Out) % Align
	if extra == 0 {
		return
	}
	var pad [Align]byte
	e.Out = append(e.Out, pad[:Align-extra]...)
}

// Write writes bs as-is to the output. It is the caller's
// responsibility to ensure correct padding and encoding.
func (e *Encoder) Write(bs []byte) {
	e.Out = append(e.Out, bs...)
}

// String writes s followed by a single NUL terminator.
func (e *Encoder) String(s string) {
	e.Out = append(e.Out, s...)
	e.Out = append(e.Out, 0)
}

// Uint8 writes a uint8.
func (e *Encoder) Uint8(u8 uint8) {
	e.Out = append(e.Out, u8)
}

// Uint16 writes a uint16 in the given byte order.
func (e *Encoder) Uint16(order ByteOrder, u16 uint16) {
	e.Out = orDefault(order).AppendUint16(e.Out, u16)
}

// Uint32 writes a uint32 in the given byte order.
func (e *Encoder) Uint32(order ByteOrder, u32 uint32) {
	e.Out = orDefault(order).AppendUint32(e.Out, u32)
}

// AttrHeader writes an attribute record header for a value of
// valueLen bytes. The length field records the unpadded record
// length, that is valueLen plus [AttrHeaderLen]. valueLen must not
// exceed [MaxValueLen].
//
// kind is written verbatim, including any flags.
func (e *Encoder) AttrHeader(valueLen int, kind uint16) {
	o := orDefault(e.Order)
	e.Out = o.AppendUint16(e.Out, uint16(AttrHeaderLen+valueLen))
	e.Out = o.AppendUint16(e.Out, kind)
}
