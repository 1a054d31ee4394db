package fragments

import (
	"iter"
	"net/netip"
	"unicode/utf8"
)

// A Decoder provides utilities to read netlink attribute records from
// a byte slice.
type Decoder struct {
	// Order is the byte order of record headers. If nil,
	// [NativeEndian] is used.
	Order ByteOrder
	// In is the input to read.
	In []byte
	// Offset is the position of In within the outermost buffer being
	// decoded. It is used only to report error locations.
	Offset int
}

// Records returns an iterator over the attribute records in
// [Decoder.In].
//
// Records are yielded in wire order. If a record cannot be extracted,
// the iterator yields a single error and stops. The iterator may be
// used multiple times, each iteration restarts from the beginning of
// the input.
//
// A record's length field must cover at least its own header, the
// record must fit entirely in the input, and the record's trailing
// padding must also be present.
func (d Decoder) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		o := orDefault(d.Order)
		pos := 0
		for pos < len(d.In) {
			rem := d.In[pos:]
			off := d.Offset + pos
			if len(rem) < AttrHeaderLen {
				yield(Record{}, errAt(off, ErrShortBuffer, "need %d bytes for record header, have %d", AttrHeaderLen, len(rem)))
				return
			}
			ln := int(o.Uint16(rem[:2]))
			kind := o.Uint16(rem[2:4])
			if ln < AttrHeaderLen {
				yield(Record{}, errAt(off, ErrMalformedRecord, "record length %d is shorter than the record header", ln))
				return
			}
			if ln > len(rem) {
				yield(Record{}, errAt(off, ErrMalformedRecord, "record length %d exceeds the %d bytes remaining", ln, len(rem)))
				return
			}
			next := AlignLen(ln)
			if next > len(rem) {
				yield(Record{}, errAt(off, ErrMalformedRecord, "record length %d is missing %d bytes of padding", ln, next-len(rem)))
				return
			}
			rec := Record{
				Kind:   kind & KindMask,
				Nested: kind&NestedFlag != 0,
				Value:  rem[AttrHeaderLen:ln:ln],
				Offset: off,
				order:  o,
			}
			if !yield(rec, nil) {
				return
			}
			pos += next
		}
	}
}

// Record is one raw attribute record.
type Record struct {
	// Kind is the record's kind code, with flags removed.
	Kind uint16
	// Nested reports whether the record's kind carries
	// [NestedFlag].
	Nested bool
	// Value is the record's value, excluding header and padding.
	Value []byte
	// Offset is the position of the record's header within the
	// outermost buffer being decoded.
	Offset int

	order ByteOrder
}

func (r Record) valueOffset() int {
	return r.Offset + AttrHeaderLen
}

func (r Record) fixed(n int) ([]byte, error) {
	switch {
	case len(r.Value) < n:
		return nil, errAt(r.valueOffset(), ErrShortBuffer, "kind %d needs a %d-byte value, have %d", r.Kind, n, len(r.Value))
	case len(r.Value) > n:
		return nil, errAt(r.valueOffset(), ErrMalformedRecord, "kind %d needs a %d-byte value, have %d", r.Kind, n, len(r.Value))
	}
	return r.Value, nil
}

// Children returns a Decoder over the record's value, for reading
// nested attributes.
func (r Record) Children() Decoder {
	return Decoder{
		Order:  r.order,
		In:     r.Value,
		Offset: r.valueOffset(),
	}
}

// Uint8 reads the value as a uint8.
func (r Record) Uint8() (uint8, error) {
	bs, err := r.fixed(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

// Uint16 reads the value as a uint16 in the given byte order.
func (r Record) Uint16(order ByteOrder) (uint16, error) {
	bs, err := r.fixed(2)
	if err != nil {
		return 0, err
	}
	return orDefault(order).Uint16(bs), nil
}

// Uint32 reads the value as a uint32 in the given byte order.
func (r Record) Uint32(order ByteOrder) (uint32, error) {
	bs, err := r.fixed(4)
	if err != nil {
		return 0, err
	}
	return orDefault(order).Uint32(bs), nil
}

// String reads the value as a NUL-terminated UTF-8 string. The
// string ends at the first NUL byte, or at the end of the value if
// there is none.
func (r Record) String() (string, error) {
	bs := r.Value
	for i, b := range bs {
		if b == 0 {
			bs = bs[:i]
			break
		}
	}
	if !utf8.Valid(bs) {
		return "", errAt(r.valueOffset(), ErrInvalidString, "kind %d", r.Kind)
	}
	return string(bs), nil
}

// Addr reads the value as a 4-byte IPv4 or 16-byte IPv6 address.
func (r Record) Addr() (netip.Addr, error) {
	switch len(r.Value) {
	case 4, 16:
		ret, _ := netip.AddrFromSlice(r.Value)
		return ret, nil
	}
	if len(r.Value) < 4 {
		return netip.Addr{}, errAt(r.valueOffset(), ErrShortBuffer, "kind %d needs a 4 or 16 byte address, have %d", r.Kind, len(r.Value))
	}
	return netip.Addr{}, errAt(r.valueOffset(), ErrMalformedRecord, "kind %d needs a 4 or 16 byte address, have %d", r.Kind, len(r.Value))
}
