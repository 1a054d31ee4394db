// Package nlmsg implements a codec for netlink-style messages: a
// fixed protocol header followed by a tree of type-length-value
// attributes.
//
// An attribute record on the wire is a 16-bit length, a 16-bit kind,
// the value, and zero padding up to the next 4-byte boundary. The
// length field counts the header and the value, but never the
// padding. The top bit of the kind field is set when the value is
// itself a sequence of attribute records.
//
// Protocols describe each nesting level of their attribute tree as a
// closed set of Go types implementing [Attribute]. An attribute
// reports its kind code and its [Value], and the Value determines
// both the encoding and whether the nested bit is set, so that the
// in-memory type and the wire flag cannot disagree:
//
//	type Hotness uint32
//
//	func (Hotness) Kind() uint16          { return 2 }
//	func (h Hotness) Value() nlmsg.Value { return nlmsg.Uint32(h) }
//
// Values are one of [Uint8], [Uint16], [Uint32], [Uint16BE],
// [Uint32BE], [String], [Addr] or [Nest]. A Nest holds child
// attributes of another level's closed set.
//
// Decoding is the inverse, driven by a per-level parse function that
// switches on the record kind and returns [UnknownKind] for anything
// outside its table:
//
//	func parseAttribute(rec fragments.Record) (Attribute, error) {
//		switch rec.Kind {
//		case 2:
//			v, err := rec.Uint32(fragments.NativeEndian)
//			return Hotness(v), err
//		default:
//			return nil, nlmsg.UnknownKind("beverage", rec)
//		}
//	}
//
// [ParseAttributes] drives a parse function over a buffer, and
// [ParsePayload] decodes a protocol header followed by an attribute
// tree. There is no partial decoding: the first error aborts the
// whole tree, and unknown kinds are never skipped.
//
// A protocol's top-level messages implement [Message], which reports
// the message type code for the enclosing netlink header. [Packet]
// pairs a message with that header, and [UnmarshalPacket] dispatches
// a received buffer to a [Protocol].
//
// Encoding never fails. Callers compute the encoded size with
// BufferLen, allocate, and append into the allocation, so output
// buffers are never resized or overrun.
//
// The codec holds no state. All functions are safe for concurrent
// use.
package nlmsg
