// package fragments provides low-level encoding and decoding helpers
// to construct and parse netlink attribute records.
//
// The provided encoder and decoder are very low level, and do not
// encode any protocol semantics. An attribute record is a 4-byte
// header (length, then kind) followed by a value and zero padding to
// the next 4-byte boundary. It is the caller's responsibility to
// produce valid protocol messages using these tools.
//
// You should not need to use this package at all, unless you are
// implementing a protocol's attribute set, in which case your
// decoders will be handed a [fragments.Record] and are expected to
// extract typed values from it.
package fragments
