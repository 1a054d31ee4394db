package nlmsg

import (
	"fmt"

	"github.com/danderson/nlmsg/fragments"
)

// A Header is a protocol's fixed-width header, which precedes the
// attribute tree in a message payload.
type Header interface {
	// HeaderLen returns the encoded length of the header. It must
	// not depend on the header's field values.
	HeaderLen() int
	// AppendHeader appends the header's encoding to b.
	AppendHeader(b []byte) []byte
}

// NoHeader is the Header of protocols whose payload is only an
// attribute tree.
type NoHeader struct{}

func (NoHeader) HeaderLen() int               { return 0 }
func (NoHeader) AppendHeader(b []byte) []byte { return b }

// ParseNoHeader is the parse function for [NoHeader].
func ParseNoHeader([]byte) (NoHeader, error) { return NoHeader{}, nil }

// A Family is the type of a [GenHeader] family field. Valid reports
// whether the value is a member of the family's enumeration.
type Family interface {
	~uint8
	Valid() bool
}

// GenHeaderLen is the encoded length of a [GenHeader].
const GenHeaderLen = 4

// GenHeader is the 4-byte generic header used by netfilter-style
// protocols: a family byte, a version byte and a 16-bit resource ID
// in host byte order.
type GenHeader[F Family] struct {
	Family     F
	Version    uint8
	ResourceID uint16
}

func (GenHeader[F]) HeaderLen() int { return GenHeaderLen }

func (h GenHeader[F]) AppendHeader(b []byte) []byte {
	e := fragments.Encoder{Out: b}
	e.Uint8(uint8(h.Family))
	e.Uint8(h.Version)
	e.Uint16(fragments.NativeEndian, h.ResourceID)
	return e.Out
}

// ParseGenHeader decodes a GenHeader from the start of bs. It returns
// an [ErrInvalidEnumValue] error if the family byte is not a valid
// F.
func ParseGenHeader[F Family](bs []byte) (GenHeader[F], error) {
	if len(bs) < GenHeaderLen {
		return GenHeader[F]{}, DecodeError{ErrPayloadTooShort, 0, uint32(len(bs)), fmt.Sprintf("%d-byte generic header", GenHeaderLen)}
	}
	fam := F(bs[0])
	if !fam.Valid() {
		return GenHeader[F]{}, InvalidEnumValue("generic header family", 0, uint32(bs[0]))
	}
	return GenHeader[F]{
		Family:     fam,
		Version:    bs[1],
		ResourceID: fragments.NativeEndian.Uint16(bs[2:4]),
	}, nil
}

// PacketHeaderLen is the encoded length of a [PacketHeader].
const PacketHeaderLen = 16

// Packet header flags.
const (
	FlagRequest uint16 = 0x1
	FlagMulti   uint16 = 0x2
	FlagAck     uint16 = 0x4
	FlagEcho    uint16 = 0x8

	// Modifiers for get requests.
	FlagRoot   uint16 = 0x100
	FlagMatch  uint16 = 0x200
	FlagAtomic uint16 = 0x400
	FlagDump          = FlagRoot | FlagMatch
)

// PacketHeader is the generic netlink envelope that precedes every
// message. All fields are in host byte order.
type PacketHeader struct {
	// Length is the length of the packet, including this header.
	Length uint32
	// Type is the message type, used to dispatch the payload to a
	// protocol message.
	Type uint16
	// Flags is a bitmask of Flag* values and protocol-specific
	// flags.
	Flags uint16
	// Sequence is the sequence number chosen by the sender.
	Sequence uint32
	// Port is the sending socket's port ID.
	Port uint32
}

func (h PacketHeader) appendHeader(b []byte) []byte {
	e := fragments.Encoder{Out: b}
	e.Uint32(fragments.NativeEndian, h.Length)
	e.Uint16(fragments.NativeEndian, h.Type)
	e.Uint16(fragments.NativeEndian, h.Flags)
	e.Uint32(fragments.NativeEndian, h.Sequence)
	e.Uint32(fragments.NativeEndian, h.Port)
	return e.Out
}

func parsePacketHeader(bs []byte) (PacketHeader, error) {
	if len(bs) < PacketHeaderLen {
		return PacketHeader{}, DecodeError{ErrPayloadTooShort, 0, uint32(len(bs)), fmt.Sprintf("%d-byte packet header", PacketHeaderLen)}
	}
	o := fragments.NativeEndian
	ret := PacketHeader{
		Length:   o.Uint32(bs[0:4]),
		Type:     o.Uint16(bs[4:6]),
		Flags:    o.Uint16(bs[6:8]),
		Sequence: o.Uint32(bs[8:12]),
		Port:     o.Uint32(bs[12:16]),
	}
	switch {
	case ret.Length < PacketHeaderLen:
		return PacketHeader{}, DecodeError{ErrMalformedRecord, 0, ret.Length, "packet length"}
	case int64(ret.Length) > int64(len(bs)):
		return PacketHeader{}, DecodeError{ErrPayloadTooShort, 0, ret.Length, fmt.Sprintf("packet length exceeds the %d bytes available", len(bs))}
	}
	return ret, nil
}
