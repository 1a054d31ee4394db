// Package conntrack implements a subset of the netfilter connection
// tracking protocol.
//
// Conntrack messages carry a [Header] followed by a three-level
// attribute tree: top-level connection attributes, tuple attributes
// nested inside [TupleOrig] and [TupleReply], and address and
// protocol attributes nested inside [TupleIP] and [TupleProto].
package conntrack

import (
	"fmt"

	"github.com/danderson/nlmsg"
)

// Subsystem is the nfnetlink subsystem ID of conntrack. It forms the
// high byte of conntrack message types.
const Subsystem = 1

// Message types.
const (
	TypeNew    uint16 = Subsystem<<8 | 0
	TypeGet    uint16 = Subsystem<<8 | 1
	TypeDelete uint16 = Subsystem<<8 | 2
)

// Version0 is the only defined nfnetlink header version.
const Version0 = 0

// Family is the address family a request applies to.
type Family uint8

const (
	Unspec Family = 0
	IPv4   Family = 2
	IPv6   Family = 10
)

func (f Family) Valid() bool {
	switch f {
	case Unspec, IPv4, IPv6:
		return true
	default:
		return false
	}
}

func (f Family) String() string {
	switch f {
	case Unspec:
		return "unspec"
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

// Header is the nfnetlink generic header.
type Header = nlmsg.GenHeader[Family]

// Message is a conntrack message.
type Message interface {
	nlmsg.Message
	conntrackMessage()
}

// New creates or reports a connection.
type New struct {
	Header Header
	Attrs  []Attribute
}

func (New) MessageType() uint16 { return TypeNew }
func (m New) BufferLen() int    { return nlmsg.PayloadLen(m.Header, m.Attrs) }
func (m New) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, m.Header, m.Attrs)
}
func (New) conntrackMessage() {}

// Get requests connections. With [nlmsg.FlagDump] set in the packet
// header and no attributes, it lists the whole table.
type Get struct {
	Header Header
	Attrs  []Attribute
}

func (Get) MessageType() uint16 { return TypeGet }
func (m Get) BufferLen() int    { return nlmsg.PayloadLen(m.Header, m.Attrs) }
func (m Get) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, m.Header, m.Attrs)
}
func (Get) conntrackMessage() {}

// Delete removes connections.
type Delete struct {
	Header Header
	Attrs  []Attribute
}

func (Delete) MessageType() uint16 { return TypeDelete }
func (m Delete) BufferLen() int    { return nlmsg.PayloadLen(m.Header, m.Attrs) }
func (m Delete) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, m.Header, m.Attrs)
}
func (Delete) conntrackMessage() {}

// Unmarshal decodes a conntrack message payload.
func Unmarshal(msgType uint16, payload []byte) (Message, error) {
	switch msgType {
	case TypeNew, TypeGet, TypeDelete:
	default:
		return nil, nlmsg.UnknownMessageType("conntrack", msgType)
	}
	hdr, attrs, err := nlmsg.ParsePayload(payload, nlmsg.ParseGenHeader[Family], parseAttribute)
	if err != nil {
		return nil, err
	}
	switch msgType {
	case TypeNew:
		return New{hdr, attrs}, nil
	case TypeGet:
		return Get{hdr, attrs}, nil
	default:
		return Delete{hdr, attrs}, nil
	}
}

// Protocol is the conntrack protocol.
var Protocol = nlmsg.Protocol[Message]{
	Name:      "conntrack",
	Unmarshal: Unmarshal,
}
