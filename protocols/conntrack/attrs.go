package conntrack

import (
	"fmt"
	"net/netip"

	"github.com/danderson/nlmsg"
	"github.com/danderson/nlmsg/fragments"
)

// Top-level attribute kinds.
const (
	kindTupleOrig   uint16 = 1
	kindTupleReply  uint16 = 2
	kindStatus      uint16 = 3
	kindTimeout     uint16 = 7
	kindMark        uint16 = 8
	kindUse         uint16 = 11
	kindID          uint16 = 12
	kindTupleMaster uint16 = 14
	kindZone        uint16 = 18
)

// Attribute is a top-level conntrack attribute.
type Attribute interface {
	nlmsg.Attribute
	conntrackAttribute()
}

// TupleOrig is the connection's tuple in the original direction.
type TupleOrig []TupleAttribute

func (TupleOrig) Kind() uint16         { return kindTupleOrig }
func (t TupleOrig) Value() nlmsg.Value { return nlmsg.Nest[TupleAttribute](t) }
func (TupleOrig) conntrackAttribute()  {}

// TupleReply is the connection's tuple in the reply direction.
type TupleReply []TupleAttribute

func (TupleReply) Kind() uint16         { return kindTupleReply }
func (t TupleReply) Value() nlmsg.Value { return nlmsg.Nest[TupleAttribute](t) }
func (TupleReply) conntrackAttribute()  {}

// TupleMaster is the tuple of the connection that this connection
// is related to.
type TupleMaster []TupleAttribute

func (TupleMaster) Kind() uint16         { return kindTupleMaster }
func (t TupleMaster) Value() nlmsg.Value { return nlmsg.Nest[TupleAttribute](t) }
func (TupleMaster) conntrackAttribute()  {}

// Connection status bits.
const (
	StatusExpected  Status = 1 << 0
	StatusSeenReply Status = 1 << 1
	StatusAssured   Status = 1 << 2
	StatusConfirmed Status = 1 << 3
)

// Status is the connection's status bitmask.
type Status uint32

func (Status) Kind() uint16         { return kindStatus }
func (s Status) Value() nlmsg.Value { return nlmsg.Uint32BE(s) }
func (Status) conntrackAttribute()  {}

// Timeout is the connection's remaining lifetime in seconds.
type Timeout uint32

func (Timeout) Kind() uint16         { return kindTimeout }
func (t Timeout) Value() nlmsg.Value { return nlmsg.Uint32BE(t) }
func (Timeout) conntrackAttribute()  {}

// Mark is the connection's firewall mark.
type Mark uint32

func (Mark) Kind() uint16         { return kindMark }
func (m Mark) Value() nlmsg.Value { return nlmsg.Uint32BE(m) }
func (Mark) conntrackAttribute()  {}

// Use is the connection's reference count.
type Use uint32

func (Use) Kind() uint16         { return kindUse }
func (u Use) Value() nlmsg.Value { return nlmsg.Uint32BE(u) }
func (Use) conntrackAttribute()  {}

// ID is the connection's kernel identifier.
type ID uint32

func (ID) Kind() uint16         { return kindID }
func (i ID) Value() nlmsg.Value { return nlmsg.Uint32BE(i) }
func (ID) conntrackAttribute()  {}

// Zone is the connection's conntrack zone.
type Zone uint16

func (Zone) Kind() uint16         { return kindZone }
func (z Zone) Value() nlmsg.Value { return nlmsg.Uint16BE(z) }
func (Zone) conntrackAttribute()  {}

func parseAttribute(rec fragments.Record) (Attribute, error) {
	switch rec.Kind {
	case kindTupleOrig:
		ts, err := parseTuple(rec)
		return TupleOrig(ts), err
	case kindTupleReply:
		ts, err := parseTuple(rec)
		return TupleReply(ts), err
	case kindTupleMaster:
		ts, err := parseTuple(rec)
		return TupleMaster(ts), err
	case kindStatus:
		v, err := rec.Uint32(fragments.BigEndian)
		return Status(v), err
	case kindTimeout:
		v, err := rec.Uint32(fragments.BigEndian)
		return Timeout(v), err
	case kindMark:
		v, err := rec.Uint32(fragments.BigEndian)
		return Mark(v), err
	case kindUse:
		v, err := rec.Uint32(fragments.BigEndian)
		return Use(v), err
	case kindID:
		v, err := rec.Uint32(fragments.BigEndian)
		return ID(v), err
	case kindZone:
		v, err := rec.Uint16(fragments.BigEndian)
		return Zone(v), err
	default:
		return nil, nlmsg.UnknownKind("conntrack", rec)
	}
}

// Tuple attribute kinds.
const (
	kindTupleIP    uint16 = 1
	kindTupleProto uint16 = 2
	kindTupleZone  uint16 = 3
)

// TupleAttribute is an attribute nested in a tuple.
type TupleAttribute interface {
	nlmsg.Attribute
	tupleAttribute()
}

// TupleIP holds the tuple's addresses.
type TupleIP []IPAttribute

func (TupleIP) Kind() uint16         { return kindTupleIP }
func (t TupleIP) Value() nlmsg.Value { return nlmsg.Nest[IPAttribute](t) }
func (TupleIP) tupleAttribute()      {}

// TupleProto holds the tuple's transport protocol and ports.
type TupleProto []ProtoAttribute

func (TupleProto) Kind() uint16         { return kindTupleProto }
func (t TupleProto) Value() nlmsg.Value { return nlmsg.Nest[ProtoAttribute](t) }
func (TupleProto) tupleAttribute()      {}

// TupleZone is the tuple's conntrack zone.
type TupleZone uint16

func (TupleZone) Kind() uint16         { return kindTupleZone }
func (z TupleZone) Value() nlmsg.Value { return nlmsg.Uint16BE(z) }
func (TupleZone) tupleAttribute()      {}

func parseTuple(rec fragments.Record) ([]TupleAttribute, error) {
	return nlmsg.ParseAttributes(rec.Children(), parseTupleAttribute)
}

func parseTupleAttribute(rec fragments.Record) (TupleAttribute, error) {
	switch rec.Kind {
	case kindTupleIP:
		as, err := nlmsg.ParseAttributes(rec.Children(), parseIPAttribute)
		return TupleIP(as), err
	case kindTupleProto:
		as, err := nlmsg.ParseAttributes(rec.Children(), parseProtoAttribute)
		return TupleProto(as), err
	case kindTupleZone:
		v, err := rec.Uint16(fragments.BigEndian)
		return TupleZone(v), err
	default:
		return nil, nlmsg.UnknownKind("conntrack tuple", rec)
	}
}

// Address attribute kinds.
const (
	kindIPv4Src uint16 = 1
	kindIPv4Dst uint16 = 2
	kindIPv6Src uint16 = 3
	kindIPv6Dst uint16 = 4
)

// IPAttribute is an attribute nested in [TupleIP].
type IPAttribute interface {
	nlmsg.Attribute
	ipAttribute()
}

// SourceAddress is the tuple's source address. Its kind depends on
// whether Addr is an IPv4 or IPv6 address. Addr must be valid:
// encoding a SourceAddress with the zero netip.Addr panics.
type SourceAddress struct{ Addr netip.Addr }

func (a SourceAddress) Kind() uint16 {
	if a.Addr.Is4() {
		return kindIPv4Src
	}
	return kindIPv6Src
}
func (a SourceAddress) Value() nlmsg.Value { return nlmsg.Addr(a.Addr) }
func (SourceAddress) ipAttribute()         {}

// DestinationAddress is the tuple's destination address. Its kind
// depends on whether Addr is an IPv4 or IPv6 address. As with
// [SourceAddress], Addr must be valid.
type DestinationAddress struct{ Addr netip.Addr }

func (a DestinationAddress) Kind() uint16 {
	if a.Addr.Is4() {
		return kindIPv4Dst
	}
	return kindIPv6Dst
}
func (a DestinationAddress) Value() nlmsg.Value { return nlmsg.Addr(a.Addr) }
func (DestinationAddress) ipAttribute()         {}

func parseIPAttribute(rec fragments.Record) (IPAttribute, error) {
	switch rec.Kind {
	case kindIPv4Src, kindIPv6Src:
		ip, err := parseAddr(rec, rec.Kind == kindIPv4Src)
		return SourceAddress{ip}, err
	case kindIPv4Dst, kindIPv6Dst:
		ip, err := parseAddr(rec, rec.Kind == kindIPv4Dst)
		return DestinationAddress{ip}, err
	default:
		return nil, nlmsg.UnknownKind("conntrack address", rec)
	}
}

func parseAddr(rec fragments.Record, want4 bool) (netip.Addr, error) {
	ip, err := rec.Addr()
	if err != nil {
		return netip.Addr{}, err
	}
	if ip.Is4() != want4 {
		return netip.Addr{}, &fragments.Error{
			Offset: rec.Offset + fragments.AttrHeaderLen,
			Err:    fragments.ErrMalformedRecord,
			Detail: fmt.Sprintf("kind %d has a %d-byte address", rec.Kind, len(rec.Value)),
		}
	}
	return ip, nil
}

// Protocol attribute kinds.
const (
	kindProtoNum     uint16 = 1
	kindProtoSrcPort uint16 = 2
	kindProtoDstPort uint16 = 3
	kindICMPID       uint16 = 4
	kindICMPType     uint16 = 5
	kindICMPCode     uint16 = 6
)

// ProtoAttribute is an attribute nested in [TupleProto].
type ProtoAttribute interface {
	nlmsg.Attribute
	protoAttribute()
}

// IP protocol numbers.
const (
	ProtoICMP   IPProto = 1
	ProtoTCP    IPProto = 6
	ProtoUDP    IPProto = 17
	ProtoICMPv6 IPProto = 58
)

// IPProto is the tuple's IP protocol number.
type IPProto uint8

func (IPProto) Kind() uint16         { return kindProtoNum }
func (p IPProto) Value() nlmsg.Value { return nlmsg.Uint8(p) }
func (IPProto) protoAttribute()      {}

// SourcePort is the tuple's TCP, UDP or SCTP source port.
type SourcePort uint16

func (SourcePort) Kind() uint16         { return kindProtoSrcPort }
func (p SourcePort) Value() nlmsg.Value { return nlmsg.Uint16BE(p) }
func (SourcePort) protoAttribute()      {}

// DestinationPort is the tuple's TCP, UDP or SCTP destination port.
type DestinationPort uint16

func (DestinationPort) Kind() uint16         { return kindProtoDstPort }
func (p DestinationPort) Value() nlmsg.Value { return nlmsg.Uint16BE(p) }
func (DestinationPort) protoAttribute()      {}

// ICMPID is the tuple's ICMP echo identifier.
type ICMPID uint16

func (ICMPID) Kind() uint16         { return kindICMPID }
func (i ICMPID) Value() nlmsg.Value { return nlmsg.Uint16BE(i) }
func (ICMPID) protoAttribute()      {}

// ICMPType is the tuple's ICMP message type.
type ICMPType uint8

func (ICMPType) Kind() uint16         { return kindICMPType }
func (t ICMPType) Value() nlmsg.Value { return nlmsg.Uint8(t) }
func (ICMPType) protoAttribute()      {}

// ICMPCode is the tuple's ICMP message code.
type ICMPCode uint8

func (ICMPCode) Kind() uint16         { return kindICMPCode }
func (c ICMPCode) Value() nlmsg.Value { return nlmsg.Uint8(c) }
func (ICMPCode) protoAttribute()      {}

func parseProtoAttribute(rec fragments.Record) (ProtoAttribute, error) {
	switch rec.Kind {
	case kindProtoNum:
		v, err := rec.Uint8()
		return IPProto(v), err
	case kindProtoSrcPort:
		v, err := rec.Uint16(fragments.BigEndian)
		return SourcePort(v), err
	case kindProtoDstPort:
		v, err := rec.Uint16(fragments.BigEndian)
		return DestinationPort(v), err
	case kindICMPID:
		v, err := rec.Uint16(fragments.BigEndian)
		return ICMPID(v), err
	case kindICMPType:
		v, err := rec.Uint8()
		return ICMPType(v), err
	case kindICMPCode:
		v, err := rec.Uint8()
		return ICMPCode(v), err
	default:
		return nil, nlmsg.UnknownKind("conntrack protocol", rec)
	}
}

// Tuple returns the tuple attributes describing a connection from
// src to dst over the given IP protocol. src and dst must have valid
// addresses.
func Tuple(proto IPProto, src, dst netip.AddrPort) []TupleAttribute {
	return []TupleAttribute{
		TupleIP{
			SourceAddress{src.Addr()},
			DestinationAddress{dst.Addr()},
		},
		TupleProto{
			proto,
			SourcePort(src.Port()),
			DestinationPort(dst.Port()),
		},
	}
}
