package nlmsg

import "fmt"

// A Packet is a message wrapped in a netlink packet header.
type Packet[M Message] struct {
	Header  PacketHeader
	Payload M
}

// NewPacket returns a finalized packet containing m.
func NewPacket[M Message](m M) Packet[M] {
	ret := Packet[M]{Payload: m}
	ret.Finalize()
	return ret
}

// Finalize sets the header's Length and Type to match the payload.
//
// Marshal encodes the header verbatim, so Finalize must be called
// after changing the payload.
func (p *Packet[M]) Finalize() {
	p.Header.Length = uint32(p.BufferLen())
	p.Header.Type = p.Payload.MessageType()
}

// BufferLen returns the encoded length of the packet.
func (p Packet[M]) BufferLen() int {
	return PacketHeaderLen + p.Payload.BufferLen()
}

// Marshal returns the encoded packet.
func (p Packet[M]) Marshal() []byte {
	return p.AppendPacket(make([]byte, 0, p.BufferLen()))
}

// AppendPacket appends the encoded packet to b.
func (p Packet[M]) AppendPacket(b []byte) []byte {
	b = p.Header.appendHeader(b)
	return p.Payload.AppendPayload(b)
}

// UnmarshalPacket decodes the packet at the start of bs, dispatching
// its payload to proto based on the header's message type.
//
// Bytes beyond the header's Length are ignored.
func UnmarshalPacket[M Message](bs []byte, proto Protocol[M]) (Packet[M], error) {
	hdr, err := parsePacketHeader(bs)
	if err != nil {
		return Packet[M]{}, fmt.Errorf("decoding %s packet: %w", proto.Name, err)
	}
	msg, err := proto.Unmarshal(hdr.Type, bs[PacketHeaderLen:hdr.Length])
	if err != nil {
		return Packet[M]{}, fmt.Errorf("decoding %s packet payload: %w", proto.Name, err)
	}
	return Packet[M]{hdr, msg}, nil
}
