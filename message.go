package nlmsg

import "github.com/danderson/nlmsg/fragments"

// A Message is one of a protocol's top-level messages.
//
// Each protocol defines a closed set of messages, conventionally as
// an interface that embeds Message and adds an unexported marker
// method.
type Message interface {
	// MessageType returns the message type code carried in the
	// packet header. It depends only on the message variant, not on
	// its contents.
	MessageType() uint16
	// BufferLen returns the encoded length of the message payload.
	BufferLen() int
	// AppendPayload appends the encoded payload to b.
	AppendPayload(b []byte) []byte
}

// Marshal returns the encoded payload of m.
func Marshal(m Message) []byte {
	return m.AppendPayload(make([]byte, 0, m.BufferLen()))
}

// PayloadLen returns the encoded length of a payload consisting of
// hdr followed by attrs. Messages use it to implement BufferLen.
func PayloadLen[H Header, A Attribute](hdr H, attrs []A) int {
	return hdr.HeaderLen() + TreeLen(attrs)
}

// AppendPayload appends hdr and attrs to b, with no padding between
// them. Messages use it to implement AppendPayload.
func AppendPayload[H Header, A Attribute](b []byte, hdr H, attrs []A) []byte {
	return AppendTree(hdr.AppendHeader(b), attrs)
}

// ParsePayload decodes a payload consisting of a header, decoded
// with parseHeader, followed by an attribute tree, decoded with
// parseAttr.
//
// The payload must be at least as long as H's HeaderLen. Error
// offsets are relative to the start of payload.
func ParsePayload[H Header, A Attribute](payload []byte, parseHeader func([]byte) (H, error), parseAttr func(fragments.Record) (A, error)) (H, []A, error) {
	var zero H
	hlen := zero.HeaderLen()
	if len(payload) < hlen {
		return zero, nil, DecodeError{ErrPayloadTooShort, 0, uint32(len(payload)), "payload shorter than protocol header"}
	}
	hdr, err := parseHeader(payload[:hlen])
	if err != nil {
		return zero, nil, err
	}
	attrs, err := ParseAttributes(fragments.Decoder{In: payload[hlen:], Offset: hlen}, parseAttr)
	if err != nil {
		return zero, nil, err
	}
	return hdr, attrs, nil
}

// A Protocol decodes the payloads of one protocol's messages.
type Protocol[M Message] struct {
	// Name is the protocol's name, for use in errors and logs.
	Name string
	// Unmarshal decodes payload as the message identified by
	// msgType. It must return an [ErrUnknownMessageType] error for
	// codes that do not belong to the protocol.
	Unmarshal func(msgType uint16, payload []byte) (M, error)
}
