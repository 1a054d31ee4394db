// Package pingpong implements the ping-pong demonstration protocol.
//
// Ping-pong messages have no protocol header. The payload is a list
// of attributes carrying a text message or a cookie.
package pingpong

import (
	"fmt"

	"github.com/danderson/nlmsg"
	"github.com/danderson/nlmsg/fragments"
)

// Message types.
const (
	TypePing uint16 = 18
	TypePong uint16 = 20
)

const (
	kindText   uint16 = 1
	kindCookie uint16 = 2
)

// Attribute is a ping-pong attribute.
type Attribute interface {
	nlmsg.Attribute
	pingPongAttribute()
}

// Text is a free-form message.
type Text string

func (Text) Kind() uint16         { return kindText }
func (t Text) Value() nlmsg.Value { return nlmsg.String(t) }
func (Text) pingPongAttribute()   {}

// Cookie is an opaque value that a pong echoes back.
type Cookie uint32

func (Cookie) Kind() uint16         { return kindCookie }
func (c Cookie) Value() nlmsg.Value { return nlmsg.Uint32(c) }
func (Cookie) pingPongAttribute()   {}

func parseAttribute(rec fragments.Record) (Attribute, error) {
	switch rec.Kind {
	case kindText:
		v, err := rec.String()
		if err != nil {
			return nil, fmt.Errorf("invalid string for Text: %w", err)
		}
		return Text(v), nil
	case kindCookie:
		v, err := rec.Uint32(fragments.NativeEndian)
		if err != nil {
			return nil, fmt.Errorf("invalid u32 for Cookie: %w", err)
		}
		return Cookie(v), nil
	default:
		return nil, nlmsg.UnknownKind("ping-pong", rec)
	}
}

// Message is a ping-pong message.
type Message interface {
	nlmsg.Message
	pingPongMessage()
}

// Ping is a ping request.
type Ping []Attribute

func (Ping) MessageType() uint16 { return TypePing }
func (m Ping) BufferLen() int    { return nlmsg.PayloadLen(nlmsg.NoHeader{}, []Attribute(m)) }
func (m Ping) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, nlmsg.NoHeader{}, []Attribute(m))
}
func (Ping) pingPongMessage() {}

// Pong is a response to a Ping.
type Pong []Attribute

func (Pong) MessageType() uint16 { return TypePong }
func (m Pong) BufferLen() int    { return nlmsg.PayloadLen(nlmsg.NoHeader{}, []Attribute(m)) }
func (m Pong) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, nlmsg.NoHeader{}, []Attribute(m))
}
func (Pong) pingPongMessage() {}

// Reply returns the Pong answering p. The pong carries the same
// attributes as the ping.
func Reply(p Ping) Pong {
	return Pong(append([]Attribute(nil), p...))
}

// Unmarshal decodes a ping-pong message payload.
func Unmarshal(msgType uint16, payload []byte) (Message, error) {
	if msgType != TypePing && msgType != TypePong {
		return nil, nlmsg.UnknownMessageType("ping-pong", msgType)
	}
	_, attrs, err := nlmsg.ParsePayload(payload, nlmsg.ParseNoHeader, parseAttribute)
	if err != nil {
		return nil, err
	}
	if msgType == TypePing {
		return Ping(attrs), nil
	}
	return Pong(attrs), nil
}

// Protocol is the ping-pong protocol.
var Protocol = nlmsg.Protocol[Message]{
	Name:      "ping-pong",
	Unmarshal: Unmarshal,
}
