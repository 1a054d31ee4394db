// Package beverage implements the tea and coffee demonstration
// protocol.
//
// A beverage message is a [Header] whose family says whether the
// drink is hot or cold, followed by a flat list of attributes about
// the drink and who it is for.
package beverage

import (
	"fmt"

	"github.com/danderson/nlmsg"
	"github.com/danderson/nlmsg/fragments"
)

// Message types.
const (
	TypeTea    uint16 = 0x13
	TypeCoffee uint16 = 0x14
)

// Protocol-specific packet header flags, for use alongside
// [nlmsg.FlagRequest] and friends.
const (
	FlagSpill uint16 = 1 << 8
	FlagServe uint16 = 1 << 9
	FlagDrink uint16 = 1 << 10
	FlagWash  uint16 = 1 << 11
)

// Family is the temperature of a beverage.
type Family uint8

const (
	Hot  Family = 2
	Cold Family = 10
)

func (f Family) Valid() bool {
	return f == Hot || f == Cold
}

func (f Family) String() string {
	switch f {
	case Hot:
		return "hot"
	case Cold:
		return "cold"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

// ParseFamily returns the Family named s.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "hot":
		return Hot, nil
	case "cold":
		return Cold, nil
	default:
		return 0, fmt.Errorf("unknown beverage family %q", s)
	}
}

// Header is the beverage protocol header.
type Header = nlmsg.GenHeader[Family]

// Attribute kinds.
const (
	kindCaffeineContent uint16 = 1
	kindHotness         uint16 = 2
	kindPersonName      uint16 = 3
)

// Attribute is a beverage attribute.
type Attribute interface {
	nlmsg.Attribute
	beverageAttribute()
}

// CaffeineContent is the drink's caffeine content.
type CaffeineContent uint32

func (CaffeineContent) Kind() uint16         { return kindCaffeineContent }
func (c CaffeineContent) Value() nlmsg.Value { return nlmsg.Uint32(c) }
func (CaffeineContent) beverageAttribute()   {}

// Hotness is how hot the drink is.
type Hotness uint32

func (Hotness) Kind() uint16         { return kindHotness }
func (h Hotness) Value() nlmsg.Value { return nlmsg.Uint32(h) }
func (Hotness) beverageAttribute()   {}

// PersonName is the name of the person the drink is for.
type PersonName string

func (PersonName) Kind() uint16         { return kindPersonName }
func (p PersonName) Value() nlmsg.Value { return nlmsg.String(p) }
func (PersonName) beverageAttribute()   {}

func parseAttribute(rec fragments.Record) (Attribute, error) {
	switch rec.Kind {
	case kindCaffeineContent:
		v, err := rec.Uint32(fragments.NativeEndian)
		if err != nil {
			return nil, fmt.Errorf("invalid u32 for CaffeineContent: %w", err)
		}
		return CaffeineContent(v), nil
	case kindHotness:
		v, err := rec.Uint32(fragments.NativeEndian)
		if err != nil {
			return nil, fmt.Errorf("invalid u32 for Hotness: %w", err)
		}
		return Hotness(v), nil
	case kindPersonName:
		v, err := rec.String()
		if err != nil {
			return nil, fmt.Errorf("invalid string for PersonName: %w", err)
		}
		return PersonName(v), nil
	default:
		return nil, nlmsg.UnknownKind("beverage", rec)
	}
}

// Message is a beverage protocol message.
type Message interface {
	nlmsg.Message
	beverageMessage()
}

// Tea is a request for tea.
type Tea struct {
	Header Header
	Attrs  []Attribute
}

func (Tea) MessageType() uint16 { return TypeTea }
func (m Tea) BufferLen() int    { return nlmsg.PayloadLen(m.Header, m.Attrs) }
func (m Tea) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, m.Header, m.Attrs)
}
func (Tea) beverageMessage() {}

// Coffee is a request for coffee.
type Coffee struct {
	Header Header
	Attrs  []Attribute
}

func (Coffee) MessageType() uint16 { return TypeCoffee }
func (m Coffee) BufferLen() int    { return nlmsg.PayloadLen(m.Header, m.Attrs) }
func (m Coffee) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, m.Header, m.Attrs)
}
func (Coffee) beverageMessage() {}

// Unmarshal decodes a beverage message payload.
func Unmarshal(msgType uint16, payload []byte) (Message, error) {
	if msgType != TypeTea && msgType != TypeCoffee {
		return nil, nlmsg.UnknownMessageType("beverage", msgType)
	}
	hdr, attrs, err := nlmsg.ParsePayload(payload, nlmsg.ParseGenHeader[Family], parseAttribute)
	if err != nil {
		return nil, err
	}
	if msgType == TypeTea {
		return Tea{hdr, attrs}, nil
	}
	return Coffee{hdr, attrs}, nil
}

// Protocol is the beverage protocol.
var Protocol = nlmsg.Protocol[Message]{
	Name:      "beverage",
	Unmarshal: Unmarshal,
}
