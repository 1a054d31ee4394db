package nlmsg_test

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/danderson/nlmsg"
	"github.com/danderson/nlmsg/fragments"
)

// testAttr is a small attribute set covering every value variant.
type testAttr interface {
	nlmsg.Attribute
	isTestAttr()
}

type (
	u8   uint8
	u16  uint16
	u32  uint32
	be16 uint16
	be32 uint32
	str  string
	addr struct{ IP netip.Addr }
	nest []testAttr
)

func (u8) Kind() uint16   { return 1 }
func (u16) Kind() uint16  { return 2 }
func (u32) Kind() uint16  { return 3 }
func (be16) Kind() uint16 { return 4 }
func (be32) Kind() uint16 { return 5 }
func (str) Kind() uint16  { return 6 }
func (addr) Kind() uint16 { return 7 }
func (nest) Kind() uint16 { return 8 }

func (v u8) Value() nlmsg.Value   { return nlmsg.Uint8(v) }
func (v u16) Value() nlmsg.Value  { return nlmsg.Uint16(v) }
func (v u32) Value() nlmsg.Value  { return nlmsg.Uint32(v) }
func (v be16) Value() nlmsg.Value { return nlmsg.Uint16BE(v) }
func (v be32) Value() nlmsg.Value { return nlmsg.Uint32BE(v) }
func (v str) Value() nlmsg.Value  { return nlmsg.String(v) }
func (v addr) Value() nlmsg.Value { return nlmsg.Addr(v.IP) }
func (v nest) Value() nlmsg.Value { return nlmsg.Nest[testAttr](v) }

func (u8) isTestAttr()   {}
func (u16) isTestAttr()  {}
func (u32) isTestAttr()  {}
func (be16) isTestAttr() {}
func (be32) isTestAttr() {}
func (str) isTestAttr()  {}
func (addr) isTestAttr() {}
func (nest) isTestAttr() {}

func parseTestAttr(rec fragments.Record) (testAttr, error) {
	switch rec.Kind {
	case 1:
		v, err := rec.Uint8()
		return u8(v), err
	case 2:
		v, err := rec.Uint16(fragments.NativeEndian)
		return u16(v), err
	case 3:
		v, err := rec.Uint32(fragments.NativeEndian)
		return u32(v), err
	case 4:
		v, err := rec.Uint16(fragments.BigEndian)
		return be16(v), err
	case 5:
		v, err := rec.Uint32(fragments.BigEndian)
		return be32(v), err
	case 6:
		v, err := rec.String()
		return str(v), err
	case 7:
		v, err := rec.Addr()
		return addr{v}, err
	case 8:
		v, err := nlmsg.ParseAttributes(rec.Children(), parseTestAttr)
		return nest(v), err
	default:
		return nil, nlmsg.UnknownKind("test", rec)
	}
}

// testFamily is a GenHeader family with members 0 through 2.
type testFamily uint8

func (f testFamily) Valid() bool { return f <= 2 }

type testHeader = nlmsg.GenHeader[testFamily]

const (
	typeTest  uint16 = 0x42
	typeOther uint16 = 0x43
)

type testMsg struct {
	Header testHeader
	Attrs  []testAttr
}

func (testMsg) MessageType() uint16 { return typeTest }
func (m testMsg) BufferLen() int    { return nlmsg.PayloadLen(m.Header, m.Attrs) }
func (m testMsg) AppendPayload(b []byte) []byte {
	return nlmsg.AppendPayload(b, m.Header, m.Attrs)
}

var testProtocol = nlmsg.Protocol[testMsg]{
	Name: "test",
	Unmarshal: func(msgType uint16, payload []byte) (testMsg, error) {
		if msgType != typeTest {
			return testMsg{}, nlmsg.UnknownMessageType("test", msgType)
		}
		hdr, attrs, err := nlmsg.ParsePayload(payload, nlmsg.ParseGenHeader[testFamily], parseTestAttr)
		if err != nil {
			return testMsg{}, err
		}
		return testMsg{hdr, attrs}, nil
	},
}

// wantPanic checks that f panics with a message naming the nlmsg
// package.
func wantPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s did not panic", what)
			return
		}
		if msg, ok := r.(string); !ok || !strings.HasPrefix(msg, "nlmsg: ") {
			t.Errorf("%s panicked with %v, want an nlmsg message", what, r)
		}
	}()
	f()
}
