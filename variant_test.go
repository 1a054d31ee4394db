package nlmsg_test

import (
	"net/netip"
	"testing"

	"github.com/danderson/nlmsg"
)

func TestValueLen(t *testing.T) {
	tests := []struct {
		name string
		v    nlmsg.Value
		want int
	}{
		{"u8", nlmsg.Uint8(1), 1},
		{"u16", nlmsg.Uint16(1), 2},
		{"u32", nlmsg.Uint32(1), 4},
		{"u16be", nlmsg.Uint16BE(1), 2},
		{"u32be", nlmsg.Uint32BE(1), 4},
		{"empty string", nlmsg.String(""), 1},
		{"string", nlmsg.String("Alice"), 6},
		{"multibyte string", nlmsg.String("Zoë"), 5},
		{"ipv4", nlmsg.Addr(netip.MustParseAddr("10.0.0.1")), 4},
		{"ipv6", nlmsg.Addr(netip.MustParseAddr("2001:db8::1")), 16},
		{"mapped ipv4", nlmsg.Addr(netip.MustParseAddr("::ffff:10.0.0.1")), 16},
		{"empty nest", nlmsg.Nest[testAttr](nil), 0},
		{"nest", nlmsg.Nest[testAttr]{u8(1), str("abcd")}, 20},
	}
	for _, tc := range tests {
		if got := tc.v.Len(); got != tc.want {
			t.Errorf("%s: Len() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestZeroAddr(t *testing.T) {
	wantPanic(t, "Len", func() { nlmsg.Addr(netip.Addr{}).Len() })
	wantPanic(t, "MarshalTree", func() { nlmsg.MarshalTree([]testAttr{addr{}}) })
	wantPanic(t, "nested MarshalTree", func() { nlmsg.MarshalTree([]testAttr{nest{addr{}}}) })
}
