// Package nlmsgtest provides helpers for testing netlink protocol
// bindings.
package nlmsgtest

import (
	"bytes"
	"encoding/hex"
	"errors"
	"net/netip"
	"strings"
	"testing"

	"github.com/danderson/nlmsg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sys/cpu"
)

// CmpOptions are the go-cmp options for comparing decoded messages
// and attributes.
var CmpOptions = []cmp.Option{
	cmpopts.EquateComparable(netip.Addr{}),
	cmpopts.EquateEmpty(),
}

// Diff returns a human-readable report of the differences between
// two values, or the empty string if they are equal.
func Diff(got, want any) string {
	return cmp.Diff(got, want, CmpOptions...)
}

// Unhex decodes s as hex. Whitespace in s is ignored, so that byte
// dumps can be laid out to show record boundaries. It calls t.Fatal
// if s is not valid hex.
func Unhex(t testing.TB, s string) []byte {
	t.Helper()
	s = strings.Join(strings.Fields(s), "")
	ret, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex %q: %v", s, err)
	}
	return ret
}

// SkipIfBigEndian skips the calling test on big-endian hosts. Tests
// that compare encodings against literal byte dumps use it, since
// netlink headers and most values are in host byte order.
func SkipIfBigEndian(t testing.TB) {
	t.Helper()
	if cpu.IsBigEndian {
		t.Skip("byte dump assumes a little-endian host")
	}
}

// RoundTrip encodes m in a packet, checks that it decodes back to m
// using proto, and returns the encoded packet.
//
// It checks that [nlmsg.Marshal] produces m.BufferLen() bytes, and
// that they match the packet's payload.
//
// It also checks that every strict prefix of the encoded packet
// fails to decode.
func RoundTrip[M nlmsg.Message](t testing.TB, proto nlmsg.Protocol[M], m M) []byte {
	t.Helper()
	pkt := nlmsg.NewPacket(m)
	bs := pkt.Marshal()
	if got, want := len(bs), pkt.BufferLen(); got != want {
		t.Fatalf("%s: encoded %d bytes, BufferLen says %d", proto.Name, got, want)
	}
	payload := nlmsg.Marshal(m)
	if got, want := len(payload), m.BufferLen(); got != want {
		t.Fatalf("%s: marshaled %d payload bytes, BufferLen says %d", proto.Name, got, want)
	}
	if !bytes.Equal(payload, bs[nlmsg.PacketHeaderLen:]) {
		t.Fatalf("%s: payload %x does not match packet %x", proto.Name, payload, bs)
	}
	got, err := nlmsg.UnmarshalPacket(bs, proto)
	if err != nil {
		t.Fatalf("%s: decoding %x: %v", proto.Name, bs, err)
	}
	if diff := Diff(got, pkt); diff != "" {
		t.Fatalf("%s: round trip changed packet (-got+want):\n%s", proto.Name, diff)
	}

	for i := range len(bs) {
		// Every cut invalidates the packet header's length, so the
		// packet is rejected before its payload is looked at.
		_, err := nlmsg.UnmarshalPacket(bs[:i], proto)
		if err == nil {
			t.Errorf("%s: decoding %d-byte prefix of %d-byte packet succeeded", proto.Name, i, len(bs))
		} else if !errors.Is(err, nlmsg.ErrPayloadTooShort) {
			t.Errorf("%s: decoding %d-byte prefix: got %v, want ErrPayloadTooShort", proto.Name, i, err)
		}
	}
	return bs
}
