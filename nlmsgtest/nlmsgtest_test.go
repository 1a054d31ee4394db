package nlmsgtest_test

import (
	"net/netip"
	"testing"

	"github.com/danderson/nlmsg/nlmsgtest"
)

func TestUnhex(t *testing.T) {
	got := nlmsgtest.Unhex(t, `
		08 00 01 00
		2a 00 00 00
	`)
	want := []byte{8, 0, 1, 0, 42, 0, 0, 0}
	if diff := nlmsgtest.Diff(got, want); diff != "" {
		t.Fatalf("wrong bytes (-got+want):\n%s", diff)
	}
}

func TestDiff(t *testing.T) {
	type tuple struct {
		IP    netip.Addr
		Ports []uint16
	}
	a := tuple{IP: netip.MustParseAddr("10.57.97.124")}
	b := tuple{IP: netip.MustParseAddr("10.57.97.124"), Ports: []uint16{}}
	if diff := nlmsgtest.Diff(a, b); diff != "" {
		t.Errorf("equal values reported different:\n%s", diff)
	}
	c := tuple{IP: netip.MustParseAddr("148.113.20.105")}
	if nlmsgtest.Diff(a, c) == "" {
		t.Error("different addresses reported equal")
	}
}
