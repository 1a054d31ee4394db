package fragments_test

import (
	"testing"

	"github.com/danderson/nlmsg/fragments"
	"golang.org/x/sys/cpu"
)

func TestOrderName(t *testing.T) {
	native := "little-endian"
	if cpu.IsBigEndian {
		native = "big-endian"
	}
	tests := []struct {
		o    fragments.ByteOrder
		want string
	}{
		{fragments.BigEndian, "big-endian"},
		{fragments.LittleEndian, "little-endian"},
		{fragments.NativeEndian, native},
	}
	for _, tc := range tests {
		if got := fragments.OrderName(tc.o); got != tc.want {
			t.Errorf("OrderName(%v) = %q, want %q", tc.o, got, tc.want)
		}
	}
}
