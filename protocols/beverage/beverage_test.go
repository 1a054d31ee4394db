package beverage

import (
	"errors"
	"strings"
	"testing"

	"github.com/danderson/nlmsg"
	"github.com/danderson/nlmsg/fragments"
	"github.com/danderson/nlmsg/nlmsgtest"
)

func TestTeaPacket(t *testing.T) {
	nlmsgtest.SkipIfBigEndian(t)

	pkt := nlmsg.NewPacket[Message](Tea{
		Header: Header{Family: Hot},
		Attrs: []Attribute{
			CaffeineContent(21932130),
			Hotness(100),
			PersonName("Alice"),
		},
	})
	pkt.Header.Flags = nlmsg.FlagRequest | FlagServe
	pkt.Header.Sequence = 1

	want := nlmsgtest.Unhex(t, `
		30 00 00 00  13 00  01 02  01 00 00 00  00 00 00 00
		02 00 00 00
		08 00 01 00  62 a8 4e 01
		08 00 02 00  64 00 00 00
		0a 00 03 00  41 6c 69 63  65 00 00 00
	`)
	got := pkt.Marshal()
	if diff := nlmsgtest.Diff(got, want); diff != "" {
		t.Fatalf("wrong encoding (-got+want):\n%s", diff)
	}

	dec, err := nlmsg.UnmarshalPacket(want, Protocol)
	if err != nil {
		t.Fatalf("decoding tea packet: %v", err)
	}
	if diff := nlmsgtest.Diff(dec, pkt); diff != "" {
		t.Fatalf("wrong decode (-got+want):\n%s", diff)
	}
}

func TestPersonNameLength(t *testing.T) {
	a := PersonName("Alice")
	if got, want := nlmsg.EncodedLen(a), 6; got != want {
		t.Errorf("EncodedLen = %d, want %d", got, want)
	}
	if got, want := nlmsg.RecordLen(a), 12; got != want {
		t.Errorf("RecordLen = %d, want %d", got, want)
	}
	bs := nlmsg.AppendAttribute(nil, a)
	if len(bs) != 12 {
		t.Fatalf("encoded %d bytes, want 12", len(bs))
	}
	if got := fragments.NativeEndian.Uint16(bs[:2]); got != 10 {
		t.Errorf("length field = %d, want 10", got)
	}
}

func TestPersonNameTooLong(t *testing.T) {
	tea := Tea{
		Header: Header{Family: Hot},
		Attrs:  []Attribute{PersonName(strings.Repeat("x", 70000))},
	}
	defer func() {
		if recover() == nil {
			t.Error("encoding a 70000-byte name did not panic")
		}
	}()
	bs := nlmsg.NewPacket(tea).Marshal()
	t.Errorf("encoded a 70000-byte name as %d bytes", len(bs))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"empty tea", Tea{Header: Header{Family: Hot}}},
		{"cold coffee", Coffee{
			Header: Header{Family: Cold, Version: 1, ResourceID: 0x1234},
			Attrs: []Attribute{
				PersonName("Bob"),
				CaffeineContent(95),
				PersonName(""),
				PersonName("Zoë"),
			},
		}},
		{"repeated kinds", Tea{
			Header: Header{Family: Hot},
			Attrs:  []Attribute{Hotness(1), Hotness(2), Hotness(3)},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nlmsgtest.RoundTrip(t, Protocol, tc.msg)
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	nlmsgtest.SkipIfBigEndian(t)

	// A string that fills its value exactly, with no NUL.
	payload := nlmsgtest.Unhex(t, `
		02 00 00 00
		08 00 03 00  41 6c 69 63
	`)
	msg, err := Unmarshal(TypeTea, payload)
	if err != nil {
		t.Fatalf("decoding unterminated string: %v", err)
	}
	want := Tea{Header: Header{Family: Hot}, Attrs: []Attribute{PersonName("Alic")}}
	if diff := nlmsgtest.Diff(msg, Message(want)); diff != "" {
		t.Fatalf("wrong decode (-got+want):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	nlmsgtest.SkipIfBigEndian(t)

	tests := []struct {
		name    string
		msgType uint16
		payload string
		wantErr error
	}{
		{"no header", TypeTea, "", nlmsg.ErrPayloadTooShort},
		{"invalid family", TypeTea, "03 00 00 00", nlmsg.ErrInvalidEnumValue},
		{"unknown type", 0x15, "02 00 00 00", nlmsg.ErrUnknownMessageType},
		{"unknown kind", TypeCoffee, "02 00 00 00  08 00 07 00  00 00 00 00", nlmsg.ErrUnknownKind},
		{"short u32", TypeCoffee, "02 00 00 00  06 00 01 00  01 02 00 00", nlmsg.ErrPayloadTooShort},
		{"long u32", TypeCoffee, "02 00 00 00  0c 00 02 00  01 02 03 04  05 06 07 08", nlmsg.ErrMalformedRecord},
		{"invalid utf8", TypeTea, "02 00 00 00  07 00 03 00  ff fe 00 00", nlmsg.ErrInvalidStringEncoding},
		{"truncated record", TypeTea, "02 00 00 00  0c 00 03 00  41 00", nlmsg.ErrMalformedRecord},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Unmarshal(tc.msgType, nlmsgtest.Unhex(t, tc.payload))
			if err == nil {
				t.Fatalf("decode succeeded with %#v, want error", msg)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestUnknownKindError(t *testing.T) {
	nlmsgtest.SkipIfBigEndian(t)

	payload := nlmsgtest.Unhex(t, `
		02 00 00 00
		08 00 01 00  01 00 00 00
		08 00 07 00  00 00 00 00
	`)
	_, err := Unmarshal(TypeTea, payload)
	var de nlmsg.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got error %v, want DecodeError", err)
	}
	if de.Err != nlmsg.ErrUnknownKind || de.Offset != 12 || de.Code != 7 {
		t.Errorf("got %#v, want unknown kind 7 at offset 12", de)
	}
	if got, want := err.Error(), "beverage attribute: unknown attribute kind 7 at offset 12"; got != want {
		t.Errorf("error string = %q, want %q", got, want)
	}
}

func TestParseFamily(t *testing.T) {
	for _, f := range []Family{Hot, Cold} {
		got, err := ParseFamily(f.String())
		if err != nil {
			t.Fatalf("ParseFamily(%q): %v", f, err)
		}
		if got != f {
			t.Errorf("ParseFamily(%q) = %v, want %v", f, got, f)
		}
	}
	if _, err := ParseFamily("lukewarm"); err == nil {
		t.Error("ParseFamily(lukewarm) succeeded, want error")
	}
}
