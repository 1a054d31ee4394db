package main

import (
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danderson/nlmsg/protocols/beverage"
	"github.com/danderson/nlmsg/protocols/conntrack"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nlmsg.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	got, err := loadConfig("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if diff := cmp.Diff(got, defaultConfig(), cmpopts.EquateComparable(netip.AddrPort{})); diff != "" {
		t.Fatalf("wrong defaults (-got+want):\n%s", diff)
	}
	if got.Beverage.Person != "Alice" || got.Conntrack.Sequence != 1757577401 {
		t.Errorf("unexpected defaults %+v", got)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[beverage]
family = "cold"
person_name = "Bob"
hotness = 0

[conntrack]
protocol = 17
source = "10.57.97.124:45210"
destination = "148.113.20.105:47873"

[pingpong]
text = "hello"
`)
	got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	want := defaultConfig()
	want.LogLevel = slog.LevelDebug
	want.Beverage.Family = beverage.Cold
	want.Beverage.Person = "Bob"
	want.Beverage.Hotness = 0
	want.Conntrack.Protocol = conntrack.ProtoUDP
	want.Conntrack.Source = netip.MustParseAddrPort("10.57.97.124:45210")
	want.Conntrack.Destination = netip.MustParseAddrPort("148.113.20.105:47873")
	want.PingPong.Text = "hello"

	if diff := cmp.Diff(got, want, cmpopts.EquateComparable(netip.AddrPort{})); diff != "" {
		t.Fatalf("wrong config (-got+want):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", `log_level = `, "load config"},
		{"unknown key", `colour = "blue"`, "unknown key"},
		{"bad level", `log_level = "loud"`, "log_level"},
		{"bad family", "[beverage]\nfamily = \"lukewarm\"", "beverage.family"},
		{"bad address", "[conntrack]\nsource = \"nope\"\ndestination = \"10.0.0.1:1\"", "conntrack.source"},
		{"half tuple", "[conntrack]\nsource = \"10.0.0.1:1\"", "set together"},
		{"mixed families", "[conntrack]\nsource = \"10.0.0.1:1\"\ndestination = \"[::1]:2\"", "different address families"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("loading config succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("got error %q, want it to mention %q", err, tc.want)
			}
		})
	}
}
