package main

import (
	"fmt"
	"log/slog"
	"net/netip"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danderson/nlmsg/protocols/beverage"
	"github.com/danderson/nlmsg/protocols/conntrack"
)

// config is the contents of the packets built by the demo command.
type config struct {
	LogLevel slog.Level

	Beverage struct {
		Family     beverage.Family
		Version    uint8
		ResourceID uint16
		Sequence   uint32
		Hotness    uint32
		Person     string
		Caffeine   uint32
	}

	Conntrack struct {
		Sequence    uint32
		Protocol    conntrack.IPProto
		Source      netip.AddrPort
		Destination netip.AddrPort
	}

	PingPong struct {
		Sequence uint32
		Text     string
		Cookie   uint32
	}
}

func defaultConfig() config {
	var cfg config
	cfg.LogLevel = slog.LevelInfo

	cfg.Beverage.Family = beverage.Hot
	cfg.Beverage.Version = 1
	cfg.Beverage.ResourceID = 101
	cfg.Beverage.Sequence = 1
	cfg.Beverage.Hotness = 95
	cfg.Beverage.Person = "Alice"
	cfg.Beverage.Caffeine = 21932130

	cfg.Conntrack.Sequence = 1757577401
	cfg.Conntrack.Protocol = conntrack.ProtoTCP

	cfg.PingPong.Cookie = 129
	return cfg
}

// config.toml key mapping to demo settings.
type fileConfig struct {
	LogLevel string `toml:"log_level"`

	Beverage struct {
		Family     string `toml:"family"`
		Version    uint8  `toml:"version"`
		ResourceID uint16 `toml:"resource_id"`
		Sequence   uint32 `toml:"sequence"`
		Hotness    uint32 `toml:"hotness"`
		Person     string `toml:"person_name"`
		Caffeine   uint32 `toml:"caffeine_content"`
	} `toml:"beverage"`

	Conntrack struct {
		Sequence    uint32 `toml:"sequence"`
		Protocol    uint8  `toml:"protocol"`
		Source      string `toml:"source"`
		Destination string `toml:"destination"`
	} `toml:"conntrack"`

	PingPong struct {
		Sequence uint32 `toml:"sequence"`
		Text     string `toml:"text"`
		Cookie   uint32 `toml:"cookie"`
	} `toml:"pingpong"`
}

// loadConfig overlays the TOML file at path onto the default
// config. An empty path returns the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undec[0].String())
	}

	if meta.IsDefined("log_level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(raw.LogLevel))); err != nil {
			return config{}, fmt.Errorf("load config: log_level: %w", err)
		}
	}

	if meta.IsDefined("beverage", "family") {
		f, err := beverage.ParseFamily(strings.TrimSpace(raw.Beverage.Family))
		if err != nil {
			return config{}, fmt.Errorf("load config: beverage.family: %w", err)
		}
		cfg.Beverage.Family = f
	}
	if meta.IsDefined("beverage", "version") {
		cfg.Beverage.Version = raw.Beverage.Version
	}
	if meta.IsDefined("beverage", "resource_id") {
		cfg.Beverage.ResourceID = raw.Beverage.ResourceID
	}
	if meta.IsDefined("beverage", "sequence") {
		cfg.Beverage.Sequence = raw.Beverage.Sequence
	}
	if meta.IsDefined("beverage", "hotness") {
		cfg.Beverage.Hotness = raw.Beverage.Hotness
	}
	if meta.IsDefined("beverage", "person_name") {
		cfg.Beverage.Person = raw.Beverage.Person
	}
	if meta.IsDefined("beverage", "caffeine_content") {
		cfg.Beverage.Caffeine = raw.Beverage.Caffeine
	}

	if meta.IsDefined("conntrack", "sequence") {
		cfg.Conntrack.Sequence = raw.Conntrack.Sequence
	}
	if meta.IsDefined("conntrack", "protocol") {
		cfg.Conntrack.Protocol = conntrack.IPProto(raw.Conntrack.Protocol)
	}
	if meta.IsDefined("conntrack", "source") {
		ap, err := netip.ParseAddrPort(strings.TrimSpace(raw.Conntrack.Source))
		if err != nil {
			return config{}, fmt.Errorf("load config: conntrack.source: %w", err)
		}
		cfg.Conntrack.Source = ap
	}
	if meta.IsDefined("conntrack", "destination") {
		ap, err := netip.ParseAddrPort(strings.TrimSpace(raw.Conntrack.Destination))
		if err != nil {
			return config{}, fmt.Errorf("load config: conntrack.destination: %w", err)
		}
		cfg.Conntrack.Destination = ap
	}
	if cfg.Conntrack.Source.IsValid() != cfg.Conntrack.Destination.IsValid() {
		return config{}, fmt.Errorf("load config: conntrack.source and conntrack.destination must be set together")
	}
	if cfg.Conntrack.Source.IsValid() && cfg.Conntrack.Source.Addr().Is4() != cfg.Conntrack.Destination.Addr().Is4() {
		return config{}, fmt.Errorf("load config: conntrack.source and conntrack.destination are different address families")
	}

	if meta.IsDefined("pingpong", "sequence") {
		cfg.PingPong.Sequence = raw.PingPong.Sequence
	}
	if meta.IsDefined("pingpong", "text") {
		cfg.PingPong.Text = raw.PingPong.Text
	}
	if meta.IsDefined("pingpong", "cookie") {
		cfg.PingPong.Cookie = raw.PingPong.Cookie
	}

	return cfg, nil
}
