package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/danderson/nlmsg"
	"github.com/danderson/nlmsg/fragments"
	"github.com/danderson/nlmsg/nlmsgtest"
	"github.com/danderson/nlmsg/protocols/beverage"
	"github.com/danderson/nlmsg/protocols/conntrack"
	"github.com/danderson/nlmsg/protocols/pingpong"
	"github.com/kr/pretty"
	"github.com/lmittmann/tint"
)

var globalArgs struct {
	Config   string `flag:"config,Path to a TOML file of demo packet settings"`
	LogLevel string `flag:"log-level,Log level: debug|info|warn|error (overrides config and NLMSG_LOG_LEVEL)"`
}

var rawArgs struct {
	Kinds string `flag:"kinds,Comma-separated list of top-level attribute kinds to show"`
	Skip  int    `flag:"skip,Number of leading bytes to skip before the attribute tree"`
}

var (
	cfg    config
	logger *slog.Logger
)

func main() {
	root := &command.C{
		Name:     "nlmsg",
		Usage:    "command args...",
		Help:     "Encode and decode netlink messages of the demonstration protocols.",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Init:     initGlobals,
		Commands: []*command.C{
			{
				Name:  "demo",
				Usage: "demo conntrack|beverage|pingpong",
				Help: `Round-trip a demonstration packet.

Builds a packet for the named protocol from the configured settings,
prints it, encodes it, prints the encoding, then decodes it again and
checks that the decoded packet matches the original.

The pingpong demo also round-trips the pong that answers the ping.`,
				Run: command.Adapt(runDemo),
			},
			{
				Name:  "decode",
				Usage: "decode conntrack|beverage|pingpong hex",
				Help: `Decode a packet.

The packet is given as a hex dump. Whitespace and colons in the dump
are ignored.`,
				Run: command.Adapt(runDecode),
			},
			{
				Name:  "raw",
				Usage: "raw hex",
				Help: `Dump an attribute tree without a protocol definition.

Records with the nested flag set are dumped recursively. Use --skip
to step over a packet header and protocol header, for example
--skip=20 for a conntrack packet.`,
				SetFlags: command.Flags(flax.MustBind, &rawArgs),
				Run:      command.Adapt(runRaw),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

func initGlobals(env *command.Env) error {
	var err error
	cfg, err = loadConfig(globalArgs.Config)
	if err != nil {
		return err
	}
	if lvl := os.Getenv("NLMSG_LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return fmt.Errorf("NLMSG_LOG_LEVEL: %w", err)
		}
	}
	if globalArgs.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(globalArgs.LogLevel)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	logger = newLogger(os.Stderr, cfg.LogLevel)
	logger.Debug("initialized",
		"config", globalArgs.Config,
		"level", cfg.LogLevel,
		"host_order", fragments.OrderName(fragments.NativeEndian))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
	}))
}

func runDemo(env *command.Env, protocol string) error {
	switch strings.ToLower(protocol) {
	case "conntrack":
		return demo(env.Context(), os.Stdout, conntrack.Protocol, conntrackPacket(cfg))
	case "beverage", "tea":
		return demo(env.Context(), os.Stdout, beverage.Protocol, teaPacket(cfg))
	case "pingpong", "ping-pong":
		ping := pingPacket(cfg)
		if err := demo(env.Context(), os.Stdout, pingpong.Protocol, ping); err != nil {
			return err
		}
		return demo(env.Context(), os.Stdout, pingpong.Protocol, pongPacket(ping))
	default:
		return env.Usagef("unknown protocol %q", protocol)
	}
}

// demo prints pkt, encodes it, and checks that it decodes back to
// itself.
func demo[M nlmsg.Message](ctx context.Context, w io.Writer, proto nlmsg.Protocol[M], pkt nlmsg.Packet[M]) error {
	logger.DebugContext(ctx, "built packet",
		"protocol", proto.Name,
		"type", pkt.Header.Type,
		"flags", fmt.Sprintf("%#x", pkt.Header.Flags),
		"len", pkt.Header.Length)
	fmt.Fprintf(w, "Original packet: %# v\n", pretty.Formatter(pkt))

	bs := pkt.Marshal()
	fmt.Fprintf(w, "\nSerialized bytes: % x\n\n", bs)

	got, err := nlmsg.UnmarshalPacket(bs, proto)
	if err != nil {
		return err
	}
	if diff := nlmsgtest.Diff(got, pkt); diff != "" {
		logger.ErrorContext(ctx, "round trip mismatch", "protocol", proto.Name)
		return fmt.Errorf("%s packet changed in round trip (-got+want):\n%s", proto.Name, diff)
	}
	logger.InfoContext(ctx, "round trip ok", "protocol", proto.Name, "bytes", len(bs))
	return nil
}

func runDecode(env *command.Env, protocol, hexdump string) error {
	bs, err := parseHex(hexdump)
	if err != nil {
		return err
	}
	switch strings.ToLower(protocol) {
	case "conntrack":
		return decode(env.Context(), os.Stdout, conntrack.Protocol, bs)
	case "beverage", "tea":
		return decode(env.Context(), os.Stdout, beverage.Protocol, bs)
	case "pingpong", "ping-pong":
		return decode(env.Context(), os.Stdout, pingpong.Protocol, bs)
	default:
		return env.Usagef("unknown protocol %q", protocol)
	}
}

func decode[M nlmsg.Message](ctx context.Context, w io.Writer, proto nlmsg.Protocol[M], bs []byte) error {
	pkt, err := nlmsg.UnmarshalPacket(bs, proto)
	if err != nil {
		logDecodeError(ctx, proto.Name, err)
		return err
	}
	if extra := len(bs) - int(pkt.Header.Length); extra > 0 {
		logger.WarnContext(ctx, "ignoring bytes after packet", "protocol", proto.Name, "bytes", extra)
	}
	fmt.Fprintf(w, "%# v\n", pretty.Formatter(pkt))
	return nil
}

func logDecodeError(ctx context.Context, protocol string, err error) {
	var (
		fe *fragments.Error
		de nlmsg.DecodeError
	)
	switch {
	case errors.As(err, &fe):
		logger.DebugContext(ctx, "malformed input", "protocol", protocol, "offset", fe.Offset, "detail", fe.Detail)
	case errors.As(err, &de):
		logger.DebugContext(ctx, "protocol mismatch", "protocol", protocol, "offset", de.Offset, "code", de.Code)
	}
}

func runRaw(env *command.Env, hexdump string) error {
	bs, err := parseHex(hexdump)
	if err != nil {
		return err
	}
	if rawArgs.Skip < 0 || rawArgs.Skip > len(bs) {
		return env.Usagef("--skip=%d is outside the %d-byte input", rawArgs.Skip, len(bs))
	}
	kinds, err := parseKinds(rawArgs.Kinds)
	if err != nil {
		return env.Usagef("%v", err)
	}
	d := fragments.Decoder{
		In:     bs[rawArgs.Skip:],
		Offset: rawArgs.Skip,
	}
	out := &indenter{w: os.Stdout}
	if err := dumpRecords(out, d, kinds, 0); err != nil {
		logDecodeError(env.Context(), "raw", err)
		return err
	}
	return nil
}
