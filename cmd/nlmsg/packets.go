package main

import (
	"github.com/danderson/nlmsg"
	"github.com/danderson/nlmsg/protocols/beverage"
	"github.com/danderson/nlmsg/protocols/conntrack"
	"github.com/danderson/nlmsg/protocols/pingpong"
)

func teaPacket(cfg config) nlmsg.Packet[beverage.Message] {
	b := cfg.Beverage
	var attrs []beverage.Attribute
	if b.Hotness != 0 {
		attrs = append(attrs, beverage.Hotness(b.Hotness))
	}
	if b.Person != "" {
		attrs = append(attrs, beverage.PersonName(b.Person))
	}
	if b.Caffeine != 0 {
		attrs = append(attrs, beverage.CaffeineContent(b.Caffeine))
	}
	ret := nlmsg.NewPacket[beverage.Message](beverage.Tea{
		Header: beverage.Header{
			Family:     b.Family,
			Version:    b.Version,
			ResourceID: b.ResourceID,
		},
		Attrs: attrs,
	})
	ret.Header.Flags = nlmsg.FlagRequest | beverage.FlagServe | beverage.FlagDrink
	ret.Header.Sequence = b.Sequence
	return ret
}

func conntrackPacket(cfg config) nlmsg.Packet[conntrack.Message] {
	c := cfg.Conntrack
	msg := conntrack.Get{}
	if c.Source.IsValid() {
		msg.Header.Family = conntrack.IPv4
		if !c.Source.Addr().Is4() {
			msg.Header.Family = conntrack.IPv6
		}
		msg.Attrs = []conntrack.Attribute{
			conntrack.TupleOrig(conntrack.Tuple(c.Protocol, c.Source, c.Destination)),
		}
	}
	ret := nlmsg.NewPacket[conntrack.Message](msg)
	ret.Header.Flags = nlmsg.FlagRequest
	if len(msg.Attrs) == 0 {
		ret.Header.Flags |= nlmsg.FlagDump
	}
	ret.Header.Sequence = c.Sequence
	return ret
}

func pingPacket(cfg config) nlmsg.Packet[pingpong.Message] {
	p := cfg.PingPong
	var ping pingpong.Ping
	if p.Text != "" {
		ping = append(ping, pingpong.Text(p.Text))
	}
	ping = append(ping, pingpong.Cookie(p.Cookie))
	ret := nlmsg.NewPacket[pingpong.Message](ping)
	ret.Header.Sequence = p.Sequence
	return ret
}

// pongPacket returns the reply to a ping packet.
func pongPacket(ping nlmsg.Packet[pingpong.Message]) nlmsg.Packet[pingpong.Message] {
	ret := nlmsg.NewPacket[pingpong.Message](pingpong.Reply(ping.Payload.(pingpong.Ping)))
	ret.Header.Sequence = ping.Header.Sequence
	ret.Header.Port = ping.Header.Port
	return ret
}
