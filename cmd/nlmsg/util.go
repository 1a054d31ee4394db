package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/creachadair/mds/mapset"
	"github.com/danderson/nlmsg/fragments"
)

type indenter struct {
	w          io.Writer
	prefix     string
	indentNext bool
}

func (i *indenter) f(msg string, args ...any) {
	fmt.Fprintf(i, msg+"\n", args...)
}

func (i *indenter) Write(bs []byte) (int, error) {
	ret := 0
	for len(bs) > 0 {
		if i.indentNext {
			i.indentNext = false
			_, err := io.WriteString(i.w, i.prefix)
			if err != nil {
				return ret, err
			}
		}

		wr := bs
		idx := bytes.IndexByte(bs, '\n')
		if idx >= 0 {
			i.indentNext = true
			wr, bs = bs[:idx+1], bs[idx+1:]
		} else {
			bs = nil
		}

		n, err := i.w.Write(wr)
		ret += n
		if err != nil {
			return ret, err
		}
	}
	return ret, nil
}

func (i *indenter) indent(n int) {
	i.prefix = strings.Repeat("  ", n)
}

// parseHex decodes a hex dump. Whitespace, colons and an optional 0x
// prefix are ignored, so the output of most hex dumpers can be
// pasted in as-is.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	ret, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parsing hex: %w", err)
	}
	return ret, nil
}

// parseKinds parses a comma-separated list of attribute kinds. An
// empty list matches every kind.
func parseKinds(s string) (mapset.Set[uint16], error) {
	ret := mapset.New[uint16]()
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		k, err := strconv.ParseUint(f, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid attribute kind %q: %w", f, err)
		}
		ret.Add(uint16(k) & fragments.KindMask)
	}
	return ret, nil
}

// dumpRecords writes the attribute records in d to out, descending
// into records with the nested flag set. If kinds is not empty, only
// top-level records with those kinds are shown.
func dumpRecords(out *indenter, d fragments.Decoder, kinds mapset.Set[uint16], depth int) error {
	for rec, err := range d.Records() {
		if err != nil {
			return err
		}
		if depth == 0 && !kinds.IsEmpty() && !kinds.Has(rec.Kind) {
			continue
		}
		out.indent(depth)
		if !rec.Nested {
			out.f("@%d kind=%d len=%d value=% x", rec.Offset, rec.Kind, len(rec.Value), rec.Value)
			continue
		}
		out.f("@%d kind=%d len=%d nested", rec.Offset, rec.Kind, len(rec.Value))
		if err := dumpRecords(out, rec.Children(), nil, depth+1); err != nil {
			return err
		}
	}
	return nil
}
