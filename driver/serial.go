/*
DESCRIPTION
  serial.go is the built-in "serial" driver: it opens a serial port
  through github.com/pkg/term and writes one message per Send, built from
  a small protocol descriptor language grounded on the native serial
  output driver's classic/df4ch/amblone/karate wire protocols.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package driver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/term"

	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

// Named protocol descriptors, ported byte-for-byte from the native
// serial driver's classic_proto/df4ch_proto/amblone_proto/karate_proto
// strings.
const (
	classicProto = "255|0|0|15|Rc|Gc|Bc|Rl|Gl|Bl|Rr|Gr|Br|Rt|Gt|Bt|Rb|Gb|Bb"
	df4chProto   = "255|0|12|Rl|Gl|Bl|Rr|Gr|Br|Rt|Gt|Bt|Rb|Gb|Bb"
	amblineProto = "x99|Rl|Gl|Bl|Rr|Gr|Br|Rt|Gt|Bt|Rb|Gb|Bb|x99"
	karateProto  = "xAA|x12|CX|24|Gl|Bl|Rl|Gr|Br|Rr|Gt|Bt|Rt|Gb|Bb|Rb|Gl2|Bl2|Rl2|Gr2|Br2|Rr2|Gt2|Bt2|Rt2|Gb2|Bb2|Rb2"
)

const defaultPort = "/dev/ttyS0"

type serialDriver struct {
	port     *term.Term
	layout   channelmodel.Layout
	protocol []protoToken
}

func newSerialDriver() Driver { return &serialDriver{} }

// protoToken is one element of a parsed protocol descriptor: either a
// literal constant byte, a CRC marker, or a reference to one color
// component of one channel.
type protoToken struct {
	literal  bool
	value    byte
	crc      bool
	crcXor   bool
	zone     channelmodel.Zone
	index    int // 0-based; -1 selects every channel in the zone (unused here)
	component int // 0=R, 1=G, 2=B
}

// parseDriverParam splits "devname;speed:9600;proto:classic" style
// driver_param strings, returning the device name, baud (0 = leave
// alone) and the resolved protocol descriptor string.
func parseDriverParam(raw string) (devname string, baud int, proto string) {
	proto = classicProto
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '&' }) {
		k, v, hasV := strings.Cut(part, ":")
		if !hasV {
			devname = part
			continue
		}
		switch k {
		case "speed":
			if n, err := strconv.Atoi(v); err == nil {
				baud = n
			}
		case "proto":
			switch v {
			case "classic":
				proto = classicProto
			case "df4ch":
				proto = df4chProto
			case "amblone":
				proto = amblineProto
			case "karatelight":
				proto = karateProto
			default:
				proto = v
			}
		}
	}
	if devname == "" {
		devname = defaultPort
	}
	return devname, baud, proto
}

func (d *serialDriver) Open(p *config.Parameters) error {
	devname, baud, proto := parseDriverParam(p.DriverParam)

	tokens, err := parseProtocol(proto)
	if err != nil {
		return fmt.Errorf("driver: serial: %w", err)
	}

	port, err := term.Open(devname, term.RawMode)
	if err != nil {
		return fmt.Errorf("driver: serial: open %q: %w", devname, err)
	}
	if baud != 0 {
		if err := port.SetSpeed(baud); err != nil {
			port.Close()
			return fmt.Errorf("driver: serial: set speed %d: %w", baud, err)
		}
	}

	d.port = port
	d.protocol = tokens
	d.layout = p.Layout
	return nil
}

func (d *serialDriver) Configure(p config.Parameters) error {
	d.layout = p.Layout
	return nil
}

func (d *serialDriver) Close() error {
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	return err
}

func (d *serialDriver) Send(colors, last []color.RGB) error {
	if d.port == nil {
		return fmt.Errorf("driver: serial: not open")
	}
	msg, err := render(d.protocol, d.layout, colors)
	if err != nil {
		return fmt.Errorf("driver: serial: %w", err)
	}
	n, err := d.port.Write(msg)
	if err != nil || n != len(msg) {
		return fmt.Errorf("driver: serial: write: %w", err)
	}
	return nil
}

// parseProtocol parses a '|'-separated protocol descriptor into tokens.
// Each element is one of: a decimal constant ("0".."255"), a hex
// constant ("x1A"), a crc marker ("C" or "CX"; render fills either one
// with the same XOR checksum), or a channel reference: color letter
// (r/g/b) + zone letter (t/b/l/r/c) + optional l/r corner suffix +
// optional 1-based index (defaults to 1).
func parseProtocol(desc string) ([]protoToken, error) {
	var out []protoToken
	for _, tok := range strings.Split(desc, "|") {
		if tok == "" {
			continue
		}
		switch {
		case tok == "C" || tok == "CX":
			out = append(out, protoToken{crc: true, crcXor: tok == "CX"})
		case tok[0] == 'x' || tok[0] == 'X':
			v, err := strconv.ParseUint(tok[1:], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("illegal hex constant %q", tok)
			}
			out = append(out, protoToken{literal: true, value: byte(v)})
		case tok[0] >= '0' && tok[0] <= '9':
			v, err := strconv.ParseUint(tok, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("illegal decimal constant %q", tok)
			}
			out = append(out, protoToken{literal: true, value: byte(v)})
		default:
			t, err := parseChannelRef(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func parseChannelRef(tok string) (protoToken, error) {
	if len(tok) < 2 {
		return protoToken{}, fmt.Errorf("illegal channel reference %q", tok)
	}
	var component int
	switch tok[0] {
	case 'r', 'R':
		component = 0
	case 'g', 'G':
		component = 1
	case 'b', 'B':
		component = 2
	default:
		return protoToken{}, fmt.Errorf("illegal color letter in %q", tok)
	}

	rest := tok[1:]
	var zone channelmodel.Zone
	switch rest[0] {
	case 't', 'T':
		zone = channelmodel.Top
	case 'l', 'L':
		zone = channelmodel.Left
	case 'r', 'R':
		zone = channelmodel.Right
	case 'c', 'C':
		zone = channelmodel.Center
	case 'b', 'B':
		zone = channelmodel.Bottom
	default:
		return protoToken{}, fmt.Errorf("illegal zone letter in %q", tok)
	}
	rest = rest[1:]

	if zone == channelmodel.Top || zone == channelmodel.Bottom {
		if strings.HasPrefix(rest, "l") || strings.HasPrefix(rest, "L") {
			if zone == channelmodel.Top {
				zone = channelmodel.TopLeft
			} else {
				zone = channelmodel.BottomLeft
			}
			rest = rest[1:]
		} else if strings.HasPrefix(rest, "r") || strings.HasPrefix(rest, "R") {
			if zone == channelmodel.Top {
				zone = channelmodel.TopRight
			} else {
				zone = channelmodel.BottomRight
			}
			rest = rest[1:]
		}
	}

	index := 1
	if rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return protoToken{}, fmt.Errorf("illegal channel index in %q", tok)
		}
		index = n
	}

	return protoToken{zone: zone, index: index - 1, component: component}, nil
}

// render builds the wire message by walking the parsed protocol, looking
// up one byte per channel reference from colors in canonical channel
// order, and, when the descriptor has a crc marker, writing the XOR of
// every other message byte at the marker's position.
func render(tokens []protoToken, layout channelmodel.Layout, colors []color.RGB) ([]byte, error) {
	chans := channelmodel.Channels(layout)
	offsets := make(map[channelmodel.Zone]int)
	start := 0
	for _, z := range []channelmodel.Zone{
		channelmodel.Top, channelmodel.Bottom, channelmodel.Left, channelmodel.Right,
		channelmodel.Center, channelmodel.TopLeft, channelmodel.TopRight,
		channelmodel.BottomLeft, channelmodel.BottomRight,
	} {
		offsets[z] = start
		start += int(layout.Count(z))
	}

	msg := make([]byte, 0, len(tokens))
	crcPos := -1
	for _, t := range tokens {
		switch {
		case t.crc:
			crcPos = len(msg)
			msg = append(msg, 0)
		case t.literal:
			msg = append(msg, t.value)
		default:
			i := offsets[t.zone] + t.index
			var v byte
			if i >= 0 && i < len(colors) && i < len(chans) {
				switch t.component {
				case 0:
					v = colors[i].R
				case 1:
					v = colors[i].G
				default:
					v = colors[i].B
				}
			}
			msg = append(msg, v)
		}
	}

	if crcPos >= 0 {
		var crc byte
		for i, b := range msg {
			if i != crcPos {
				crc ^= b
			}
		}
		msg[crcPos] = crc
	}
	return msg, nil
}
