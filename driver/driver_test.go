package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

func TestOpenNullIsBuiltin(t *testing.T) {
	d, err := Open("null", "")
	if err != nil {
		t.Fatalf("Open(null): %v", err)
	}
	p := config.Default()
	if err := d.Open(&p); err != nil {
		t.Fatalf("null driver Open: %v", err)
	}
	if err := d.Send([]color.RGB{{R: 1}}, nil); err != nil {
		t.Errorf("null driver Send: %v", err)
	}
}

func TestOpenEmptyNameIsNull(t *testing.T) {
	d, err := Open("", "")
	if err != nil {
		t.Fatalf("Open(\"\"): %v", err)
	}
	if _, ok := d.(*nullDriver); !ok {
		t.Errorf("Open(\"\") = %T, want *nullDriver", d)
	}
}

func TestOpenUnknownNameFailsWhenNotOnPath(t *testing.T) {
	_, err := Open("does_not_exist", t.TempDir())
	if err == nil {
		t.Error("expected an error resolving an unknown driver name")
	}
}

func TestFileDriverWritesBlocks(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "colors.out")

	p := config.Default()
	p.DriverParam = out
	p.Layout = channelmodel.Layout{Top: 2, Center: 1}

	d := newFileDriver()
	if err := d.Open(&p); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	colors := []color.RGB{{R: 1}, {R: 2}, {R: 3}}
	if err := d.Send(colors, nil); err != nil {
		t.Fatalf("Send: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("file driver wrote nothing")
	}
}

func TestParseClassicProtocol(t *testing.T) {
	tokens, err := parseProtocol(classicProto)
	if err != nil {
		t.Fatalf("parseProtocol: %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("parsed zero tokens from the classic protocol")
	}
	// First three tokens are the literal constants 255, 0, 0.
	if !tokens[0].literal || tokens[0].value != 255 {
		t.Errorf("tokens[0] = %+v, want literal 255", tokens[0])
	}
}

func TestRenderClassicProtocolPicksChannelBytes(t *testing.T) {
	layout := channelmodel.Layout{Top: 1, Left: 1, Right: 1, Center: 1}
	colors := channelmodel.Channels(layout)
	rgb := make([]color.RGB, len(colors))
	rgb[0] = color.RGB{R: 10, G: 20, B: 30} // top
	rgb[1] = color.RGB{R: 40, G: 50, B: 60} // left
	rgb[2] = color.RGB{R: 70, G: 80, B: 90} // right
	rgb[3] = color.RGB{R: 100, G: 110, B: 120} // center

	tokens, err := parseProtocol(classicProto)
	if err != nil {
		t.Fatalf("parseProtocol: %v", err)
	}
	msg, err := render(tokens, layout, rgb)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(msg) == 0 {
		t.Fatal("render produced no bytes")
	}
	// Header 255,0,0,15, then center, left, right, top as R,G,B triples.
	want := []byte{255, 0, 0, 15, 100, 110, 120, 40, 50, 60, 70, 80, 90, 10, 20, 30}
	if len(msg) < len(want) {
		t.Fatalf("render produced %d bytes, want at least %d", len(msg), len(want))
	}
	for i, b := range want {
		if msg[i] != b {
			t.Errorf("msg[%d] = %d, want %d", i, msg[i], b)
		}
	}
}

func TestParseDriverParam(t *testing.T) {
	devname, baud, proto := parseDriverParam("/dev/ttyUSB0;speed:9600;proto:df4ch")
	if devname != "/dev/ttyUSB0" {
		t.Errorf("devname = %q, want /dev/ttyUSB0", devname)
	}
	if baud != 9600 {
		t.Errorf("baud = %d, want 9600", baud)
	}
	if proto != df4chProto {
		t.Errorf("proto = %q, want df4chProto", proto)
	}
}

func TestParseDriverParamDefaults(t *testing.T) {
	devname, baud, proto := parseDriverParam("")
	if devname != defaultPort {
		t.Errorf("devname = %q, want default %q", devname, defaultPort)
	}
	if baud != 0 {
		t.Errorf("baud = %d, want 0 (leave alone)", baud)
	}
	if proto != classicProto {
		t.Errorf("proto = %q, want classicProto", proto)
	}
}

func TestHostDeltaSuppression(t *testing.T) {
	h := &Host{}
	p := config.Default()
	if err := h.Open("null", "", &p); err != nil {
		t.Fatalf("Host.Open: %v", err)
	}

	colors := []color.RGB{{R: 5}}
	if err := h.Send(colors, true); err != nil {
		t.Fatalf("Send(initial): %v", err)
	}
	if err := h.Send(colors, false); err != nil {
		t.Fatalf("Send(unchanged): %v", err)
	}
	if !colorsEqual(h.last, colors) {
		t.Errorf("h.last = %+v, want %+v", h.last, colors)
	}
}

func TestHostNeedsReopen(t *testing.T) {
	h := &Host{}
	p := config.Default()
	if err := h.Open("null", "/some/path", &p); err != nil {
		t.Fatalf("Host.Open: %v", err)
	}
	if h.NeedsReopen("null", "/some/path", "") {
		t.Error("NeedsReopen = true for unchanged driver identity")
	}
	if !h.NeedsReopen("file", "/some/path", "") {
		t.Error("NeedsReopen = false after driver name changed")
	}
}

func TestHostLightsOff(t *testing.T) {
	h := &Host{}
	p := config.Default()
	if err := h.Open("null", "", &p); err != nil {
		t.Fatalf("Host.Open: %v", err)
	}
	if err := h.Send([]color.RGB{{R: 9}}, true); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := h.LightsOff(1); err != nil {
		t.Fatalf("LightsOff: %v", err)
	}
	want := []color.RGB{{}}
	if !colorsEqual(h.last, want) {
		t.Errorf("after LightsOff, last = %+v, want %+v", h.last, want)
	}
}
