package analyzer

import (
	"testing"

	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
	"github.com/fathomlight/atmopipe/frame"
	"github.com/fathomlight/atmopipe/internal/logging"
	"github.com/fathomlight/atmopipe/weight"
)

func solidFrame(t *testing.T, w, h int, c color.RGB) *frame.HSV {
	t.Helper()
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		off := i * 4
		pix[off+0] = c.R
		pix[off+1] = c.G
		pix[off+2] = c.B
		pix[off+3] = 255
	}
	img := frame.NewHSV(0, 0)
	if err := frame.FromPixels(img, pix, w, h, frame.RGBA); err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	return img
}

// TestSolidRedAnalyzer covers the spec's "solid red analyzer" scenario:
// layout top=1, an 8x8 window of solid red, and default parameters.
func TestSolidRedAnalyzer(t *testing.T) {
	p := config.Default()
	p.Logger = (*logging.TestLogger)(t)
	layout := channelmodel.Layout{Top: 1}

	tbl := weight.Build(8, 8, layout, p.EdgeWeighting)
	img := solidFrame(t, 8, 8, color.RGB{R: 255, G: 0, B: 0})

	state := NewState(1)
	got := Analyze(img, tbl, 1, p, state)

	if len(got) != 1 {
		t.Fatalf("got %d colors, want 1", len(got))
	}
	want := color.RGB{R: 255, G: 0, B: 0}
	if !closeRGB(got[0], want, 2) {
		t.Errorf("analyzed color = %+v, want approximately %+v", got[0], want)
	}
}

// TestDominantHueHysteresis covers the spec's dominant-hue-hysteresis
// scenario: a new near-tie winner should not displace the previous
// dominant hue.
func TestDominantHueHysteresis(t *testing.T) {
	hist := newHist(1)
	hist[0][10] = 1000 // previous dominant hue bin, carried via state.Last
	hist[0][20] = 1050 // new winner, within the 93% threshold margin

	last := []int{10}
	got := dominantHues(hist, 1, 93, last)
	if got[0] != 10 {
		t.Errorf("dominant hue = %d, want 10 (hysteresis should hold)", got[0])
	}
	if last[0] != 10 {
		t.Errorf("last dominant hue record advanced to %d, want unchanged at 10", last[0])
	}
}

func TestDominantHueZeroWinnerRetainsPrevious(t *testing.T) {
	hist := newHist(1) // every bin zero: no qualifying pixels
	last := []int{42}
	got := dominantHues(hist, 1, 93, last)
	if got[0] != 42 {
		t.Errorf("dominant hue = %d, want 42 (retain previous on zero winner)", got[0])
	}
	if last[0] != 42 {
		t.Errorf("last dominant hue record should be unchanged, got %d", last[0])
	}
}

func TestUniformBrightnessBroadcasts(t *testing.T) {
	img := solidFrame(t, 4, 4, color.RGB{R: 128, G: 128, B: 128})
	tbl := weight.Build(4, 4, channelmodel.Layout{Top: 2}, 60)
	got := computeBrightness(img, tbl, 2, 1, 100, true)
	if got[0] != got[1] {
		t.Errorf("uniform brightness differs per channel: %d vs %d", got[0], got[1])
	}
}

func closeRGB(a, b color.RGB, tol int) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x) - int(y)
		}
		return int(y) - int(x)
	}
	return d(a.R, b.R) <= tol && d(a.G, b.G) <= tol && d(a.B, b.B) <= tol
}
