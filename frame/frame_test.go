package frame

import (
	"testing"

	"github.com/fathomlight/atmopipe/color"
)

func solidPixels(w, h int, r, g, b byte, format Format) []byte {
	pix := make([]byte, w*h*4)
	ri, gi, bi := format.index()
	for i := 0; i < w*h; i++ {
		off := i * 4
		pix[off+ri] = r
		pix[off+gi] = g
		pix[off+bi] = b
		pix[off+3] = 255
	}
	return pix
}

func TestFromPixelsRGBA(t *testing.T) {
	h := NewHSV(0, 0)
	pix := solidPixels(4, 4, 255, 0, 0, RGBA)
	if err := FromPixels(h, pix, 4, 4, RGBA); err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	want := color.RGBToHSV(color.RGB{R: 255, G: 0, B: 0})
	if h.At(0, 0) != want {
		t.Errorf("At(0,0) = %+v, want %+v", h.At(0, 0), want)
	}
}

func TestFromPixelsBGRAMatchesRGBA(t *testing.T) {
	hRGBA := NewHSV(0, 0)
	hBGRA := NewHSV(0, 0)
	if err := FromPixels(hRGBA, solidPixels(2, 2, 10, 20, 30, RGBA), 2, 2, RGBA); err != nil {
		t.Fatal(err)
	}
	if err := FromPixels(hBGRA, solidPixels(2, 2, 10, 20, 30, BGRA), 2, 2, BGRA); err != nil {
		t.Fatal(err)
	}
	if hRGBA.At(1, 1) != hBGRA.At(1, 1) {
		t.Errorf("RGBA and BGRA decodes of the same color differ: %+v vs %+v", hRGBA.At(1, 1), hBGRA.At(1, 1))
	}
}

func TestFromPixelsShortBuffer(t *testing.T) {
	h := NewHSV(0, 0)
	if err := FromPixels(h, make([]byte, 4), 4, 4, RGBA); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}

func TestResizeReallocatesOnlyOnChange(t *testing.T) {
	h := NewHSV(8, 8)
	p := &h.Pix[0]
	h.Resize(8, 8)
	if &h.Pix[0] != p {
		t.Error("Resize reallocated despite unchanged dimensions")
	}
	h.Resize(16, 8)
	if len(h.Pix) != 16*8 {
		t.Errorf("got %d pixels after resize, want %d", len(h.Pix), 16*8)
	}
}
