/*
DESCRIPTION
  frame.go holds the HSV frame buffer the analyzer consumes, and the
  conversion from a captured RGBA/BGRA pixel buffer into it. The byte
  order is parameterized by Format so the conversion's inner loop stays
  identical regardless of which order the frame source delivers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame holds the analyze-window HSV buffer and the code that
// fills it from a captured RGBA/BGRA pixel buffer.
package frame

import (
	"fmt"

	"github.com/fathomlight/atmopipe/color"
)

// Format identifies the byte order of a captured pixel buffer.
type Format int

const (
	// RGBA orders bytes red, green, blue, alpha.
	RGBA Format = iota
	// BGRA orders bytes blue, green, red, alpha.
	BGRA
)

// bytesPerPixel is fixed at 4 for both supported formats.
const bytesPerPixel = 4

// index returns the (r, g, b) byte offsets within one pixel's 4 bytes for
// this format, so the conversion loop in FromPixels never branches per
// pixel on the format.
func (f Format) index() (r, g, b int) {
	if f == BGRA {
		return 2, 1, 0
	}
	return 0, 1, 2
}

// HSV is one analyze-window buffer of HSV samples, row-major, matching a
// weight.Table built for the same Width x Height.
type HSV struct {
	Width, Height int
	Pix           []color.HSV
}

// NewHSV allocates a zeroed HSV buffer for a width x height analyze
// window.
func NewHSV(width, height int) *HSV {
	return &HSV{Width: width, Height: height, Pix: make([]color.HSV, width*height)}
}

// Resize reallocates Pix only if the requested dimensions differ from the
// current ones, matching the "allocated lazily, reallocated only when
// size changes" lifecycle of the HSVFrame entity.
func (h *HSV) Resize(width, height int) {
	if h.Width == width && h.Height == height && len(h.Pix) == width*height {
		return
	}
	h.Width, h.Height = width, height
	h.Pix = make([]color.HSV, width*height)
}

// FromPixels converts a captured pixel buffer of the given format into h.
// pix must hold at least width*height*4 bytes (stride == width*4). h is
// resized to width x height if necessary.
func FromPixels(h *HSV, pix []byte, width, height int, format Format) error {
	want := width * height * bytesPerPixel
	if len(pix) < want {
		return fmt.Errorf("frame: pixel buffer has %d bytes, want at least %d for %dx%d", len(pix), want, width, height)
	}
	h.Resize(width, height)

	ri, gi, bi := format.index()
	for i := 0; i < width*height; i++ {
		off := i * bytesPerPixel
		h.Pix[i] = color.RGBToHSV(color.RGB{
			R: pix[off+ri],
			G: pix[off+gi],
			B: pix[off+bi],
		})
	}
	return nil
}

// At returns the HSV sample at (x, y).
func (h *HSV) At(x, y int) color.HSV {
	return h.Pix[y*h.Width+x]
}
