/*
DESCRIPTION
  source.go defines Source, the frame source interface the grab loop
  pulls images from, and a synthetic test-pattern source used by tests
  and as a safe default when no real capture device is configured.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package source provides Source, the pluggable frame-capture interface
// the pipeline's grab loop reads from, plus a synthetic pattern source
// and a WebP image-sequence source. A gocv-backed webcam/screen source
// is available under the "withcv" build tag.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/fathomlight/atmopipe/frame"
)

// ErrTimeout is returned by Grab when the underlying device did not
// deliver a frame before ctx's deadline; the grab loop treats this as a
// frame-source transient and skips the iteration.
var ErrTimeout = errors.New("source: grab timed out")

// Source is the frame source interface: given a requested display size,
// it yields a pixel buffer in one of RGBA or BGRA byte order, plus the
// actual dimensions delivered (which may differ from what was asked
// for). Implementations may time out or fail; the caller recovers by
// skipping that grab-loop iteration.
type Source interface {
	// DisplaySize reports the source's current native size, used by the
	// grab loop to decide the requested capture size.
	DisplaySize(ctx context.Context) (width, height int, err error)

	// Grab captures one frame sized as close to (width, height) as the
	// source can manage and returns its pixels, byte order, and actual
	// dimensions.
	Grab(ctx context.Context, width, height int) (pix []byte, format frame.Format, actualWidth, actualHeight int, err error)

	// Close releases any resources the source holds.
	Close() error
}

// Pattern is a deterministic synthetic Source: every Grab call returns a
// solid color that cycles through a fixed palette, sized exactly to the
// caller's request. Used by tests and by hosts that want to exercise the
// pipeline without a real capture device.
type Pattern struct {
	Width, Height int
	colors        []struct{ r, g, b byte }
	i             int
}

// NewPattern returns a Pattern reporting (width, height) as its display
// size and cycling through red, green, blue, white, black on successive
// Grab calls.
func NewPattern(width, height int) *Pattern {
	return &Pattern{
		Width: width, Height: height,
		colors: []struct{ r, g, b byte }{
			{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 255}, {0, 0, 0},
		},
	}
}

func (p *Pattern) DisplaySize(ctx context.Context) (int, int, error) {
	return p.Width, p.Height, nil
}

func (p *Pattern) Grab(ctx context.Context, width, height int) ([]byte, frame.Format, int, int, error) {
	if width <= 0 || height <= 0 {
		return nil, frame.RGBA, 0, 0, fmt.Errorf("source: pattern: illegal request size %dx%d", width, height)
	}
	c := p.colors[p.i%len(p.colors)]
	p.i++

	pix := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		off := i * 4
		pix[off+0] = c.r
		pix[off+1] = c.g
		pix[off+2] = c.b
		pix[off+3] = 255
	}
	return pix, frame.RGBA, width, height, nil
}

func (p *Pattern) Close() error { return nil }
