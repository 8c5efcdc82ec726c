/*
DESCRIPTION
  grab.go is the grab/analyze loop: request a capture sized off the
  active analyze window, crop by overscan, convert to HSV and run one
  analyzer cycle, publishing the result for the filter/output loop to
  pick up.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"context"
	"time"

	"github.com/fathomlight/atmopipe/analyzer"
	"github.com/fathomlight/atmopipe/frame"
	"github.com/fathomlight/atmopipe/weight"
)

// errCropErr is a trivial string error type so cropOverscan doesn't need
// to import errors/fmt just to report one constant condition.
type errCropErr string

func (e errCropErr) Error() string { return string(e) }

// minAnalyzeWindow is the smallest cropped window side the analyzer will
// accept; a grab result that crops below this on either axis is dropped
// as a transient rather than fed to the weight table.
const minAnalyzeWindow = 8

// grabLoop runs until stopCh closes, requesting and analyzing one frame
// every active.AnalyzeRate milliseconds.
func (p *Pipeline) grabLoop() {
	defer p.wg.Done()

	period := p.currentAnalyzeRate()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	released := false

	for {
		select {
		case <-p.stopCh:
			return
		case <-p.wakeGrab:
			// state changed; loop around to re-evaluate below.
		case <-ticker.C:
			p.grabOnce()
		}

		if newPeriod := p.currentAnalyzeRate(); newPeriod != period {
			period = newPeriod
			ticker.Reset(period)
		}

		// While suspended or ticket-revoked, release the frame source once;
		// the next grab after Resume reopens it.
		if st := p.State(); st != Running {
			if st != Stopped && !released {
				if err := p.src.Close(); err != nil {
					p.log.Error("pipeline: releasing frame source failed", "error", err)
				}
				released = true
			}
			continue
		}
		released = false
	}
}

func (p *Pipeline) currentAnalyzeRate() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active.AnalyzeRate == 0 {
		return 20 * time.Millisecond
	}
	return time.Duration(p.active.AnalyzeRate) * time.Millisecond
}

// grabOnce runs exactly one grab/analyze iteration. Any error (grab
// timeout, undersized crop, source failure) is counted as a dropped
// frame and otherwise ignored: the next tick simply tries again.
func (p *Pipeline) grabOnce() {
	if p.State() != Running {
		return
	}

	p.mu.Lock()
	active := p.active
	src := p.src
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), grabTimeoutMillis*time.Millisecond)
	defer cancel()

	nativeW, nativeH, err := src.DisplaySize(ctx)
	if err != nil || nativeW <= 0 || nativeH <= 0 {
		p.dropFrame()
		return
	}

	width := active.AnalyzeSize.Width()
	height := width * nativeH / nativeW
	if height <= 0 {
		height = width
	}

	pix, format, gotW, gotH, err := src.Grab(ctx, width, height)
	if err != nil {
		p.dropFrame()
		return
	}

	cropW, cropH, cropPix, err := cropOverscan(pix, gotW, gotH, active.Overscan)
	if err != nil || cropW < minAnalyzeWindow || cropH < minAnalyzeWindow {
		p.dropFrame()
		return
	}

	p.mu.Lock()
	if p.hsv == nil {
		p.hsv = frame.NewHSV(cropW, cropH)
	}
	if err := frame.FromPixels(p.hsv, cropPix, cropW, cropH, format); err != nil {
		p.mu.Unlock()
		p.dropFrame()
		return
	}

	if p.tbl.Width != cropW || p.tbl.Height != cropH || p.tbl.EdgeWeighting != active.EdgeWeighting {
		p.tbl = weight.Build(cropW, cropH, active.Layout, active.EdgeWeighting)
	}
	numChannels := int(active.Layout.Sum())
	if len(p.analyzerState.LastDominantHue) != numChannels {
		p.analyzerState = analyzer.NewState(numChannels)
	}

	colors := analyzer.Analyze(p.hsv, p.tbl, numChannels, active, p.analyzerState)
	p.analyzedColors = colors
	p.mu.Unlock()

	if p.met != nil {
		p.met.FramesAnalyzed.Inc()
	}
}

func (p *Pipeline) dropFrame() {
	if p.met != nil {
		p.met.FramesDropped.Inc()
	}
}

// cropOverscan removes overscan/1000 of the frame's width/height from
// each edge (so overscan=200 crops 20% off every side), returning a
// freshly packed RGBA/BGRA buffer at the cropped dimensions. The input
// format's byte order is preserved; only the bounds change.
func cropOverscan(pix []byte, width, height int, overscan uint) (int, int, []byte, error) {
	if overscan == 0 {
		return width, height, pix, nil
	}
	frac := float64(overscan) / 1000.0
	if frac > 0.2 {
		frac = 0.2
	}
	dx := int(float64(width) * frac)
	dy := int(float64(height) * frac)

	newW := width - 2*dx
	newH := height - 2*dy
	if newW <= 0 || newH <= 0 {
		return 0, 0, nil, errCropTooLarge
	}

	out := make([]byte, newW*newH*4)
	for row := 0; row < newH; row++ {
		srcOff := ((row+dy)*width + dx) * 4
		dstOff := row * newW * 4
		copy(out[dstOff:dstOff+newW*4], pix[srcOff:srcOff+newW*4])
	}
	return newW, newH, out, nil
}

var errCropTooLarge = errCropErr("pipeline: overscan crop leaves no pixels")
