/*
DESCRIPTION
  analyzer.go runs one analyze cycle: hue histogram, windowing, dominant
  hue with hysteresis, saturation histogram, windowing, dominant
  saturation, brightness averaging, and HSV->RGB reconstruction.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package analyzer consumes one HSV frame plus a weight table and
// produces one RGB color per channel by combining weighted hue/saturation
// histograms with a dominant-hue hysteresis carry-over and weighted
// brightness averaging.
package analyzer

import (
	"gonum.org/v1/gonum/stat"

	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
	"github.com/fathomlight/atmopipe/frame"
	"github.com/fathomlight/atmopipe/weight"
)

// bins is the number of histogram bins for both hue and saturation: 256,
// matching the 0..255 range color.HSV uses for each component.
const bins = 256

// State carries the only piece of hidden state an analyze cycle has: the
// previous cycle's dominant hue per channel, used for hysteresis. It must
// be sized to the channel count and reset (to the zero value) whenever the
// channel count changes.
type State struct {
	LastDominantHue []int
}

// NewState allocates a State for n channels, with every dominant hue
// starting at 0.
func NewState(n int) *State {
	return &State{LastDominantHue: make([]int, n)}
}

// Analyze runs one full analyze cycle over img using tbl and returns one
// RGB color per channel, in table-channel-index order. p.HueThreshold,
// p.DarknessLimit, p.HueWinSize, p.SatWinSize, p.Brightness and
// p.UniformBrightness are read from the active parameter snapshot per the
// ownership rule that the analyzer never reads pending parameters. state
// is mutated in place to carry hue hysteresis forward to the next cycle.
func Analyze(img *frame.HSV, tbl weight.Table, numChannels int, p config.Parameters, state *State) []color.RGB {
	if len(state.LastDominantHue) != numChannels {
		state.LastDominantHue = make([]int, numChannels)
	}

	hueHist := accumulateHue(img, tbl, numChannels, p.DarknessLimit)
	wHueHist := windowHist(hueHist, numChannels, p.HueWinSize)
	dominantHue := dominantHues(wHueHist, numChannels, p.HueThreshold, state.LastDominantHue)

	satHist := accumulateSat(img, tbl, numChannels, p.DarknessLimit, p.HueWinSize, dominantHue)
	wSatHist := windowHist(satHist, numChannels, p.SatWinSize)
	dominantSat := dominantBins(wSatHist, numChannels)

	brightness := computeBrightness(img, tbl, numChannels, p.DarknessLimit, p.Brightness, p.UniformBrightness)

	out := make([]color.RGB, numChannels)
	for c := 0; c < numChannels; c++ {
		out[c] = color.HSVToRGB(color.HSV{
			H: uint8(dominantHue[c]),
			S: uint8(dominantSat[c]),
			V: uint8(brightness[c]),
		})
	}
	return out
}

func newHist(n int) [][bins]uint64 {
	return make([][bins]uint64, n)
}

// accumulateHue is step 1: for each weight entry whose pixel is at or
// above the darkness limit, accumulate weight*v into hist[channel][h].
func accumulateHue(img *frame.HSV, tbl weight.Table, n int, darknessLimit uint) [][bins]uint64 {
	hist := newHist(n)
	for _, e := range tbl.Entries {
		px := img.Pix[e.Pos]
		if uint(px.V) < darknessLimit {
			continue
		}
		hist[e.Channel][px.H] += uint64(e.Weight) * uint64(px.V)
	}
	return hist
}

// accumulateSat is step 4: like accumulateHue but gated additionally on
// the pixel's hue lying within +-hueWinSize of that channel's dominant
// hue, and bucketed by saturation rather than hue.
func accumulateSat(img *frame.HSV, tbl weight.Table, n int, darknessLimit, hueWinSize uint, dominantHue []int) [][bins]uint64 {
	hist := newHist(n)
	win := int(hueWinSize)
	for _, e := range tbl.Entries {
		px := img.Pix[e.Pos]
		if uint(px.V) < darknessLimit {
			continue
		}
		h := int(px.H)
		d := dominantHue[e.Channel]
		if h < d-win || h > d+win {
			continue
		}
		hist[e.Channel][px.S] += uint64(e.Weight) * uint64(px.V)
	}
	return hist
}

// windowHist is steps 2 and 5: a circular moving-weighted-sum smoothing of
// a histogram. A window size of 0 returns hist unchanged (copied, not
// aliased, so callers may mutate the result independently).
func windowHist(hist [][bins]uint64, n int, win uint) [][bins]uint64 {
	out := newHist(n)
	if win == 0 {
		copy(out, hist)
		return out
	}
	w := int(win)
	for i := 0; i < bins; i++ {
		for d := -w; d <= w; d++ {
			iw := (i + d) % bins
			if iw < 0 {
				iw += bins
			}
			winWeight := uint64(w + 1 - absInt(d))
			for c := 0; c < n; c++ {
				out[c][i] += hist[c][iw] * winWeight
			}
		}
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// dominantHues is step 3: arg-max per channel, with hysteresis against the
// previous cycle's dominant hue. If the new maximum is zero (no
// qualifying pixels contributed), the previous dominant hue is retained
// and the hysteresis record is left unchanged, per the resolved open
// question on a zero-winner ratio.
func dominantHues(hist [][bins]uint64, n int, hueThreshold uint, last []int) []int {
	threshold := float64(hueThreshold) / 100.0
	out := make([]int, n)
	for c := 0; c < n; c++ {
		var maxV uint64
		var maxI int
		for i := 0; i < bins; i++ {
			if hist[c][i] > maxV {
				maxV = hist[c][i]
				maxI = i
			}
		}
		if maxV == 0 {
			out[c] = last[c]
			continue
		}
		if float64(hist[c][last[c]])/float64(maxV) > threshold {
			out[c] = last[c]
		} else {
			out[c] = maxI
			last[c] = maxI
		}
	}
	return out
}

// dominantBins is step 6: plain arg-max, no hysteresis.
func dominantBins(hist [][bins]uint64, n int) []int {
	out := make([]int, n)
	for c := 0; c < n; c++ {
		var maxV uint64
		for i := 0; i < bins; i++ {
			if hist[c][i] > maxV {
				maxV = hist[c][i]
				out[c] = i
			}
		}
	}
	return out
}

// computeBrightness is step 7. When uniform is true, a single weighted
// average over every above-threshold pixel (weight 1, since brightness is
// positional only in the per-channel case) is broadcast to every channel;
// otherwise each channel gets its own weight-weighted average. Both paths
// route the final weighted mean through gonum/stat so the accumulation
// logic is shared with the rest of the numeric stack.
func computeBrightness(img *frame.HSV, tbl weight.Table, n int, darknessLimit, brightnessPct uint, uniform bool) []uint8 {
	out := make([]uint8, n)

	if uniform {
		var vs, ws []float64
		for _, px := range img.Pix {
			if uint(px.V) < darknessLimit {
				continue
			}
			vs = append(vs, float64(px.V))
			ws = append(ws, 1)
		}
		avg := float64(darknessLimit)
		if len(vs) > 0 {
			avg = stat.Mean(vs, ws)
		}
		v := scaleBrightness(avg, brightnessPct)
		for c := range out {
			out[c] = v
		}
		return out
	}

	vs := make([][]float64, n)
	ws := make([][]float64, n)
	for _, e := range tbl.Entries {
		px := img.Pix[e.Pos]
		if uint(px.V) < darknessLimit {
			continue
		}
		vs[e.Channel] = append(vs[e.Channel], float64(px.V))
		ws[e.Channel] = append(ws[e.Channel], float64(e.Weight))
	}
	for c := 0; c < n; c++ {
		if len(vs[c]) == 0 {
			continue
		}
		avg := stat.Mean(vs[c], ws[c])
		out[c] = scaleBrightness(avg, brightnessPct)
	}
	return out
}

func scaleBrightness(avg float64, pct uint) uint8 {
	v := avg * float64(pct) / 100.0
	if v > float64(color.Max) {
		v = float64(color.Max)
	}
	if v < 0 {
		v = 0
	}
	return uint8(v)
}
