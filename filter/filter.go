/*
DESCRIPTION
  filter.go implements the temporal filter chain: percentage or
  combined-mean smoothing with jump detection, a ring-buffer delay, gamma
  correction and white-balance scaling.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter turns one analyzer cycle's per-channel colors into the
// filtered-output colors the driver host sends, applying the temporal
// filter chain: percentage/combined-mean, delay, gamma, white-balance.
package filter

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

// meanThresholdScale converts filter_threshold (a 1..100 percentage) into
// the 0..441 Euclidean RGB-distance range the combined-mean jump detector
// compares against. Empirical, carried over unchanged and kept as a named
// constant so it stays test-tunable.
const meanThresholdScale = 4.4167

// Chain holds the per-channel temporal filter state: the running
// percentage/mean output, the combined filter's running sum and mean, and
// the delay ring buffer. A zero Chain is usable; call Reset to clear
// accumulated state (e.g. after a channel-count change) without
// discarding the allocated slices.
type Chain struct {
	n int

	// percentage/combined-mean state.
	meanInitialized bool
	filtered        []color.RGB // output of 4.4.1 ("filtered")
	meanValues      []color.RGB
	sumR, sumG, sumB []int64 // running sums per channel per component
	oldMeanLength   int

	// delay state.
	delayQueue   [][]color.RGB // delayQueue[slot][channel]
	delayPos     int
	delayFilter  uint
	delayOutRate uint
	delayDirty   bool
}

// NewChain allocates a Chain for n channels.
func NewChain(n int) *Chain {
	c := &Chain{n: n}
	c.filtered = make([]color.RGB, n)
	c.meanValues = make([]color.RGB, n)
	c.ensureComponentSums()
	c.delayDirty = true
	return c
}

// Reset clears the "initialized" flag on the mean filter and forces the
// delay queue to reinitialize on the next Apply, per the filter chain's
// Reset semantics.
func (c *Chain) Reset() {
	c.meanInitialized = false
	c.oldMeanLength = 0
	c.delayDirty = true
	c.delayPos = 0
}

// Apply runs the full chain over analyzed and returns filtered-output
// colors. p is always the active parameter snapshot.
func (c *Chain) Apply(analyzed []color.RGB, p config.Parameters) []color.RGB {
	if len(analyzed) != c.n {
		c.n = len(analyzed)
		c.filtered = make([]color.RGB, c.n)
		c.meanValues = make([]color.RGB, c.n)
		c.sumR, c.sumG, c.sumB = nil, nil, nil
		c.ensureComponentSums()
		c.meanInitialized = false
		c.delayDirty = true
	}

	c.applyTemporal(analyzed, p)
	out := c.applyDelay(p)
	applyGamma(out, p.Gamma)
	applyWhiteBalance(out, p.WCRed, p.WCGreen, p.WCBlue)
	return out
}

// applyTemporal is 4.4.1: NONE/PERCENTAGE/COMBINED, writing the result
// into c.filtered.
func (c *Chain) applyTemporal(analyzed []color.RGB, p config.Parameters) {
	switch p.Filter {
	case config.FilterNone:
		copy(c.filtered, analyzed)
	case config.FilterPercentage:
		c.percentageFilter(analyzed, p.FilterSmoothness)
	case config.FilterCombined:
		c.combinedFilter(analyzed, p)
	default:
		copy(c.filtered, analyzed)
	}
}

func (c *Chain) percentageFilter(analyzed []color.RGB, smoothness uint) {
	if !c.meanInitialized {
		c.meanInitialized = true
		copy(c.filtered, analyzed)
		return
	}
	oldP := int(smoothness)
	newP := 100 - oldP
	for i, act := range analyzed {
		out := c.filtered[i]
		c.filtered[i] = color.RGB{
			R: blend(act.R, out.R, newP, oldP),
			G: blend(act.G, out.G, newP, oldP),
			B: blend(act.B, out.B, newP, oldP),
		}
	}
}

func blend(act, out uint8, newP, oldP int) uint8 {
	return uint8((int(act)*newP + int(out)*oldP) / 100)
}

// combinedFilter keeps a per-channel running sum and mean over a window of
// meanLength samples, jumping to the instantaneous value whenever the
// Euclidean RGB distance between the analyzed color and the running mean
// exceeds the scaled filter_threshold, or whenever the window length
// itself changed.
func (c *Chain) combinedFilter(analyzed []color.RGB, p config.Parameters) {
	outputRate := p.OutputRate
	filterLength := p.FilterLength
	meanLength := 1
	if outputRate > 0 && filterLength > outputRate {
		meanLength = int(filterLength / outputRate)
	}
	maxSum := int64(meanLength * 255)
	reinit := meanLength != c.oldMeanLength
	c.oldMeanLength = meanLength

	threshold := float64(p.FilterThreshold) * meanThresholdScale
	oldP := int(p.FilterSmoothness)
	newP := 100 - oldP

	c.ensureComponentSums()
	for i, act := range analyzed {
		mean := c.meanValues[i]

		newR := updateComponent(&c.sumR[i], int(act.R), int(mean.R), meanLength, maxSum)
		newG := updateComponent(&c.sumG[i], int(act.G), int(mean.G), meanLength, maxSum)
		newB := updateComponent(&c.sumB[i], int(act.B), int(mean.B), meanLength, maxSum)
		c.meanValues[i] = color.RGB{R: uint8(newR), G: uint8(newG), B: uint8(newB)}

		dr := float64(int(act.R) - newR)
		dg := float64(int(act.G) - newG)
		db := float64(int(act.B) - newB)
		dist := floats.Norm([]float64{dr, dg, db}, 2)

		if dist > threshold || reinit {
			c.filtered[i] = act
			c.meanValues[i] = act
			c.sumR[i] = int64(act.R) * int64(meanLength)
			c.sumG[i] = int64(act.G) * int64(meanLength)
			c.sumB[i] = int64(act.B) * int64(meanLength)
		} else {
			out := c.filtered[i]
			c.filtered[i] = color.RGB{
				R: blend(uint8(newR), out.R, newP, oldP),
				G: blend(uint8(newG), out.G, newP, oldP),
				B: blend(uint8(newB), out.B, newP, oldP),
			}
		}
	}
}

func (c *Chain) ensureComponentSums() {
	if len(c.sumR) == c.n {
		return
	}
	c.sumR = make([]int64, c.n)
	c.sumG = make([]int64, c.n)
	c.sumB = make([]int64, c.n)
}

func updateComponent(sum *int64, act, mean, meanLength int, maxSum int64) int {
	*sum += int64(act - mean)
	if *sum < 0 {
		*sum = 0
	} else if *sum > maxSum {
		*sum = maxSum
	}
	return int(*sum / int64(meanLength))
}

// applyDelay is 4.4.2: a ring buffer of length (filter_delay/output_rate)+1
// when filter_delay >= output_rate, else a pass-through. Changing either
// value reallocates the queue and resets pos to 0.
func (c *Chain) applyDelay(p config.Parameters) []color.RGB {
	if c.delayDirty || p.FilterDelay != c.delayFilter || p.OutputRate != c.delayOutRate {
		c.delayFilter = p.FilterDelay
		c.delayOutRate = p.OutputRate
		c.delayDirty = false
		c.delayPos = 0

		length := 0
		if p.OutputRate > 0 && p.FilterDelay >= p.OutputRate {
			length = int(p.FilterDelay/p.OutputRate) + 1
		}
		c.delayQueue = make([][]color.RGB, length)
		for i := range c.delayQueue {
			c.delayQueue[i] = make([]color.RGB, c.n)
		}
	}

	if len(c.delayQueue) == 0 {
		out := make([]color.RGB, c.n)
		copy(out, c.filtered)
		return out
	}

	outPos := c.delayPos + 1
	if outPos >= len(c.delayQueue) {
		outPos = 0
	}
	copy(c.delayQueue[c.delayPos], c.filtered)
	out := make([]color.RGB, c.n)
	copy(out, c.delayQueue[outPos])
	c.delayPos = outPos
	return out
}

// applyGamma is 4.4.3: identity when gamma<=10, else x <- ((x/255)^(gamma/10))*255
// per component.
func applyGamma(colors []color.RGB, igamma uint) {
	if igamma <= 10 {
		return
	}
	g := float64(igamma) / 10.0
	for i, c := range colors {
		colors[i] = color.RGB{
			R: gammaComponent(c.R, g),
			G: gammaComponent(c.G, g),
			B: gammaComponent(c.B, g),
		}
	}
}

func gammaComponent(x uint8, gamma float64) uint8 {
	return uint8(math.Pow(float64(x)/255.0, gamma) * 255.0)
}

// applyWhiteBalance is 4.4.4: scale each component by wc_c/255 whenever
// any of the three is below 255; all 255 is identity.
func applyWhiteBalance(colors []color.RGB, wcR, wcG, wcB uint8) {
	if wcR == 255 && wcG == 255 && wcB == 255 {
		return
	}
	for i, c := range colors {
		colors[i] = color.RGB{
			R: uint8(int(c.R) * int(wcR) / 255),
			G: uint8(int(c.G) * int(wcG) / 255),
			B: uint8(int(c.B) * int(wcB) / 255),
		}
	}
}
