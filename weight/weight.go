/*
DESCRIPTION
  weight.go builds the sparse per-pixel, per-channel weight table the
  analyzer uses to accumulate its histograms. Entries whose weight falls at
  or below MinWeightLimit are dropped to keep the table sparse.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package weight builds the sparse (pixel offset, channel, weight) table
// that tells the analyzer how much each pixel of an analyze window
// contributes to each configured light channel's histograms.
package weight

import (
	"math"

	"github.com/fathomlight/atmopipe/channelmodel"
)

// MinWeightLimit is the inclusive weight threshold below which an entry is
// dropped from the table (roughly a 5% contribution floor).
const MinWeightLimit = 12

// Entry is one (pixel offset, channel index, weight) triple. Channel is an
// index into the Channels slice returned by channelmodel.Channels for the
// same layout the table was built with.
type Entry struct {
	Pos     int
	Channel int
	Weight  uint8
}

// Table is the compact list of Entry produced for one analyze window size
// and edge weighting. It is rebuilt only when either input changes.
type Table struct {
	Width, Height int
	EdgeWeighting uint
	Entries       []Entry
}

// Build computes the weight table for an analyze window of the given
// dimensions, the channel layout, and edgeWeighting (10..200, where the
// exponent applied is max(1.0, edgeWeighting/10)). width and height must
// each be >=8; callers validate the analyze window before calling Build.
func Build(width, height int, layout channelmodel.Layout, edgeWeighting uint) Table {
	chans := channelmodel.Channels(layout)
	index := make(map[channelmodel.Channel]int, len(chans))
	for i, c := range chans {
		index[c] = i
	}

	w := 1.0
	if edgeWeighting > 10 {
		w = float64(edgeWeighting) / 10.0
	}

	sumTop := layout.Top + layout.TopLeft + layout.TopRight
	sumBottom := layout.Bottom + layout.BottomLeft + layout.BottomRight
	sumLeft := layout.Left + layout.TopLeft + layout.BottomLeft
	sumRight := layout.Right + layout.TopRight + layout.BottomRight

	centerY := height / 2
	centerX := width / 2
	fheight := float64(height - 1)
	fwidth := float64(width - 1)

	// Precompute an upper bound on entry count: every pixel can contribute
	// to at most one channel per zone group (border, corner, center), so
	// pixel count times channel count is a safe, single-shot allocation
	// that is then compacted by the append-if-above-threshold loop below.
	upperBound := width * height * (len(chans) + 1)
	entries := make([]Entry, 0, upperBound)

	insert := func(ch channelmodel.Channel, pos int, w int) {
		if w <= MinWeightLimit {
			return
		}
		idx, ok := index[ch]
		if !ok {
			return
		}
		entries = append(entries, Entry{Pos: pos, Channel: idx, Weight: uint8(w)})
	}

	pos := 0
	for row := 0; row < height; row++ {
		rowNorm := float64(row) / fheight
		top := int(255.0 * math.Pow(1.0-rowNorm, w))
		bottom := int(255.0 * math.Pow(rowNorm, w))

		for col := 0; col < width; col++ {
			colNorm := float64(col) / fwidth
			left := int(255.0 * math.Pow(1.0-colNorm, w))
			right := int(255.0 * math.Pow(colNorm, w))

			for c := uint(0); c < layout.Top; c++ {
				slice := layout.TopLeft + c
				v := 0
				if col >= int(uint(width)*slice/sumTop) && col < int(uint(width)*(slice+1)/sumTop) && row < centerY {
					v = top
				}
				insert(channelmodel.Channel{Zone: channelmodel.Top, Index: int(c)}, pos, v)
			}
			for c := uint(0); c < layout.Bottom; c++ {
				slice := layout.BottomLeft + c
				v := 0
				if col >= int(uint(width)*slice/sumBottom) && col < int(uint(width)*(slice+1)/sumBottom) && row >= centerY {
					v = bottom
				}
				insert(channelmodel.Channel{Zone: channelmodel.Bottom, Index: int(c)}, pos, v)
			}
			for c := uint(0); c < layout.Left; c++ {
				slice := layout.TopLeft + c
				v := 0
				if row >= int(uint(height)*slice/sumLeft) && row < int(uint(height)*(slice+1)/sumLeft) && col < centerX {
					v = left
				}
				insert(channelmodel.Channel{Zone: channelmodel.Left, Index: int(c)}, pos, v)
			}
			for c := uint(0); c < layout.Right; c++ {
				slice := layout.TopRight + c
				v := 0
				if row >= int(uint(height)*slice/sumRight) && row < int(uint(height)*(slice+1)/sumRight) && col >= centerX {
					v = right
				}
				insert(channelmodel.Channel{Zone: channelmodel.Right, Index: int(c)}, pos, v)
			}
			if layout.Center > 0 {
				insert(channelmodel.Channel{Zone: channelmodel.Center}, pos, 255)
			}
			if layout.TopLeft > 0 {
				t := 0
				if col < width/int(sumTop) && row < centerY {
					t = top
				}
				l := 0
				if row < height/int(sumLeft) && col < centerX {
					l = left
				}
				insert(channelmodel.Channel{Zone: channelmodel.TopLeft}, pos, maxInt(t, l))
			}
			if layout.TopRight > 0 {
				t := 0
				if col >= int(uint(width)*(layout.Top+layout.TopLeft)/sumTop) && row < centerY {
					t = top
				}
				r := 0
				if row < height/int(sumRight) && col >= centerX {
					r = right
				}
				insert(channelmodel.Channel{Zone: channelmodel.TopRight}, pos, maxInt(t, r))
			}
			if layout.BottomLeft > 0 {
				b := 0
				if col < width/int(sumBottom) && row >= centerY {
					b = bottom
				}
				l := 0
				if row >= int(uint(height)*(layout.Left+layout.TopLeft)/sumLeft) && col < centerX {
					l = left
				}
				insert(channelmodel.Channel{Zone: channelmodel.BottomLeft}, pos, maxInt(b, l))
			}
			if layout.BottomRight > 0 {
				b := 0
				if col >= int(uint(width)*(layout.Bottom+layout.BottomLeft)/sumBottom) && row >= centerY {
					b = bottom
				}
				r := 0
				if row >= int(uint(height)*(layout.Right+layout.TopRight)/sumRight) && col >= centerX {
					r = right
				}
				insert(channelmodel.Channel{Zone: channelmodel.BottomRight}, pos, maxInt(b, r))
			}

			pos++
		}
	}

	return Table{Width: width, Height: height, EdgeWeighting: edgeWeighting, Entries: entries}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
