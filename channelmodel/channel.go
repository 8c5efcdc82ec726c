/*
DESCRIPTION
  channel.go models the ordered list of light channels a ChannelLayout
  describes, and the allocation of per-channel buffers sized to match it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package channelmodel defines the nine-zone channel layout and the
// canonical channel ordering every other pipeline component indexes by.
package channelmodel

import "fmt"

// Zone identifies one of the nine regions a ChannelLayout allocates
// channels to.
type Zone int

// The nine zones, in the canonical channel order: top, bottom, left,
// right, center, top-left, top-right, bottom-left, bottom-right. Vectors
// returned by the analyzer, filter chain and driver host are always in
// this order, with zero-count zones omitted.
const (
	Top Zone = iota
	Bottom
	Left
	Right
	Center
	TopLeft
	TopRight
	BottomLeft
	BottomRight

	numZones = int(BottomRight) + 1
)

func (z Zone) String() string {
	switch z {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case Center:
		return "center"
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// MaxBorderChannels bounds the channel count accepted for any single
// border zone (top, bottom, left, right). Center and the four corners are
// implicitly bounded to one channel each.
const MaxBorderChannels = 64

// Layout holds the channel counts for the nine zones. Center and the four
// corner zones are boolean in spirit (0 or 1) but kept as uint for
// symmetry with the border zones.
type Layout struct {
	Top, Bottom, Left, Right      uint
	Center                        uint
	TopLeft, TopRight             uint
	BottomLeft, BottomRight       uint
}

// Count returns the count configured for zone z.
func (l Layout) Count(z Zone) uint {
	switch z {
	case Top:
		return l.Top
	case Bottom:
		return l.Bottom
	case Left:
		return l.Left
	case Right:
		return l.Right
	case Center:
		return l.Center
	case TopLeft:
		return l.TopLeft
	case TopRight:
		return l.TopRight
	case BottomLeft:
		return l.BottomLeft
	case BottomRight:
		return l.BottomRight
	default:
		return 0
	}
}

// Sum is the total channel count the layout describes.
func (l Layout) Sum() uint {
	var s uint
	for z := Zone(0); z < Zone(numZones); z++ {
		s += l.Count(z)
	}
	return s
}

// Validate reports an error if any border count exceeds MaxBorderChannels,
// or if any of the center/corner counts is more than one (those zones hold
// at most a single channel each).
func (l Layout) Validate() error {
	for _, z := range []Zone{Top, Bottom, Left, Right} {
		if l.Count(z) > MaxBorderChannels {
			return fmt.Errorf("channelmodel: %s channel count %d exceeds max %d", z, l.Count(z), MaxBorderChannels)
		}
	}
	for _, z := range []Zone{Center, TopLeft, TopRight, BottomLeft, BottomRight} {
		if l.Count(z) > 1 {
			return fmt.Errorf("channelmodel: %s channel count %d exceeds 1", z, l.Count(z))
		}
	}
	return nil
}

// Channel identifies one abstract light position: its zone and its
// 0-based index within that zone (always 0 for center/corner zones).
type Channel struct {
	Zone  Zone
	Index int
}

func (c Channel) String() string {
	if c.Zone == Center || c.Zone >= TopLeft {
		return c.Zone.String()
	}
	return fmt.Sprintf("%s #%d", c.Zone, c.Index+1)
}

// Channels returns the ordered channel list for a layout: every configured
// zone is omitted when its count is zero, and zones are emitted in the
// canonical order declared above.
func Channels(l Layout) []Channel {
	out := make([]Channel, 0, l.Sum())
	for z := Zone(0); z < Zone(numZones); z++ {
		n := l.Count(z)
		for i := uint(0); i < n; i++ {
			out = append(out, Channel{Zone: z, Index: int(i)})
		}
	}
	return out
}
