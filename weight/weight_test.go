package weight

import (
	"testing"

	"github.com/fathomlight/atmopipe/channelmodel"
)

func TestBuildCenterFullWeight(t *testing.T) {
	layout := channelmodel.Layout{Center: 1}
	tbl := Build(8, 8, layout, 60)
	if len(tbl.Entries) != 64 {
		t.Fatalf("got %d entries, want 64 (every pixel contributes to the single center channel)", len(tbl.Entries))
	}
	for _, e := range tbl.Entries {
		if e.Weight != 255 {
			t.Errorf("entry at pos %d has weight %d, want 255", e.Pos, e.Weight)
		}
		if e.Channel != 0 {
			t.Errorf("entry at pos %d has channel %d, want 0", e.Pos, e.Channel)
		}
	}
}

func TestBuildTopBottomSplit(t *testing.T) {
	layout := channelmodel.Layout{Top: 1, Bottom: 1}
	tbl := Build(8, 8, layout, 60)
	sawTop, sawBottom := false, false
	for _, e := range tbl.Entries {
		row := e.Pos / 8
		if row < 4 {
			sawTop = true
			if e.Channel != 0 {
				t.Errorf("top-half entry has channel %d, want 0 (top)", e.Channel)
			}
		} else {
			sawBottom = true
			if e.Channel != 1 {
				t.Errorf("bottom-half entry has channel %d, want 1 (bottom)", e.Channel)
			}
		}
	}
	if !sawTop || !sawBottom {
		t.Fatalf("expected entries in both halves, sawTop=%v sawBottom=%v", sawTop, sawBottom)
	}
}

func TestBuildDropsBelowMinWeight(t *testing.T) {
	layout := channelmodel.Layout{Top: 1}
	tbl := Build(8, 8, layout, 60)
	for _, e := range tbl.Entries {
		if e.Weight <= MinWeightLimit {
			t.Errorf("entry with weight %d should have been dropped (limit %d)", e.Weight, MinWeightLimit)
		}
	}
}

func TestBuildEmptyLayoutProducesNoEntries(t *testing.T) {
	tbl := Build(8, 8, channelmodel.Layout{}, 60)
	if len(tbl.Entries) != 0 {
		t.Fatalf("got %d entries for empty layout, want 0", len(tbl.Entries))
	}
}

// TestBuildTopChannelsOffsetByLeadingCorner is the corner-bearing-layout
// regression for §4.2: the S = top_left+top+top_right slices run
// top_left, then the top channels, then top_right, so the top channels
// must start at slice top_left rather than slice 0. With top=3,
// top_left=1, top_right=1 (S=5, slice width=16 at width=80) the three
// top channels occupy slices 1,2,3 ([16,32), [32,48), [48,64)); slice 0
// belongs to top_left and slice 4 to top_right.
func TestBuildTopChannelsOffsetByLeadingCorner(t *testing.T) {
	const width, height = 80, 16
	layout := channelmodel.Layout{Top: 3, TopLeft: 1, TopRight: 1}
	tbl := Build(width, height, layout, 60)

	wantSlice := map[int][2]int{0: {16, 32}, 1: {32, 48}, 2: {48, 64}}
	for _, e := range tbl.Entries {
		if e.Channel > 2 {
			continue // top_left (3) / top_right (4): not under test here.
		}
		row := e.Pos / width
		if row != 0 {
			continue
		}
		col := e.Pos % width
		bounds := wantSlice[e.Channel]
		if col < bounds[0] || col >= bounds[1] {
			t.Errorf("top channel %d entry at col %d, want col in [%d,%d)", e.Channel, col, bounds[0], bounds[1])
		}
	}
}
