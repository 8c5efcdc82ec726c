package channelmodel

import "testing"

func TestChannelsOrderAndOmission(t *testing.T) {
	l := Layout{Top: 2, Center: 1, BottomRight: 1}
	chs := Channels(l)
	if len(chs) != int(l.Sum()) {
		t.Fatalf("got %d channels, want %d", len(chs), l.Sum())
	}
	want := []Channel{
		{Zone: Top, Index: 0},
		{Zone: Top, Index: 1},
		{Zone: Center, Index: 0},
		{Zone: BottomRight, Index: 0},
	}
	for i, w := range want {
		if chs[i] != w {
			t.Errorf("channel %d = %+v, want %+v", i, chs[i], w)
		}
	}
}

func TestLayoutValidate(t *testing.T) {
	if err := (Layout{Top: MaxBorderChannels + 1}).Validate(); err == nil {
		t.Error("expected error for over-limit border count")
	}
	if err := (Layout{Center: 2}).Validate(); err == nil {
		t.Error("expected error for center count > 1")
	}
	if err := (Layout{Top: 4, Center: 1}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
