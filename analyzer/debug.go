//go:build debug
// +build debug

/*
DESCRIPTION
  Renders a hue or saturation histogram to a PNG for offline debugging,
  built only when the "debug" tag is set.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package analyzer

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fathomlight/atmopipe/frame"
	"github.com/fathomlight/atmopipe/weight"
)

// DumpHueHistogramPNG recomputes channel c's windowed hue histogram over
// img and tbl and writes it as a bar chart to path, for visually
// inspecting dominant-hue stabilization while tuning hue_win_size and
// hue_threshold.
func DumpHueHistogramPNG(path string, img *frame.HSV, tbl weight.Table, numChannels, channel int, darknessLimit, hueWinSize uint) error {
	hist := accumulateHue(img, tbl, numChannels, darknessLimit)
	windowed := windowHist(hist, numChannels, hueWinSize)

	vals := make(plotter.Values, bins)
	for i := 0; i < bins; i++ {
		vals[i] = float64(windowed[channel][i])
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("channel %d hue histogram", channel)
	p.X.Label.Text = "hue bin"
	p.Y.Label.Text = "weighted count"

	bar, err := plotter.NewBarChart(vals, vg.Points(1))
	if err != nil {
		return fmt.Errorf("analyzer: debug: new bar chart: %w", err)
	}
	p.Add(bar)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("analyzer: debug: save %q: %w", path, err)
	}
	return nil
}
