package filter

import (
	"testing"

	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

func black() color.RGB { return color.RGB{} }
func white() color.RGB { return color.RGB{R: 255, G: 255, B: 255} }

// TestCombinedFilterJumpsOnBigStep covers the spec's combined-mean jump
// scenario: a long run of black frames followed by one white frame should
// jump straight to (approximately) white rather than ramping toward it,
// since the Euclidean RGB distance exceeds the scaled threshold.
func TestCombinedFilterJumpsOnBigStep(t *testing.T) {
	p := config.Default()
	p.Filter = config.FilterCombined
	p.FilterThreshold = 40
	p.FilterLength = 500
	p.OutputRate = 20

	c := NewChain(1)
	for i := 0; i < 100; i++ {
		c.Apply([]color.RGB{black()}, p)
	}
	out := c.Apply([]color.RGB{white()}, p)
	if out[0].R < 250 {
		t.Errorf("after a big jump, R = %d, want close to 255 (jump, not ramp)", out[0].R)
	}
}

// TestCombinedFilterSmoothsSmallStep covers the complementary case: small
// per-step deltas stay under threshold and should be blended rather than
// jumped to outright.
func TestCombinedFilterSmoothsSmallStep(t *testing.T) {
	p := config.Default()
	p.Filter = config.FilterCombined
	p.FilterThreshold = 90
	p.FilterSmoothness = 50
	p.FilterLength = 500
	p.OutputRate = 20

	c := NewChain(1)
	base := color.RGB{R: 100, G: 100, B: 100}
	c.Apply([]color.RGB{base}, p)
	step := color.RGB{R: 105, G: 100, B: 100}
	out := c.Apply([]color.RGB{step}, p)
	if out[0].R == step.R {
		t.Errorf("small step was not smoothed: R = %d, want blended below %d", out[0].R, step.R)
	}
}

// TestDelayScenario covers the spec's delay-of-2 scenario: filter_delay=40,
// output_rate=20 gives a 3-slot ring buffer, so feeding A, B, C in sequence
// (with the delay filter otherwise a pass-through) yields outputs 0, 0, A.
func TestDelayScenario(t *testing.T) {
	p := config.Default()
	p.Filter = config.FilterNone
	p.FilterDelay = 40
	p.OutputRate = 20

	c := NewChain(1)
	a := color.RGB{R: 10}
	b := color.RGB{R: 20}
	d := color.RGB{R: 30}

	out1 := c.Apply([]color.RGB{a}, p)
	out2 := c.Apply([]color.RGB{b}, p)
	out3 := c.Apply([]color.RGB{d}, p)

	if out1[0] != black() {
		t.Errorf("out1 = %+v, want black", out1[0])
	}
	if out2[0] != black() {
		t.Errorf("out2 = %+v, want black", out2[0])
	}
	if out3[0] != a {
		t.Errorf("out3 = %+v, want %+v", out3[0], a)
	}
}

// TestDelayBelowOutputRateIsPassthrough covers the filter_delay < output_rate
// case: the delay stage must be a no-op.
func TestDelayBelowOutputRateIsPassthrough(t *testing.T) {
	p := config.Default()
	p.Filter = config.FilterNone
	p.FilterDelay = 5
	p.OutputRate = 20

	c := NewChain(1)
	a := color.RGB{R: 10}
	out := c.Apply([]color.RGB{a}, p)
	if out[0] != a {
		t.Errorf("out = %+v, want pass-through %+v", out[0], a)
	}
}

// TestGammaIdentityAtDefault covers gamma<=10 being an identity transform.
func TestGammaIdentityAtDefault(t *testing.T) {
	in := []color.RGB{{R: 123, G: 45, B: 200}}
	out := make([]color.RGB, len(in))
	copy(out, in)
	applyGamma(out, 10)
	if out[0] != in[0] {
		t.Errorf("applyGamma(10) changed color: got %+v, want %+v", out[0], in[0])
	}
}

// TestGammaAbove10Darkens covers gamma>10 applying the power curve, which
// darkens every component strictly below 255.
func TestGammaAbove10Darkens(t *testing.T) {
	in := []color.RGB{{R: 200, G: 200, B: 200}}
	applyGamma(in, 20) // gamma factor 2.0
	if in[0].R >= 200 {
		t.Errorf("applyGamma(20) R = %d, want darkened below 200", in[0].R)
	}
}

// TestWhiteBalanceHalfRed covers the spec's wc_red=128 scenario: the red
// channel is scaled to roughly half, green and blue are untouched.
func TestWhiteBalanceHalfRed(t *testing.T) {
	in := []color.RGB{{R: 200, G: 200, B: 200}}
	applyWhiteBalance(in, 128, 255, 255)
	if in[0].R < 95 || in[0].R > 105 {
		t.Errorf("R = %d, want approximately 100 (halved)", in[0].R)
	}
	if in[0].G != 200 || in[0].B != 200 {
		t.Errorf("G/B changed: got %+v, want unchanged at 200", in[0])
	}
}

// TestWhiteBalanceAllMaxIsIdentity covers the all-255 no-op case.
func TestWhiteBalanceAllMaxIsIdentity(t *testing.T) {
	in := []color.RGB{{R: 200, G: 150, B: 30}}
	want := in[0]
	applyWhiteBalance(in, 255, 255, 255)
	if in[0] != want {
		t.Errorf("applyWhiteBalance with all-255 changed color: got %+v, want %+v", in[0], want)
	}
}

// TestPercentageFilterFirstStepPassesThrough covers the percentage filter's
// first invocation: with no prior state, the analyzed color passes through
// unchanged (matching the combined filter's own first-sample behavior).
func TestPercentageFilterFirstStepPassesThrough(t *testing.T) {
	p := config.Default()
	p.Filter = config.FilterPercentage
	p.FilterSmoothness = 50

	c := NewChain(1)
	red := color.RGB{R: 255}
	out := c.Apply([]color.RGB{red}, p)
	if out[0] != red {
		t.Errorf("first percentage-filter step = %+v, want unchanged %+v", out[0], red)
	}
}

// TestPercentageFilterBlendsSecondStep covers the second invocation: the
// output blends the new analyzed value with the previous output according
// to filter_smoothness.
func TestPercentageFilterBlendsSecondStep(t *testing.T) {
	p := config.Default()
	p.Filter = config.FilterPercentage
	p.FilterSmoothness = 50

	c := NewChain(1)
	c.Apply([]color.RGB{{R: 0}}, p)
	out := c.Apply([]color.RGB{{R: 200}}, p)
	if out[0].R == 0 || out[0].R == 200 {
		t.Errorf("second percentage-filter step R = %d, want strictly between 0 and 200", out[0].R)
	}
}

// TestResizeReallocatesState covers the orchestrator calling Apply with a
// different channel count (e.g. after a layout change) without panicking,
// and resetting accumulated mean/delay state.
func TestResizeReallocatesState(t *testing.T) {
	p := config.Default()
	p.Filter = config.FilterCombined

	c := NewChain(1)
	c.Apply([]color.RGB{white()}, p)
	out := c.Apply([]color.RGB{white(), black(), white()}, p)
	if len(out) != 3 {
		t.Fatalf("got %d channels, want 3", len(out))
	}
}
