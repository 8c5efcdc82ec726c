package pipeline

import (
	"testing"
	"time"

	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
	"github.com/fathomlight/atmopipe/driver"
	"github.com/fathomlight/atmopipe/filter"
	"github.com/fathomlight/atmopipe/internal/logging"
	"github.com/fathomlight/atmopipe/source"
)

func testParams(t *testing.T) config.Parameters {
	p := config.Default()
	p.Enabled = true
	p.Layout = channelmodel.Layout{Top: 1}
	p.Driver = "null"
	p.Logger = (*logging.TestLogger)(t)
	p.AnalyzeRate = 5
	p.OutputRate = 5
	return p
}

func TestStartStopLifecycle(t *testing.T) {
	src := source.NewPattern(16, 16)
	pl := New(src, testParams(t), (*logging.TestLogger)(t), nil)

	if pl.State() != Stopped {
		t.Fatalf("initial state = %v, want Stopped", pl.State())
	}
	if err := pl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if pl.State() != Running {
		t.Fatalf("state after Start = %v, want Running", pl.State())
	}

	time.Sleep(30 * time.Millisecond)

	pl.Stop()
	if pl.State() != Stopped {
		t.Fatalf("state after Stop = %v, want Stopped", pl.State())
	}
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	src := source.NewPattern(16, 16)
	pl := New(src, testParams(t), (*logging.TestLogger)(t), nil)

	if err := pl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pl.Stop()

	if err := pl.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if pl.State() != Running {
		t.Fatalf("state = %v, want Running", pl.State())
	}
}

func TestSuspendResume(t *testing.T) {
	src := source.NewPattern(16, 16)
	pl := New(src, testParams(t), (*logging.TestLogger)(t), nil)

	if err := pl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pl.Stop()

	pl.Suspend()
	if pl.State() != Suspended {
		t.Fatalf("state after Suspend = %v, want Suspended", pl.State())
	}

	pl.Resume()
	if pl.State() != Running {
		t.Fatalf("state after Resume = %v, want Running", pl.State())
	}
}

func TestReconfigureEnabledFalseStopsPipeline(t *testing.T) {
	src := source.NewPattern(16, 16)
	pl := New(src, testParams(t), (*logging.TestLogger)(t), nil)

	if err := pl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	pending := pl.Pending()
	pending.Enabled = false
	pl.SetPending(pending)

	if err := pl.Reconfigure(); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if pl.State() != Stopped {
		t.Fatalf("state after disabling = %v, want Stopped", pl.State())
	}
}

func TestReconfigureLayoutChangeRebuildsBuffers(t *testing.T) {
	src := source.NewPattern(16, 16)
	pl := New(src, testParams(t), (*logging.TestLogger)(t), nil)

	if err := pl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pl.Stop()

	pending := pl.Pending()
	pending.Layout = channelmodel.Layout{Top: 2, Bottom: 1}
	pl.SetPending(pending)

	if err := pl.Reconfigure(); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if pl.State() != Running {
		t.Fatalf("state after layout reconfigure = %v, want Running", pl.State())
	}
	if got := len(pl.analyzedColors); got != 3 {
		t.Errorf("channel count after layout reconfigure = %d, want 3", got)
	}
}

func TestReconfigureInstantFieldDoesNotStopPipeline(t *testing.T) {
	src := source.NewPattern(16, 16)
	pl := New(src, testParams(t), (*logging.TestLogger)(t), nil)

	if err := pl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pl.Stop()

	pending := pl.Pending()
	pending.Gamma = 20
	pl.SetPending(pending)

	if err := pl.Reconfigure(); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if pl.State() != Running {
		t.Fatalf("state after instant reconfigure = %v, want Running", pl.State())
	}
	if pl.Parameters().Gamma != 20 {
		t.Errorf("active Gamma = %d, want 20", pl.Parameters().Gamma)
	}
}

// TestOutputOnceReturnsFalseOnDriverSendFailure is the unit-level half
// of §7's runtime-driver-error policy: a failed driver send must be
// reported to the caller so the output loop can terminate and drive the
// orchestrator to Stopped, rather than logging and retrying forever. An
// unopened Host's Send always fails, which exercises that path without
// needing a driver that deliberately misbehaves.
func TestOutputOnceReturnsFalseOnDriverSendFailure(t *testing.T) {
	pl := &Pipeline{
		log:            (*logging.TestLogger)(t),
		host:           &driver.Host{},
		active:         testParams(t),
		analyzedColors: []color.RGB{{R: 1, G: 2, B: 3}},
		startTime:      time.Now().Add(-time.Second),
		filterChain:    filter.NewChain(1),
	}
	if ok := pl.outputOnce(); ok {
		t.Fatal("outputOnce = true, want false when the driver host has no open driver")
	}
}

func TestCropOverscan(t *testing.T) {
	pix := make([]byte, 10*10*4)
	for i := range pix {
		pix[i] = byte(i)
	}
	w, h, out, err := cropOverscan(pix, 10, 10, 100)
	if err != nil {
		t.Fatalf("cropOverscan: %v", err)
	}
	if w != 8 || h != 8 {
		t.Errorf("cropped size = %dx%d, want 8x8", w, h)
	}
	if len(out) != 8*8*4 {
		t.Errorf("cropped buffer len = %d, want %d", len(out), 8*8*4)
	}
}

func TestCropOverscanZeroIsPassthrough(t *testing.T) {
	pix := make([]byte, 4*4*4)
	w, h, out, err := cropOverscan(pix, 4, 4, 0)
	if err != nil {
		t.Fatalf("cropOverscan: %v", err)
	}
	if w != 4 || h != 4 || len(out) != len(pix) {
		t.Errorf("zero overscan changed the buffer: %dx%d len=%d", w, h, len(out))
	}
}
