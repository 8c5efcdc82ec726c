/*
DESCRIPTION
  pipeline.go is the pipeline orchestrator: it owns the active/pending
  parameter split, the analyzer and filter chain state, the output
  driver host, and the two cooperating loops (grab/analyze,
  filter/output) that the spec's concurrency model describes.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Alan Noble <alan@ausocean.org>
  Dan Kortschak <dan@ausocean.org>
  Trek Hopton <trek@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline implements the two-loop orchestrator that sequences
// frame capture, analysis, temporal filtering and driver output at
// independent rates, and the start/suspend/resume/reconfigure/stop
// lifecycle that governs them.
package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/fathomlight/atmopipe/analyzer"
	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
	"github.com/fathomlight/atmopipe/driver"
	"github.com/fathomlight/atmopipe/filter"
	"github.com/fathomlight/atmopipe/frame"
	"github.com/fathomlight/atmopipe/internal/logging"
	"github.com/fathomlight/atmopipe/internal/metrics"
	"github.com/fathomlight/atmopipe/source"
	"github.com/fathomlight/atmopipe/weight"
)

// Pipeline is a single orchestrator instance: one frame source, one
// output driver host, and the analyzer/filter state they feed through.
// A Pipeline is not safe for concurrent use by multiple goroutines
// except through its exported methods, which serialize on an internal
// mutex exactly as the concurrency model's single-lock design requires.
type Pipeline struct {
	log logging.Logger
	met *metrics.Metrics
	src source.Source

	mu      sync.Mutex
	pending config.Parameters
	active  config.Parameters
	state   State

	host *driver.Host

	tbl           weight.Table
	hsv           *frame.HSV
	analyzerState *analyzer.State
	filterChain   *filter.Chain

	analyzedColors []color.RGB

	startTime time.Time

	stopCh     chan struct{}
	wakeGrab   chan struct{}
	wakeOutput chan struct{}
	wg         sync.WaitGroup
}

// New returns a Pipeline reading frames from src, starting from the
// parameters p (typically config.Default()). The Pipeline starts
// Stopped; call Start to begin running.
func New(src source.Source, p config.Parameters, log logging.Logger, met *metrics.Metrics) *Pipeline {
	return &Pipeline{
		log:           log,
		met:           met,
		src:           src,
		pending:       p,
		active:        p,
		state:         Stopped,
		host:          &driver.Host{},
		analyzerState: analyzer.NewState(0),
		filterChain:   filter.NewChain(0),
		hsv:           frame.NewHSV(0, 0),
	}
}

// Parameters returns a copy of the active parameter snapshot.
func (p *Pipeline) Parameters() config.Parameters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// State reports the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start validates the pending parameters, promotes them to active,
// opens the driver, allocates channel buffers, and launches both loops.
// Start is a no-op if the pipeline is already running.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Running || p.state == Suspend || p.state == Suspended {
		return nil
	}

	if err := p.pending.Validate(); err != nil {
		return fmt.Errorf("pipeline: start: %w", err)
	}
	p.active = p.pending

	if err := p.host.Open(p.active.Driver, p.active.DriverPath, &p.active); err != nil {
		return fmt.Errorf("pipeline: start: open driver: %w", err)
	}

	p.allocate(p.active.Layout)

	p.stopCh = make(chan struct{})
	p.wakeGrab = make(chan struct{}, 1)
	p.wakeOutput = make(chan struct{}, 1)
	p.startTime = time.Now()
	p.state = Running

	p.wg.Add(2)
	go p.grabLoop()
	go p.outputLoop()

	if err := p.host.Send(make([]color.RGB, len(p.analyzedColors)), true); err != nil {
		p.log.Error("pipeline: initial all-zero send failed", "error", err)
	}

	return nil
}

// Stop halts both loops, closes the driver, and resets to Stopped.
// Stop is a no-op if already stopped.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.state == Stopped {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.mu.Unlock()

	waitTimeout(&p.wg, transitionTimeout*time.Millisecond, func() {
		p.log.Error("pipeline: stop: loops did not join within the transition timeout")
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.host.Close(); err != nil {
		p.log.Error("pipeline: stop: driver close failed", "error", err)
	}
	p.state = Stopped
}

// Suspend moves both loops to SUSPENDED: the output loop sends a
// lights-off command and the grab loop releases the frame source.
// Suspend is a no-op unless the pipeline is currently Running.
func (p *Pipeline) Suspend() {
	p.mu.Lock()
	if p.state != Running {
		p.mu.Unlock()
		return
	}
	p.state = Suspend
	p.mu.Unlock()

	p.signal(p.wakeGrab)
	p.signal(p.wakeOutput)

	p.mu.Lock()
	p.state = Suspended
	p.mu.Unlock()
}

// Resume moves Suspended back to Running.
func (p *Pipeline) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Suspended && p.state != TicketRevoked {
		return
	}
	p.state = Running
	p.signal(p.wakeGrab)
	p.signal(p.wakeOutput)
}

// RevokeTicket is the cooperative-pause request a host may issue to
// yield execution to a higher-priority subsystem; it behaves like
// Suspend but is expected to be cleared with Resume rather than an
// explicit reconfigure.
func (p *Pipeline) RevokeTicket() {
	p.mu.Lock()
	if p.state != Running {
		p.mu.Unlock()
		return
	}
	p.state = TicketRevoked
	p.mu.Unlock()
	p.signal(p.wakeGrab)
	p.signal(p.wakeOutput)
}

func (p *Pipeline) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// allocate (re)builds the per-channel state for a new channel layout and
// discards the weight table and HSV frame, so the next grab rebuilds them
// for that layout. Safe to call while holding p.mu.
func (p *Pipeline) allocate(layout channelmodel.Layout) {
	n := int(layout.Sum())
	p.analyzerState = analyzer.NewState(n)
	p.filterChain = filter.NewChain(n)
	p.analyzedColors = make([]color.RGB, n)
	p.tbl = weight.Table{}
	p.hsv = frame.NewHSV(0, 0)
}

// waitTimeout waits for wg to finish, calling onTimeout (without
// returning an error) if d elapses first. It never blocks indefinitely.
func waitTimeout(wg *sync.WaitGroup, d time.Duration, onTimeout func()) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		onTimeout()
	}
}
