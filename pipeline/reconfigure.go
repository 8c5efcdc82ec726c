/*
DESCRIPTION
  reconfigure.go implements the reconfigure policy table: comparing
  pending against active parameters decides whether the loops must
  stop and reload the driver, stop and rebuild channel buffers, start
  or stop outright, or simply adopt the pending snapshot in place.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"fmt"

	"github.com/fathomlight/atmopipe/config"
)

// Pending returns a copy of the pipeline's pending parameter snapshot,
// the one a configuration API mutates before calling Reconfigure.
func (p *Pipeline) Pending() config.Parameters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// SetPending replaces the pending parameter snapshot wholesale. A
// caller that wants to change a handful of fields should start from
// Pending(), mutate the copy, and pass it back here, then call
// Reconfigure to apply it.
func (p *Pipeline) SetPending(pending config.Parameters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = pending
}

// Reconfigure classifies the difference between the active and pending
// snapshots via config.Diff and applies the matching effect from the
// reconfigure policy table: a driver-identity change forces a
// stop+reload, a layout change forces a stop+buffer rebuild, an
// enabled-state edge starts or stops the pipeline outright, and a
// purely instant change is simply copied into the active snapshot for
// the loops to pick up on their next iteration. After Reconfigure
// returns with a nil error, active == pending (snapshot semantics),
// per the invariant in spec §8.
func (p *Pipeline) Reconfigure() error {
	p.mu.Lock()
	pending := p.pending
	active := p.active
	running := p.state == Running || p.state == Suspend || p.state == Suspended || p.state == TicketRevoked
	p.mu.Unlock()

	if err := pending.Validate(); err != nil {
		return fmt.Errorf("pipeline: reconfigure: %w", err)
	}

	effects := config.Diff(active, pending)

	switch {
	case effects.EnabledFallingEdge:
		p.Stop()
		p.mu.Lock()
		p.pending, p.active = pending, pending
		p.mu.Unlock()
		return nil

	case effects.EnabledRisingEdge:
		p.mu.Lock()
		p.pending = pending
		p.mu.Unlock()
		return p.Start()

	case effects.DriverChanged:
		if running {
			p.Stop()
		}
		p.mu.Lock()
		p.pending, p.active = pending, pending
		p.mu.Unlock()
		if running {
			return p.Start()
		}
		return nil

	case effects.LayoutChanged:
		if running {
			p.Stop()
		}
		p.mu.Lock()
		p.pending, p.active = pending, pending
		p.allocate(pending.Layout)
		p.mu.Unlock()
		if running {
			return p.Start()
		}
		return nil

	default:
		p.mu.Lock()
		p.pending, p.active = pending, pending
		p.mu.Unlock()
		return nil
	}
}
