/*
DESCRIPTION
  output.go is the filter/output loop: run the temporal filter chain
  over the latest analyzed colors and send the result through the
  driver host, honoring start_delay and the Suspended/TicketRevoked
  lights-off behavior.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"time"

	"github.com/fathomlight/atmopipe/color"
)

// outputLoop runs until stopCh closes, sending one filtered output
// every active.OutputRate milliseconds while Running, and a one-shot
// lights-off command on the transition into Suspended or
// TicketRevoked.
func (p *Pipeline) outputLoop() {
	defer p.wg.Done()

	period := p.currentOutputRate()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	lightsOffSent := false

	for {
		select {
		case <-p.stopCh:
			if err := p.host.LightsOff(p.channelCount()); err == nil && p.met != nil {
				p.met.LightsOffEvents.Inc()
			}
			return
		case <-p.wakeOutput:
		case <-ticker.C:
		}

		if newPeriod := p.currentOutputRate(); newPeriod != period {
			period = newPeriod
			ticker.Reset(period)
		}

		switch p.State() {
		case Running:
			lightsOffSent = false
			if !p.outputOnce() {
				p.log.Error("pipeline: output loop terminating after driver send failure; reconfigure required to restart")
				if err := p.host.LightsOff(p.channelCount()); err != nil {
					p.log.Error("pipeline: lights-off send failed", "error", err)
				} else if p.met != nil {
					p.met.LightsOffEvents.Inc()
				}
				go p.Stop()
				return
			}
		case Suspended, TicketRevoked:
			if !lightsOffSent {
				if err := p.host.LightsOff(p.channelCount()); err != nil {
					p.log.Error("pipeline: lights-off send failed", "error", err)
				} else if p.met != nil {
					p.met.LightsOffEvents.Inc()
				}
				lightsOffSent = true
			}
		}
	}
}

func (p *Pipeline) currentOutputRate() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active.OutputRate == 0 {
		return 20 * time.Millisecond
	}
	return time.Duration(p.active.OutputRate) * time.Millisecond
}

func (p *Pipeline) channelCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.analyzedColors)
}

// outputOnce runs one filter/output iteration: it honors start_delay by
// sending nothing until that much time has passed since Start, then
// runs the filter chain over the latest analyzed colors and sends the
// result through the driver host. It reports false when the driver send
// failed, signaling the caller to terminate the output loop per §7's
// runtime-driver-error policy; a skipped iteration (start_delay not yet
// elapsed, or no channels) reports true since no send was attempted.
func (p *Pipeline) outputOnce() bool {
	p.mu.Lock()
	active := p.active
	since := time.Since(p.startTime)
	analyzed := append([]color.RGB(nil), p.analyzedColors...)
	chain := p.filterChain
	p.mu.Unlock()

	if since < time.Duration(active.StartDelay)*time.Millisecond {
		return true
	}
	if len(analyzed) == 0 {
		return true
	}

	filtered := chain.Apply(analyzed, active)

	if err := p.host.Send(filtered, false); err != nil {
		p.log.Error("pipeline: driver send failed", "error", err)
		if p.met != nil {
			p.met.DriverSendErrors.Inc()
		}
		return false
	}
	if p.met != nil {
		p.met.OutputsSent.Inc()
	}
	return true
}
