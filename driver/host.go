/*
DESCRIPTION
  host.go is the output-driver plugin host: it owns the active driver,
  applies delta suppression against the last sent color vector, and
  implements lights-off and reconfiguration per the plugin host design.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package driver

import (
	"fmt"

	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

// Host wraps one open Driver with the delta-suppressed send and
// lights-off behavior every driver gets for free. A zero Host is usable;
// call Open before the first Send.
type Host struct {
	driver Driver
	last   []color.RGB
	opened bool

	name, path, param string
}

// Open loads and opens the named driver (see Open in registry.go for
// name/path resolution), closing and discarding any previously open
// driver first.
func (h *Host) Open(name, path string, p *config.Parameters) error {
	if h.opened {
		h.driver.Close()
		h.opened = false
	}
	d, err := Open(name, path)
	if err != nil {
		return err
	}
	if err := d.Open(p); err != nil {
		return fmt.Errorf("driver: host: open %q: %w", name, err)
	}
	h.driver = d
	h.name, h.path, h.param = name, path, p.DriverParam
	h.last = nil
	h.opened = true
	return nil
}

// Configure applies instant-changeable settings without reopening the
// driver.
func (h *Host) Configure(p config.Parameters) error {
	if !h.opened {
		return fmt.Errorf("driver: host: configure: no driver open")
	}
	return h.driver.Configure(p)
}

// Close releases the current driver. Close is a no-op if nothing is
// open.
func (h *Host) Close() error {
	if !h.opened {
		return nil
	}
	err := h.driver.Close()
	h.driver = nil
	h.opened = false
	h.last = nil
	return err
}

// NeedsReopen reports whether driver, driver_path or driver_param
// changed against the parameters this Host was last opened with, per
// the reconfiguration rule that any of the three forces a close+reload.
func (h *Host) NeedsReopen(name, path, param string) bool {
	return !h.opened || h.name != name || h.path != path || h.param != param
}

// Send is the delta-suppressed send: colors is only forwarded to the
// driver when it differs from the last successfully sent vector, or
// when initial is true. last_output_colors is updated only after a
// successful call.
func (h *Host) Send(colors []color.RGB, initial bool) error {
	if !h.opened {
		return fmt.Errorf("driver: host: send: no driver open")
	}
	if !initial && colorsEqual(colors, h.last) {
		return nil
	}
	var last []color.RGB
	if !initial {
		last = h.last
	}
	if err := h.driver.Send(colors, last); err != nil {
		return err
	}
	h.last = append(h.last[:0], colors...)
	return nil
}

// LightsOff writes an all-zero vector through Send (not forced initial,
// so the driver still deltas against whatever it last saw), matching
// the lights-off sequence in the plugin host design. Failures are
// logged by the caller, not returned as fatal: lights-off is
// best-effort.
func (h *Host) LightsOff(n int) error {
	if !h.opened {
		return nil
	}
	zeros := make([]color.RGB, n)
	return h.Send(zeros, false)
}

func colorsEqual(a, b []color.RGB) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
