/*
DESCRIPTION
  driver.go defines the output-driver plugin contract every back-end
  (built-in or dynamically loaded) satisfies. Failures are reported as
  a plain Go error rather than the plugin ABI's 128-byte errmsg buffer.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package driver defines the output-driver plugin contract, a registry of
// built-in drivers, a dynamic loader for out-of-tree plugins, and a Host
// that wraps the active driver with delta-suppressed send and lights-off.
package driver

import (
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

// Version is the output-driver ABI version this host expects. A driver
// that reports a different version is rejected at load time.
const Version = 3

// Driver is the output-driver plugin contract: claim a device, accept
// instant-changeable configuration, transmit per-channel colors, and
// release the device. Close and Dispose are collapsed into one Close,
// since Go's garbage collector makes a separate dispose-the-instance step
// unnecessary; the host still calls Close exactly once per successful
// Open, matching the plugin lifecycle's open/close pairing.
type Driver interface {
	// Open claims the device for the given parameter snapshot. A driver
	// may refine params in place (for example, a fixed-layout controller
	// may overwrite the caller's channel counts) before returning.
	Open(p *config.Parameters) error

	// Configure applies instant-changeable settings to an already open
	// device.
	Configure(p config.Parameters) error

	// Close releases the device. Close is called at most once per Open
	// and the driver is discarded afterward.
	Close() error

	// Send transmits one frame of per-channel colors. last is nil on the
	// first send after Open, signaling there is no delta baseline.
	Send(colors, last []color.RGB) error
}

// Factory constructs a fresh, unopened driver instance.
type Factory func() Driver
