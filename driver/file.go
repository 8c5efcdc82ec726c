/*
DESCRIPTION
  file.go is the built-in "file" driver: it appends a human-readable
  rendering of every sent frame to a text file, one block per call,
  grounded on the native file output driver's fprintf layout.

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
	"os"
	"time"

	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

// fileDriver appends one block of channel colors per Send to a log file,
// named by driver_param or "atmo_data.out" when unset.
type fileDriver struct {
	f       *os.File
	layout  channelmodel.Layout
	id      int
}

func newFileDriver() Driver { return &fileDriver{} }

func (d *fileDriver) Open(p *config.Parameters) error {
	name := p.DriverParam
	if name == "" {
		name = "atmo_data.out"
	}
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("driver: file: open %q: %w", name, err)
	}
	d.f = f
	d.layout = p.Layout
	d.id = 0
	return nil
}

func (d *fileDriver) Configure(p config.Parameters) error {
	d.layout = p.Layout
	return nil
}

func (d *fileDriver) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// Send renders one block in the same zone order and field widths as the
// native file driver: one line per channel, "<zone> <#>: r g b", preceded
// by a frame counter and a wall-clock timestamp line.
func (d *fileDriver) Send(colors, last []color.RGB) error {
	if d.f == nil {
		return fmt.Errorf("driver: file: not open")
	}
	now := time.Now()
	fmt.Fprintf(d.f, "%d: %02d.%03d ---\n", d.id, now.Second(), now.Nanosecond()/1e6)
	d.id++

	chans := channelmodel.Channels(d.layout)
	for i, ch := range chans {
		if i >= len(colors) {
			break
		}
		c := colors[i]
		fmt.Fprintf(d.f, "%14s: %3d %3d %3d\n", ch.String(), c.R, c.G, c.B)
	}
	return d.f.Sync()
}
