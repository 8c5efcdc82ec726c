/*
DESCRIPTION
  i2c.go is the built-in "i2c" driver: it streams one byte per color
  component to a fixed I2C address on an embd bus, the same
  embd.NewI2CBus(port).WriteByte(addr, value) pattern the host used to
  drive an I2C amplifier, repurposed here to drive an I2C LED strip
  controller.

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
	"strconv"
	"strings"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/rpi"

	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

const defaultI2CPort = 1
const defaultI2CAddr = 0x40

// i2cDriver writes each channel's R, G, B bytes in sequence to a single
// fixed register address on the target device; driver_param selects
// "port:N" and "addr:0xNN", both optional.
type i2cDriver struct {
	bus  embd.I2CBus
	addr byte
}

func newI2CDriver() Driver { return &i2cDriver{} }

func (d *i2cDriver) Open(p *config.Parameters) error {
	port := defaultI2CPort
	addr := defaultI2CAddr
	for _, part := range strings.FieldsFunc(p.DriverParam, func(r rune) bool { return r == ';' || r == '&' }) {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		switch k {
		case "port":
			if n, err := strconv.Atoi(v); err == nil {
				port = n
			}
		case "addr":
			if n, err := strconv.ParseUint(strings.TrimPrefix(v, "0x"), 16, 8); err == nil {
				addr = int(n)
			}
		}
	}
	d.bus = embd.NewI2CBus(byte(port))
	d.addr = byte(addr)
	return nil
}

func (d *i2cDriver) Configure(p config.Parameters) error { return nil }

func (d *i2cDriver) Close() error {
	if d.bus == nil {
		return nil
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}

func (d *i2cDriver) Send(colors, last []color.RGB) error {
	if d.bus == nil {
		return fmt.Errorf("driver: i2c: not open")
	}
	for _, c := range colors {
		for _, b := range [3]byte{c.R, c.G, c.B} {
			if err := d.bus.WriteByte(d.addr, b); err != nil {
				return fmt.Errorf("driver: i2c: write: %w", err)
			}
		}
	}
	return nil
}
