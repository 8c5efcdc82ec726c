package driver

import (
	"github.com/fathomlight/atmopipe/color"
	"github.com/fathomlight/atmopipe/config"
)

// nullDriver is the built-in no-op driver selected by the reserved
// driver name "null". It accepts any parameters and discards every send,
// matching the spec's "bypasses discovery" rule for this one name.
type nullDriver struct{}

func newNullDriver() Driver { return &nullDriver{} }

func (d *nullDriver) Open(p *config.Parameters) error           { return nil }
func (d *nullDriver) Configure(p config.Parameters) error       { return nil }
func (d *nullDriver) Close() error                              { return nil }
func (d *nullDriver) Send(colors, last []color.RGB) error       { return nil }
