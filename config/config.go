/*
DESCRIPTION
  config.go defines the Parameters struct the pipeline is driven by, and
  its Validate/Update entry points.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config defines the Parameters struct atmopipe is configured
// with, and the Variables descriptor table that drives both validation and
// the runtime Update(map[string]string) call the pipeline's configuration
// API uses at reconfigure points.
package config

import (
	"github.com/fathomlight/atmopipe/channelmodel"
	"github.com/fathomlight/atmopipe/internal/logging"
)

// FilterMode selects the spatial->temporal filter stage of the filter
// chain.
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterPercentage
	FilterCombined
)

func (m FilterMode) String() string {
	switch m {
	case FilterNone:
		return "none"
	case FilterPercentage:
		return "percentage"
	case FilterCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// AnalyzeSize selects the analyze window width, one of 64/128/192/256.
type AnalyzeSize int

const (
	AnalyzeSize64 AnalyzeSize = iota
	AnalyzeSize128
	AnalyzeSize192
	AnalyzeSize256
)

// Width returns the analyze window width in pixels this enum value
// selects.
func (s AnalyzeSize) Width() int {
	switch s {
	case AnalyzeSize64:
		return 64
	case AnalyzeSize128:
		return 128
	case AnalyzeSize192:
		return 192
	case AnalyzeSize256:
		return 256
	default:
		return 64
	}
}

// Parameters is a single owned configuration snapshot. Every numeric field
// is clamped to its declared range by Validate. The orchestrator keeps two
// independently owned Parameters values — pending and active — copying
// pending into active only at controlled reconfigure points; this struct
// never aliases another instance of itself.
type Parameters struct {
	Enabled bool

	Driver      string
	DriverParam string
	DriverPath  string

	Layout channelmodel.Layout

	AnalyzeRate uint // ms
	AnalyzeSize AnalyzeSize
	Overscan    uint // thousandths, 0..200

	DarknessLimit uint // 0..100
	EdgeWeighting uint // 10..200
	HueWinSize    uint // 0..5
	SatWinSize    uint // 0..5
	HueThreshold  uint // 0..100

	Brightness        uint // 50..300
	UniformBrightness bool

	Filter           FilterMode
	FilterSmoothness uint // 1..100
	FilterLength     uint // ms, 300..5000
	FilterThreshold  uint // 1..100
	FilterDelay      uint // ms, 0..1000

	OutputRate uint // ms, 10..500
	StartDelay uint // ms, 0..5000

	WCRed, WCGreen, WCBlue uint8 // 0..255

	Gamma uint // 0..30, representing 0.0..3.0

	// Logger receives all configuration diagnostics. Must be set for
	// Validate/Update to work.
	Logger logging.Logger
}

// Default returns the Parameters set the original implementation's test
// scenarios assume.
func Default() Parameters {
	return Parameters{
		Brightness:       100,
		DarknessLimit:    1,
		EdgeWeighting:    60,
		Filter:           FilterCombined,
		FilterLength:     500,
		FilterSmoothness: 50,
		FilterThreshold:  40,
		HueWinSize:       3,
		SatWinSize:       3,
		HueThreshold:     93,
		WCRed:            255,
		WCGreen:          255,
		WCBlue:           255,
		Gamma:            10,
		OutputRate:       20,
		AnalyzeRate:      35,
		Driver:           "null",
	}
}

// Validate clamps every out-of-range field to its declared bound, logging
// each correction, and returns an error only when the configuration
// cannot be made valid: no channels configured while enabled, or a layout
// that Layout.Validate rejects (a border count above MaxBorderChannels, or
// a center/corner count above one).
func (p *Parameters) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(p)
		}
	}
	if p.Enabled && p.Layout.Sum() == 0 {
		return errNoChannels
	}
	if err := p.Layout.Validate(); err != nil {
		return err
	}
	return nil
}

// Update applies a map of configuration variable names to string values,
// parsing and clamping each through its Variables entry. Unknown keys are
// ignored rather than surfaced as the "unknown parameter" configuration
// error §7 describes, matching the teacher's config.Update semantics; a
// caller that must reject unknown keys synchronously should check them
// against Variables before calling Update.
func (p *Parameters) Update(vars map[string]string) {
	for _, v := range Variables {
		if raw, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(p, raw)
		}
	}
}

// LogInvalidField logs that a field was bad or unset and a default value
// was substituted.
func (p *Parameters) LogInvalidField(name string, def interface{}) {
	p.Logger.Info(name+" bad or unset, defaulting", name, def)
}
