/*
DESCRIPTION
  variables.go contains the Variables descriptor table: one entry per
  named configuration option from the external configuration surface,
  each with a Name, Type, an Update function parsing a string value into
  the Parameters field, and an optional Validate function that clamps the
  field to its declared range.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Configuration surface keys.
const (
	KeyEnabled     = "enabled"
	KeyDriver      = "driver"
	KeyDriverParam = "driver_param"
	KeyDriverPath  = "driver_path"

	KeyTop         = "top"
	KeyBottom      = "bottom"
	KeyLeft        = "left"
	KeyRight       = "right"
	KeyCenter      = "center"
	KeyTopLeft     = "top_left"
	KeyTopRight    = "top_right"
	KeyBottomLeft  = "bottom_left"
	KeyBottomRight = "bottom_right"

	KeyAnalyzeRate = "analyze_rate"
	KeyAnalyzeSize = "analyze_size"
	KeyOverscan    = "overscan"

	KeyDarknessLimit = "darkness_limit"
	KeyEdgeWeighting = "edge_weighting"
	KeyHueWinSize    = "hue_win_size"
	KeySatWinSize    = "sat_win_size"
	KeyHueThreshold  = "hue_threshold"

	KeyBrightness        = "brightness"
	KeyUniformBrightness = "uniform_brightness"

	KeyFilter           = "filter"
	KeyFilterSmoothness = "filter_smoothness"
	KeyFilterLength     = "filter_length"
	KeyFilterThreshold  = "filter_threshold"
	KeyFilterDelay      = "filter_delay"

	KeyOutputRate = "output_rate"
	KeyStartDelay = "start_delay"

	KeyWCRed   = "wc_red"
	KeyWCGreen = "wc_green"
	KeyWCBlue  = "wc_blue"

	KeyGamma = "gamma"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Variables describes every named configuration option: its name, type, an
// Update function that parses a string into the Parameters field, and an
// optional Validate function that clamps the field to its declared range.
// Diff (reconfigure.go) classifies changes to these same fields for the
// orchestrator's reconfigure policy table.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Parameters, string)
	Validate func(*Parameters)
}{
	{
		Name:   KeyEnabled,
		Type:   typeBool,
		Update: func(p *Parameters, v string) { p.Enabled = parseBool(KeyEnabled, v, p) },
	},
	{
		Name:   KeyDriver,
		Type:   typeString,
		Update: func(p *Parameters, v string) { p.Driver = v },
		Validate: func(p *Parameters) {
			if p.Driver == "" {
				p.LogInvalidField(KeyDriver, "null")
				p.Driver = "null"
			}
		},
	},
	{
		Name:   KeyDriverParam,
		Type:   typeString,
		Update: func(p *Parameters, v string) { p.DriverParam = v },
	},
	{
		Name:   KeyDriverPath,
		Type:   typeString,
		Update: func(p *Parameters, v string) { p.DriverPath = v },
	},
	{
		Name:   KeyTop,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.Top = parseUint(KeyTop, v, p) },
	},
	{
		Name:   KeyBottom,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.Bottom = parseUint(KeyBottom, v, p) },
	},
	{
		Name:   KeyLeft,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.Left = parseUint(KeyLeft, v, p) },
	},
	{
		Name:   KeyRight,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.Right = parseUint(KeyRight, v, p) },
	},
	{
		Name:   KeyCenter,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.Center = parseUint(KeyCenter, v, p) },
	},
	{
		Name:   KeyTopLeft,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.TopLeft = parseUint(KeyTopLeft, v, p) },
	},
	{
		Name:   KeyTopRight,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.TopRight = parseUint(KeyTopRight, v, p) },
	},
	{
		Name:   KeyBottomLeft,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.BottomLeft = parseUint(KeyBottomLeft, v, p) },
	},
	{
		Name:   KeyBottomRight,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Layout.BottomRight = parseUint(KeyBottomRight, v, p) },
	},
	{
		Name:   KeyAnalyzeRate,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.AnalyzeRate = parseUint(KeyAnalyzeRate, v, p) },
		Validate: func(p *Parameters) {
			if p.AnalyzeRate == 0 {
				p.LogInvalidField(KeyAnalyzeRate, uint(35))
				p.AnalyzeRate = 35
			}
		},
	},
	{
		Name: KeyAnalyzeSize,
		Type: "enum:0,1,2,3",
		Update: func(p *Parameters, v string) {
			n := parseUint(KeyAnalyzeSize, v, p)
			if n > uint(AnalyzeSize256) {
				p.LogInvalidField(KeyAnalyzeSize, AnalyzeSize64)
				n = uint(AnalyzeSize64)
			}
			p.AnalyzeSize = AnalyzeSize(n)
		},
	},
	{
		Name:   KeyOverscan,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Overscan = clampUint(KeyOverscan, parseUint(KeyOverscan, v, p), 0, 200, p) },
		Validate: func(p *Parameters) {
			p.Overscan = clampUint(KeyOverscan, p.Overscan, 0, 200, p)
		},
	},
	{
		Name:   KeyDarknessLimit,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.DarknessLimit = clampUint(KeyDarknessLimit, parseUint(KeyDarknessLimit, v, p), 0, 100, p) },
		Validate: func(p *Parameters) {
			p.DarknessLimit = clampUint(KeyDarknessLimit, p.DarknessLimit, 0, 100, p)
		},
	},
	{
		Name:   KeyEdgeWeighting,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.EdgeWeighting = clampUint(KeyEdgeWeighting, parseUint(KeyEdgeWeighting, v, p), 10, 200, p) },
		Validate: func(p *Parameters) {
			p.EdgeWeighting = clampUint(KeyEdgeWeighting, p.EdgeWeighting, 10, 200, p)
		},
	},
	{
		Name:   KeyHueWinSize,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.HueWinSize = clampUint(KeyHueWinSize, parseUint(KeyHueWinSize, v, p), 0, 5, p) },
		Validate: func(p *Parameters) {
			p.HueWinSize = clampUint(KeyHueWinSize, p.HueWinSize, 0, 5, p)
		},
	},
	{
		Name:   KeySatWinSize,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.SatWinSize = clampUint(KeySatWinSize, parseUint(KeySatWinSize, v, p), 0, 5, p) },
		Validate: func(p *Parameters) {
			p.SatWinSize = clampUint(KeySatWinSize, p.SatWinSize, 0, 5, p)
		},
	},
	{
		Name:   KeyHueThreshold,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.HueThreshold = clampUint(KeyHueThreshold, parseUint(KeyHueThreshold, v, p), 0, 100, p) },
		Validate: func(p *Parameters) {
			p.HueThreshold = clampUint(KeyHueThreshold, p.HueThreshold, 0, 100, p)
		},
	},
	{
		Name:   KeyBrightness,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Brightness = clampUint(KeyBrightness, parseUint(KeyBrightness, v, p), 50, 300, p) },
		Validate: func(p *Parameters) {
			p.Brightness = clampUint(KeyBrightness, p.Brightness, 50, 300, p)
		},
	},
	{
		Name:   KeyUniformBrightness,
		Type:   typeBool,
		Update: func(p *Parameters, v string) { p.UniformBrightness = parseBool(KeyUniformBrightness, v, p) },
	},
	{
		Name: KeyFilter,
		Type: "enum:none,percentage,combined",
		Update: func(p *Parameters, v string) {
			switch strings.ToLower(v) {
			case "none":
				p.Filter = FilterNone
			case "percentage":
				p.Filter = FilterPercentage
			case "combined":
				p.Filter = FilterCombined
			default:
				p.Logger.Warning(fmt.Sprintf("invalid value for %s param", KeyFilter), "value", v)
			}
		},
	},
	{
		Name:   KeyFilterSmoothness,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.FilterSmoothness = clampUint(KeyFilterSmoothness, parseUint(KeyFilterSmoothness, v, p), 1, 100, p) },
		Validate: func(p *Parameters) {
			p.FilterSmoothness = clampUint(KeyFilterSmoothness, p.FilterSmoothness, 1, 100, p)
		},
	},
	{
		Name:   KeyFilterLength,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.FilterLength = clampUint(KeyFilterLength, parseUint(KeyFilterLength, v, p), 300, 5000, p) },
		Validate: func(p *Parameters) {
			p.FilterLength = clampUint(KeyFilterLength, p.FilterLength, 300, 5000, p)
		},
	},
	{
		Name:   KeyFilterThreshold,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.FilterThreshold = clampUint(KeyFilterThreshold, parseUint(KeyFilterThreshold, v, p), 1, 100, p) },
		Validate: func(p *Parameters) {
			p.FilterThreshold = clampUint(KeyFilterThreshold, p.FilterThreshold, 1, 100, p)
		},
	},
	{
		Name:   KeyFilterDelay,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.FilterDelay = clampUint(KeyFilterDelay, parseUint(KeyFilterDelay, v, p), 0, 1000, p) },
		Validate: func(p *Parameters) {
			p.FilterDelay = clampUint(KeyFilterDelay, p.FilterDelay, 0, 1000, p)
		},
	},
	{
		Name:   KeyOutputRate,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.OutputRate = clampUint(KeyOutputRate, parseUint(KeyOutputRate, v, p), 10, 500, p) },
		Validate: func(p *Parameters) {
			p.OutputRate = clampUint(KeyOutputRate, p.OutputRate, 10, 500, p)
		},
	},
	{
		Name:   KeyStartDelay,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.StartDelay = clampUint(KeyStartDelay, parseUint(KeyStartDelay, v, p), 0, 5000, p) },
		Validate: func(p *Parameters) {
			p.StartDelay = clampUint(KeyStartDelay, p.StartDelay, 0, 5000, p)
		},
	},
	{
		Name:   KeyWCRed,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.WCRed = uint8(clampUint(KeyWCRed, parseUint(KeyWCRed, v, p), 0, 255, p)) },
	},
	{
		Name:   KeyWCGreen,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.WCGreen = uint8(clampUint(KeyWCGreen, parseUint(KeyWCGreen, v, p), 0, 255, p)) },
	},
	{
		Name:   KeyWCBlue,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.WCBlue = uint8(clampUint(KeyWCBlue, parseUint(KeyWCBlue, v, p), 0, 255, p)) },
	},
	{
		Name:   KeyGamma,
		Type:   typeUint,
		Update: func(p *Parameters, v string) { p.Gamma = clampUint(KeyGamma, parseUint(KeyGamma, v, p), 0, 30, p) },
		Validate: func(p *Parameters) {
			p.Gamma = clampUint(KeyGamma, p.Gamma, 0, 30, p)
		},
	},
}

func parseUint(n, v string, p *Parameters) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, p *Parameters) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		p.Logger.Warning(fmt.Sprintf("expected bool for param %s", n), "value", v)
	}
	return
}

func clampUint(n string, v, min, max uint, p *Parameters) uint {
	switch {
	case v < min:
		p.LogInvalidField(n, min)
		return min
	case v > max:
		p.LogInvalidField(n, max)
		return max
	default:
		return v
	}
}
