package config

// Effects summarizes which reconfigure actions the orchestrator must take
// to move from one Parameters snapshot to another, per the reconfigure
// policy table in the pipeline orchestrator's design.
type Effects struct {
	// DriverChanged is set when driver, driver_path or driver_param
	// differ: the orchestrator must stop the loops, close and unload the
	// current driver, and reopen the new one.
	DriverChanged bool

	// LayoutChanged is set when any of the nine layout counts differ: the
	// orchestrator must stop the loops and free/rebuild channel buffers.
	LayoutChanged bool

	// EnabledRisingEdge is set when Enabled went false->true: start the
	// loops and send an initial all-zero packet.
	EnabledRisingEdge bool

	// EnabledFallingEdge is set when Enabled went true->false: stop the
	// loops and close the driver.
	EnabledFallingEdge bool

	// Instant is set when any field outside the above changed (rates,
	// thresholds, weights, gamma, white balance, brightness, overscan,
	// analyze_size, edge_weighting, windows, smoothness, lengths, filter
	// mode, start_delay): the loops pick the new values up on their next
	// iteration without stopping.
	Instant bool
}

// Diff compares old and next and classifies the differences per the
// reconfigure policy table. old and next are otherwise ordinary
// Parameters values; Diff does not mutate either.
func Diff(old, next Parameters) Effects {
	var e Effects

	e.DriverChanged = old.Driver != next.Driver ||
		old.DriverPath != next.DriverPath ||
		old.DriverParam != next.DriverParam

	e.LayoutChanged = old.Layout != next.Layout

	if !old.Enabled && next.Enabled {
		e.EnabledRisingEdge = true
	}
	if old.Enabled && !next.Enabled {
		e.EnabledFallingEdge = true
	}

	e.Instant = old.AnalyzeRate != next.AnalyzeRate ||
		old.AnalyzeSize != next.AnalyzeSize ||
		old.Overscan != next.Overscan ||
		old.DarknessLimit != next.DarknessLimit ||
		old.EdgeWeighting != next.EdgeWeighting ||
		old.HueWinSize != next.HueWinSize ||
		old.SatWinSize != next.SatWinSize ||
		old.HueThreshold != next.HueThreshold ||
		old.Brightness != next.Brightness ||
		old.UniformBrightness != next.UniformBrightness ||
		old.Filter != next.Filter ||
		old.FilterSmoothness != next.FilterSmoothness ||
		old.FilterLength != next.FilterLength ||
		old.FilterThreshold != next.FilterThreshold ||
		old.FilterDelay != next.FilterDelay ||
		old.OutputRate != next.OutputRate ||
		old.StartDelay != next.StartDelay ||
		old.WCRed != next.WCRed ||
		old.WCGreen != next.WCGreen ||
		old.WCBlue != next.WCBlue ||
		old.Gamma != next.Gamma

	return e
}
