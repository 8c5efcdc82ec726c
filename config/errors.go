package config

import "github.com/pkg/errors"

// Configuration errors, per the "configuration error" kind: out-of-range,
// unknown parameter, illegal analyze window, no channels configured.
// These are surfaced synchronously to the reconfigure caller; the pipeline
// is left in its previous state.
var (
	errNoChannels        = errors.New("config: no channels configured while enabled")
	ErrIllegalAnalyzeWin = errors.New("config: analyze window must be at least 8x8 and no larger than the source frame")
)
