// Package metrics holds the Prometheus collectors the pipeline updates as it
// runs. No HTTP handler is registered here; exposing /metrics to a scraper
// is host integration and stays out of scope for this module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors a Pipeline updates during grab/analyze and
// filter/output iterations.
type Metrics struct {
	FramesAnalyzed   prometheus.Counter
	FramesDropped    prometheus.Counter
	DriverSendErrors prometheus.Counter
	LightsOffEvents  prometheus.Counter
	OutputsSent      prometheus.Counter
}

// New constructs and registers a fresh set of collectors against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// global registry across test runs.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FramesAnalyzed: f.NewCounter(prometheus.CounterOpts{
			Name: "atmopipe_frames_analyzed_total",
			Help: "Frames successfully run through the analyzer.",
		}),
		FramesDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "atmopipe_frames_dropped_total",
			Help: "Grab/analyze iterations skipped due to a frame-source transient.",
		}),
		DriverSendErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "atmopipe_driver_send_errors_total",
			Help: "Output driver send failures returned by the driver host.",
		}),
		LightsOffEvents: f.NewCounter(prometheus.CounterOpts{
			Name: "atmopipe_lights_off_total",
			Help: "Lights-off commands issued on suspend, stop or shutdown.",
		}),
		OutputsSent: f.NewCounter(prometheus.CounterOpts{
			Name: "atmopipe_outputs_sent_total",
			Help: "Output iterations whose send through the driver host succeeded; sends the host suppressed as unchanged are counted too.",
		}),
	}
}
