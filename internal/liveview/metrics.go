package liveview

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the live-view instrumentation
type Metrics struct {
	EventsTotal    *prometheus.CounterVec
	SessionsActive prometheus.Gauge
	RenderDuration prometheus.Histogram
}

// NewMetrics registers live-view metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liveview_events_total",
				Help: "Total number of live-view events dispatched",
			},
			[]string{"event", "result"},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "liveview_sessions_active",
				Help: "Number of currently connected live-view sessions",
			},
		),
		RenderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "liveview_render_duration_seconds",
				Help:    "Time spent rendering the application template",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.EventsTotal, m.SessionsActive, m.RenderDuration)
	}

	return m
}

// ObserveEvent records one dispatched event
func (m *Metrics) ObserveEvent(event string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsTotal.WithLabelValues(event, result).Inc()
}
