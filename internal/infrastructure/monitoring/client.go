package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClientMetrics tracks one or more connection managers. All methods are safe
// on a nil receiver so the manager can run without metrics.
type ClientMetrics struct {
	Lifecycle       *prometheus.GaugeVec
	ConnectAttempts prometheus.Counter
	ConnectFailures prometheus.Counter
	Reconnects      prometheus.Counter
	Frames          *prometheus.CounterVec
	ProtocolErrors  prometheus.Counter
	RoundTrip       prometheus.Histogram
}

// NewClientMetrics registers the client metrics on reg.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	factory := promauto.With(reg)

	return &ClientMetrics{
		Lifecycle: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "canvas_client_lifecycle",
				Help: "1 for the lifecycle state each endpoint is currently in",
			},
			[]string{"endpoint", "state"},
		),
		ConnectAttempts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "canvas_client_connect_attempts_total",
				Help: "Total number of connection attempts",
			},
		),
		ConnectFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "canvas_client_connect_failures_total",
				Help: "Total number of failed connection attempts",
			},
		),
		Reconnects: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "canvas_client_reconnects_scheduled_total",
				Help: "Total number of scheduled reconnects",
			},
		),
		Frames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvas_client_frames_total",
				Help: "Total number of frames by direction and type",
			},
			[]string{"direction", "type"},
		),
		ProtocolErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "canvas_client_protocol_errors_total",
				Help: "Total number of inbound frames that failed to decode",
			},
		),
		RoundTrip: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "canvas_client_round_trip_seconds",
				Help:    "Time from sending a prompt to its response or error",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
	}
}

// SetLifecycle marks state as the current lifecycle state for endpoint.
func (c *ClientMetrics) SetLifecycle(endpoint, state string, all []string) {
	if c == nil {
		return
	}
	for _, s := range all {
		v := 0.0
		if s == state {
			v = 1
		}
		c.Lifecycle.WithLabelValues(endpoint, s).Set(v)
	}
}

// RecordConnectAttempt records the start of a dial.
func (c *ClientMetrics) RecordConnectAttempt() {
	if c == nil {
		return
	}
	c.ConnectAttempts.Inc()
}

// RecordConnectFailure records a failed dial.
func (c *ClientMetrics) RecordConnectFailure() {
	if c == nil {
		return
	}
	c.ConnectFailures.Inc()
}

// RecordReconnectScheduled records a pending reconnect.
func (c *ClientMetrics) RecordReconnectScheduled() {
	if c == nil {
		return
	}
	c.Reconnects.Inc()
}

// RecordFrame records a frame in direction "in" or "out".
func (c *ClientMetrics) RecordFrame(direction, frameType string) {
	if c == nil {
		return
	}
	c.Frames.WithLabelValues(direction, frameType).Inc()
}

// RecordProtocolError records an undecodable inbound frame.
func (c *ClientMetrics) RecordProtocolError() {
	if c == nil {
		return
	}
	c.ProtocolErrors.Inc()
}

// ObserveRoundTrip records the time since a prompt was sent.
func (c *ClientMetrics) ObserveRoundTrip(since time.Time) {
	if c == nil || since.IsZero() {
		return
	}
	c.RoundTrip.Observe(time.Since(since).Seconds())
}
