package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector is consumed by the session manager and facade. It is optional:
// pass Noop{} (or a nil Collector, via New) to disable metrics with zero
// per-call overhead beyond the interface dispatch, per SPEC_FULL.md §5.
type Collector interface {
	// SetSessionUp reflects a session's Ready/not-Ready state.
	SetSessionUp(registry string, up bool)
	// RecordRequest counts one dispatched command.
	RecordRequest(registry, command string)
	// RecordResponse counts one completed command and its latency.
	// resultClass is one of success/client_error/server_error/timeout.
	RecordResponse(registry, command, resultClass string, duration time.Duration)
	// RecordPollMessage counts one poll-queue message observed.
	RecordPollMessage(registry, queueType string)
	// RecordReconnect counts one reconnection attempt.
	RecordReconnect(registry string)
}

// Noop implements Collector with no-ops, for metrics-disabled deployments.
type Noop struct{}

func (Noop) SetSessionUp(string, bool)                            {}
func (Noop) RecordRequest(string, string)                         {}
func (Noop) RecordResponse(string, string, string, time.Duration) {}
func (Noop) RecordPollMessage(string, string)                     {}
func (Noop) RecordReconnect(string)                               {}

type prometheusCollector struct {
	sessionUp       *prometheus.GaugeVec
	requestsTotal   *prometheus.CounterVec
	responsesTotal  *prometheus.CounterVec
	pollMessages    *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	reconnectsTotal *prometheus.CounterVec
}

// New returns a Prometheus-backed Collector, or Noop{} if metrics are
// disabled (Init(false) or never called), following the teacher's
// NewCacheMetrics nil-guard pattern.
func New() Collector {
	if !IsEnabled() {
		return Noop{}
	}
	reg := GetRegistry()
	return &prometheusCollector{
		sessionUp: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "eppproxy_session_up",
				Help: "1 if the session to this registry is Ready, 0 otherwise.",
			},
			[]string{"registry"},
		),
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "eppproxy_requests_total",
				Help: "Total commands dispatched, by registry and command name.",
			},
			[]string{"registry", "command"},
		),
		responsesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "eppproxy_responses_total",
				Help: "Total command responses, by registry, command name, and result class.",
			},
			[]string{"registry", "command", "result_class"},
		),
		pollMessages: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "eppproxy_poll_messages_total",
				Help: "Total poll queue messages observed, by registry and queue type.",
			},
			[]string{"registry", "queue_type"},
		),
		commandDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eppproxy_command_duration_seconds",
				Help:    "Command round-trip latency, by registry and command name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"registry", "command"},
		),
		reconnectsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "eppproxy_reconnects_total",
				Help: "Total reconnection attempts, by registry.",
			},
			[]string{"registry"},
		),
	}
}

func (c *prometheusCollector) SetSessionUp(registry string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	c.sessionUp.WithLabelValues(registry).Set(v)
}

func (c *prometheusCollector) RecordRequest(registry, command string) {
	c.requestsTotal.WithLabelValues(registry, command).Inc()
}

func (c *prometheusCollector) RecordResponse(registry, command, resultClass string, duration time.Duration) {
	c.responsesTotal.WithLabelValues(registry, command, resultClass).Inc()
	c.commandDuration.WithLabelValues(registry, command).Observe(duration.Seconds())
}

func (c *prometheusCollector) RecordPollMessage(registry, queueType string) {
	c.pollMessages.WithLabelValues(registry, queueType).Inc()
}

func (c *prometheusCollector) RecordReconnect(registry string) {
	c.reconnectsTotal.WithLabelValues(registry).Inc()
}
