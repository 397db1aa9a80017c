// Package metrics is the process-wide Prometheus registry bootstrap, mirroring
// the teacher's pkg/metrics: a package-level Init/IsEnabled/GetRegistry trio
// that downstream collectors (here, one Collector for the whole proxy rather
// than one per subsystem) consult before registering anything.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registry *prometheus.Registry
	enabled  bool
)

// Init sets up the process-wide registry. Pass enabled=false to make
// IsEnabled/GetRegistry report metrics are off; New then returns Noop{}.
func Init(en bool) *prometheus.Registry {
	enabled = en
	if !en {
		registry = nil
		return nil
	}
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// IsEnabled reports whether metrics collection is active.
func IsEnabled() bool { return enabled }

// GetRegistry returns the process-wide registry, or nil if metrics are
// disabled or Init has not run.
func GetRegistry() *prometheus.Registry { return registry }
