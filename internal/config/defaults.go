package config

import "time"

// DefaultConfig returns a Config with every section defaulted and zero
// registries, mirroring the teacher's pattern of a usable zero-registry
// config when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields of cfg with their defaults, the
// same per-section dispatch the teacher's pkg/config/defaults.go uses.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyAdminDefaults(&cfg.Admin)
	applyGRPCDefaults(&cfg.GRPC)
	applyAuditLogDefaults(&cfg.AuditLog)
	for i := range cfg.Registries {
		applyRegistryDefaults(&cfg.Registries[i])
	}
}

func applyLoggingDefaults(c *LoggingConfig) {
	if c.Level == "" {
		c.Level = "INFO"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

func applyTelemetryDefaults(c *TelemetryConfig) {
	if c.ServiceName == "" {
		c.ServiceName = "eppproxy"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	applyProfilingDefaults(&c.Profiling)
}

func applyProfilingDefaults(c *ProfilingConfig) {
	if len(c.ProfileTypes) == 0 {
		c.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space"}
	}
}

func applyMetricsDefaults(c *MetricsConfig) {
	// Enabled defaults to false; metrics are opt-in.
}

func applyAdminDefaults(c *AdminConfig) {
	if c.Port == 0 {
		c.Port = 8081
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 5 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
}

func applyGRPCDefaults(c *GRPCConfig) {
	if c.Port == 0 {
		c.Port = 9091
	}
	if c.PollInterval == 0 {
		c.PollInterval = 30 * time.Second
	}
}

func applyAuditLogDefaults(c *AuditLogConfig) {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "badger" && c.BadgerPath == "" {
		c.BadgerPath = "./data/auditlog"
	}
}

func applyRegistryDefaults(c *RegistryConfig) {
	if c.DialTimeout == 0 {
		c.DialTimeout = 30 * time.Second
	}
}
