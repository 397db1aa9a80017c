// Package config loads eppproxy's configuration, modelled directly on the
// teacher's pkg/config: YAML decoded through spf13/viper with environment
// overrides, struct population via mitchellh/mapstructure decode hooks, and
// validation via go-playground/validator struct tags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level eppproxy configuration.
//
// Precedence (highest to lowest): CLI flag > environment variable
// (EPPPROXY_*) > configuration file > built-in default, per SPEC_FULL.md
// §2.2.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Admin     AdminConfig     `mapstructure:"admin" yaml:"admin"`
	GRPC      GRPCConfig      `mapstructure:"grpc" yaml:"grpc"`
	HSM       HSMConfig       `mapstructure:"hsm" yaml:"hsm"`
	AuditLog  AuditLogConfig  `mapstructure:"audit_log" yaml:"audit_log"`

	// Registries is one record per registry connection, per spec.md §6.
	Registries []RegistryConfig `mapstructure:"registries" validate:"dive" yaml:"registries"`
}

// LoggingConfig controls logging behavior (internal/logger).
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry tracing (internal/telemetry).
type TelemetryConfig struct {
	Enabled        bool               `mapstructure:"enabled" yaml:"enabled"`
	ServiceName    string             `mapstructure:"service_name" yaml:"service_name"`
	ServiceVersion string             `mapstructure:"service_version" yaml:"service_version"`
	Endpoint       string             `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure       bool               `mapstructure:"insecure" yaml:"insecure"`
	SampleRate     float64            `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
	Profiling      ProfilingConfig    `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures the Prometheus registry and its exposure via the
// admin HTTP surface's /metrics route.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// AdminConfig configures the chi admin/health HTTP surface (SPEC_FULL.md §6).
type AdminConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Port         int           `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// AuthEnabled requires a Bearer JWT on every admin route except /healthz.
	AuthEnabled bool   `mapstructure:"auth_enabled" yaml:"auth_enabled"`
	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret,omitempty"`
}

// GRPCConfig configures the gRPC front door (pkg/eppgrpc).
type GRPCConfig struct {
	Port           int           `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// HSMConfig carries the PKCS#11 PIN used when a registry's client cert
// material is HSM-backed (spec.md §6's "global file carrying a PKCS#11 PIN").
type HSMConfig struct {
	PIN string `mapstructure:"pin" yaml:"pin,omitempty"`
}

// AuditLogConfig selects and configures the Log Sink backend (C3).
type AuditLogConfig struct {
	// Backend is one of "memory", "badger", "s3".
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=memory badger s3" yaml:"backend"`

	BadgerPath string `mapstructure:"badger_path" yaml:"badger_path,omitempty"`

	S3Bucket   string `mapstructure:"s3_bucket" yaml:"s3_bucket,omitempty"`
	S3Region   string `mapstructure:"s3_region" yaml:"s3_region,omitempty"`
	S3Endpoint string `mapstructure:"s3_endpoint" yaml:"s3_endpoint,omitempty"` // override for localstack
}

// RegistryConfig is one registry connection record, per spec.md §6.
type RegistryConfig struct {
	ID         string `mapstructure:"id" validate:"required" yaml:"id"`
	ServerType string `mapstructure:"server_type" validate:"required,oneof=epp tmch" yaml:"server_type"`
	Host       string `mapstructure:"host" validate:"required" yaml:"host"`
	SourceAddr string `mapstructure:"source_addr" yaml:"source_addr,omitempty"`

	LoginID     string `mapstructure:"login_id" validate:"required" yaml:"login_id"`
	Password    string `mapstructure:"password" validate:"required" yaml:"password"`
	NewPassword string `mapstructure:"new_password" yaml:"new_password,omitempty"`

	Zones []string `mapstructure:"zones" yaml:"zones,omitempty"`

	ClientCertPath     string   `mapstructure:"client_cert_path" yaml:"client_cert_path,omitempty"`
	ClientCertPassword string   `mapstructure:"client_cert_password" yaml:"client_cert_password,omitempty"`
	RootCAPaths        []string `mapstructure:"root_ca_paths" yaml:"root_ca_paths,omitempty"`
	ServerNameOverride string   `mapstructure:"server_name_override" yaml:"server_name_override,omitempty"`

	// InsecureSkipVerify is the "danger flag" spec.md §6 allows for dev/test.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`

	Pipelining bool   `mapstructure:"pipelining" yaml:"pipelining"`
	Errata     string `mapstructure:"errata" yaml:"errata,omitempty"`

	AncillaryEndpoints map[string]string `mapstructure:"ancillary_endpoints" yaml:"ancillary_endpoints,omitempty"`

	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout,omitempty"`
}

// Load loads configuration from the file, lets EPPPROXY_* environment
// variables override it, and fills any remaining zero values with defaults.
// When no file is found it returns DefaultConfig().
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := DefaultConfig()
		return cfg, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration, producing an operator-actionable error when
// no config file is found at configPath (or the default location).
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Initialize one first:\n  eppproxy init\n\n"+
				"Or point at an existing file:\n  eppproxy <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Create it with:\n  eppproxy init --config %s", configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: load failed: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories as
// needed. Config files can carry registry passwords, so the file is written
// owner-only.
func SaveConfig(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("EPPPROXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: read file: %w", err)
	}
	return true, nil
}

// configDecodeHooks composes the mapstructure decode hooks Load needs: the
// built-in string-to-duration hook handles every time.Duration field above.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		durationFromNumberHook(),
	)
}

// durationFromNumberHook accepts a bare number of nanoseconds for a
// time.Duration field, for YAML values that decode as int/float rather than
// a duration string.
func durationFromNumberHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "eppproxy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "eppproxy")
}

// GetConfigDir returns the configuration directory path, exposed for the
// init command.
func GetConfigDir() string { return getConfigDir() }

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
