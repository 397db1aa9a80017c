package config

import (
	"fmt"
	"os"
)

// InitConfig writes a sample configuration file at the default location,
// returning the path written. It fails if the file already exists unless
// force is set. Mirrors the teacher's config.InitConfig.
func InitConfig(force bool) (string, error) {
	return InitConfigToPath(GetDefaultConfigPath(), force)
}

// InitConfigToPath writes a sample configuration file at path.
func InitConfigToPath(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config: file already exists at %s (use --force to overwrite)", path)
		}
	}
	cfg := sampleConfig()
	if err := SaveConfig(cfg, path); err != nil {
		return "", err
	}
	return path, nil
}

// sampleConfig returns a fully-defaulted Config with one placeholder
// registry entry, for operators to edit after `eppproxy init`.
func sampleConfig() *Config {
	cfg := DefaultConfig()
	cfg.Registries = []RegistryConfig{
		{
			ID:         "example-registry",
			ServerType: "epp",
			Host:       "epp.example-registry.test:700",
			LoginID:    "gurulink",
			Password:   "REPLACE_ME",
			Zones:      []string{"example"},
			Pipelining: true,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
