package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
registries:
  - id: example-registry
    server_type: epp
    host: epp.example-registry.test:700
    login_id: gclient
    password: secret
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.Equal(t, "INFO", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
	require.Equal(t, 8081, cfg.Admin.Port)
	require.Equal(t, 9091, cfg.GRPC.Port)
	require.Equal(t, "memory", cfg.AuditLog.Backend)
	require.Len(t, cfg.Registries, 1)
	require.Equal(t, "example-registry", cfg.Registries[0].ID)
}

func TestLoadNoConfigFileReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "INFO", cfg.Logging.Level)
	require.Empty(t, cfg.Registries)
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Registries = []RegistryConfig{{ID: "r1"}}
	err := Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsDuplicateRegistryIDs(t *testing.T) {
	cfg := DefaultConfig()
	reg := RegistryConfig{
		ID: "dup", ServerType: "epp", Host: "epp.test:700",
		LoginID: "gclient", Password: "secret",
	}
	cfg.Registries = []RegistryConfig{reg, reg}
	err := Validate(cfg)
	require.ErrorContains(t, err, "duplicate registry id")
}

func TestValidateRejectsAdminAuthWithoutSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Admin.AuthEnabled = true
	err := Validate(cfg)
	require.ErrorContains(t, err, "jwt_secret")
}

func TestValidateRejectsCertPasswordWithoutPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Registries = []RegistryConfig{{
		ID: "r1", ServerType: "epp", Host: "epp.test:700",
		LoginID: "gclient", Password: "secret",
		ClientCertPassword: "p12pass",
	}}
	err := Validate(cfg)
	require.ErrorContains(t, err, "client_cert_password")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Registries = []RegistryConfig{{
		ID: "example-registry", ServerType: "epp", Host: "epp.example-registry.test:700",
		LoginID: "gclient", Password: "secret",
	}}

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Registries[0].ID, loaded.Registries[0].ID)
}
