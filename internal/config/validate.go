package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct-tag validation over cfg and additional cross-field
// checks the tags alone can't express (registry id uniqueness, TLS material
// consistency), mirroring the teacher's Validate(&cfg) call in Load.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Registries))
	for _, r := range cfg.Registries {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("config: duplicate registry id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		if r.ClientCertPassword != "" && r.ClientCertPath == "" {
			return fmt.Errorf("config: registry %q: client_cert_password set without client_cert_path", r.ID)
		}
	}

	if cfg.Admin.AuthEnabled && cfg.Admin.JWTSecret == "" {
		return fmt.Errorf("config: admin.auth_enabled requires admin.jwt_secret")
	}

	return nil
}
