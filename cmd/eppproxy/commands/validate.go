package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eppproxy/eppproxy/internal/config"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate the configuration file",
	Long: `Load and validate the eppproxy configuration file: syntax, required
fields, and cross-field rules (duplicate registry ids, admin auth
requiring a JWT secret, and so on).`,
	RunE: runValidateConfig,
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	displayPath := GetConfigFile()
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if cfg.Admin.Enabled && !cfg.Admin.AuthEnabled {
		warnings = append(warnings, "admin.auth_enabled is false - /readyz and /metrics are unauthenticated")
	}
	if cfg.AuditLog.Backend == "" || cfg.AuditLog.Backend == "memory" {
		warnings = append(warnings, "audit_log.backend is \"memory\" - audit records do not survive a restart")
	}
	if len(cfg.Registries) == 0 {
		warnings = append(warnings, "no registries configured")
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Registries:      %d\n", len(cfg.Registries))
	for _, r := range cfg.Registries {
		fmt.Printf("    - %s (%s, zones: %v)\n", r.ID, r.Host, r.Zones)
	}
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)
	fmt.Printf("  gRPC port:       %d\n", cfg.GRPC.Port)
	fmt.Printf("  Admin enabled:   %v\n", cfg.Admin.Enabled)

	return nil
}
