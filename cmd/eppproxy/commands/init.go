package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eppproxy/eppproxy/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample eppproxy configuration file with one
placeholder registry entry, ready to edit.

By default the file is created at $XDG_CONFIG_HOME/eppproxy/config.yaml.
Use --config to specify a custom path.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error
	if configFile != "" {
		configPath, err = config.InitConfigToPath(configFile, initForce)
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file with real registry credentials")
	fmt.Println("  2. Validate it: eppproxy validate-config --config", configPath)
	fmt.Printf("  3. Start the proxy: eppproxy start --config %s\n", configPath)
	return nil
}
