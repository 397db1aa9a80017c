package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eppproxy/eppproxy/internal/cliout"
	"github.com/eppproxy/eppproxy/internal/config"
)

var registryConfigFile string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the eppproxy configuration's registries",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registries defined in a config file",
	RunE:  runRegistryList,
}

func init() {
	registryListCmd.Flags().StringVar(&registryConfigFile, "config", "", "config file (default: $XDG_CONFIG_HOME/eppproxy/config.yaml)")
	registryCmd.AddCommand(registryListCmd)
}

func runRegistryList(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(registryConfigFile)
	if err != nil {
		return err
	}

	table := cliout.NewTableData("ID", "Host", "Zones", "Pipelining")
	for _, r := range cfg.Registries {
		table.AddRow(r.ID, r.Host, strings.Join(r.Zones, ","), boolStr(r.Pipelining))
	}
	cliout.PrintTable(os.Stdout, table)
	return nil
}

func boolStr(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
