package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eppproxy/eppproxy/internal/cliout"
	"github.com/eppproxy/eppproxy/internal/registry"
)

var checkCmd = &cobra.Command{
	Use:   "check <domain> [domain...]",
	Short: "Check domain availability",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cc, err := dialServer()
	if err != nil {
		return err
	}
	defer cc.Close()

	env, err := invokeWithTimeout(cc, "DomainCheck", registry.DomainCheckRequest{Names: args})
	if err != nil {
		return err
	}

	var resp registry.DomainCheckResponse
	if err := json.Unmarshal(env.Value, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	table := cliout.NewTableData("Domain", "Available", "Reason")
	for _, r := range resp.Results {
		table.AddRow(r.Name, fmt.Sprintf("%v", r.Available), r.Reason)
	}
	cliout.PrintTable(os.Stdout, table)
	return nil
}
