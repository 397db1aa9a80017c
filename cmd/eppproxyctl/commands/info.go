package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eppproxy/eppproxy/internal/cliout"
	"github.com/eppproxy/eppproxy/internal/registry"
)

var infoAuthInfo string

var infoCmd = &cobra.Command{
	Use:   "info <domain>",
	Short: "Fetch domain details",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoAuthInfo, "auth-info", "", "authInfo password, if required by the registry")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cc, err := dialServer()
	if err != nil {
		return err
	}
	defer cc.Close()

	env, err := invokeWithTimeout(cc, "DomainInfo", registry.DomainInfoRequest{Name: args[0], AuthInfo: infoAuthInfo})
	if err != nil {
		return err
	}

	var resp registry.DomainInfoResponse
	if err := json.Unmarshal(env.Value, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	cliout.SimpleTable(os.Stdout, [][2]string{
		{"Name", resp.Name},
		{"ROID", resp.ROID},
		{"Status", strings.Join(resp.Status, ", ")},
		{"Registrant", resp.Registrant},
		{"Nameservers", strings.Join(resp.Nameservers, ", ")},
		{"Client ID", resp.ClID},
		{"Created by", resp.CrID},
		{"Expires", resp.ExDate},
		{"ClTRID", env.ClTRID},
		{"SvTRID", env.SvTRID},
	})
	return nil
}
