// Package commands implements the eppproxyctl client CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"

	serverAddr string
	registryID string
)

var rootCmd = &cobra.Command{
	Use:   "eppproxyctl",
	Short: "Client for the eppproxy gRPC facade",
	Long: `eppproxyctl talks to a running eppproxy over gRPC: domain
check/info lookups and poll-queue peek/ack, without dealing with EPP
framing directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:9091", "eppproxy gRPC address")
	rootCmd.PersistentFlags().StringVar(&registryID, "registry", "", "target registry id (required)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(registryCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
