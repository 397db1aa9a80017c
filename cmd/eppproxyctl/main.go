// Command eppproxyctl is the gRPC client for eppproxy: ad-hoc domain
// checks/info and poll-queue inspection against a running proxy.
package main

import (
	"fmt"
	"os"

	"github.com/eppproxy/eppproxy/cmd/eppproxyctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
