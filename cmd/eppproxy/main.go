// Command eppproxy runs the EPP proxy server: one session manager per
// configured registry, fronted by the router/facade and exposed over
// gRPC and an admin/health HTTP surface.
package main

import (
	"fmt"
	"os"

	"github.com/eppproxy/eppproxy/cmd/eppproxy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
