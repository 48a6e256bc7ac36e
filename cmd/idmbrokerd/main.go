// Command idmbrokerd is the broker daemon: it owns the handle table and the
// (mock, for now) device driver, and serves IDM requests from every zone
// named on the command line or in configuration.
package main

import (
	"fmt"
	"os"

	"github.com/nyxgate/idmbroker/cmd/idmbrokerd/commands"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
