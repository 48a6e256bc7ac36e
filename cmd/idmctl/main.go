// Command idmctl is a debug client for an idmbrokerd daemon: it attaches
// to a zone's rings as a synthetic core and issues one IDM request per
// invocation, for operators probing or exercising a running broker by hand.
package main

import (
	"fmt"
	"os"

	"github.com/nyxgate/idmbroker/cmd/idmctl/commands"
)

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
