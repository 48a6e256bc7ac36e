// Package commands implements idmctl's subcommands.
package commands

import (
	"time"

	"github.com/nyxgate/idmbroker/cmd/idmctl/cmdutil"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and Date are set by main from ldflags.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "idmctl",
	Short: "Debug client for an idmbrokerd daemon",
	Long: `idmctl attaches to a zone's shared-memory rings as a synthetic core and
issues a single IDM request per invocation. Useful for probing a running
broker by hand during development.

Use "idmctl [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cmdutil.Flags.RingDir, "ring-dir", "/var/lib/idmbroker/rings", "directory holding the broker's ring files")
	rootCmd.PersistentFlags().Uint32Var(&cmdutil.Flags.Zone, "zone", 1, "zone id to act as")
	rootCmd.PersistentFlags().Uint32Var(&cmdutil.Flags.SlotSize, "slot-size", 64*1024, "ring slot size in bytes, must match the broker's")
	rootCmd.PersistentFlags().Uint32Var(&cmdutil.Flags.SlotCount, "slot-count", 256, "ring slot count, must match the broker's")
	rootCmd.PersistentFlags().DurationVar(&cmdutil.Flags.Timeout, "timeout", 5*time.Second, "how long to wait for a response")

	rootCmd.AddCommand(allocCmd)
	rootCmd.AddCommand(freeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("idmctl %s (commit %s, built %s)\n", Version, Commit, Date)
		return nil
	},
}
