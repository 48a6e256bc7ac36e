package commands

import (
	"github.com/spf13/cobra"
)

// Version, Commit, and Date are set by main from ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "idmbrokerd",
	Short: "IDM broker daemon",
	Long: `idmbrokerd hosts the handle table and device driver for one or more
GPU zones and serves IDM requests over shared-memory rings.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default: $XDG_CONFIG_HOME/idmbroker/config.yaml)")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
}

// GetConfigFile returns the --config flag value, or "" to use the default
// search path.
func GetConfigFile() string {
	return configFile
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("idmbrokerd %s (commit %s, built %s)\n", Version, Commit, Date)
		return nil
	},
}
