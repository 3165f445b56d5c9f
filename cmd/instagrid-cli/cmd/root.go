package cmd

import (
	"os"

	"github.com/nfrund/instagrid/internal/logging"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "instagrid-cli",
	Short: "InstaGrid command-line tool",
	Long: `instagrid-cli renders profile mockups from YAML plan files, without
starting the web planner.

Use "instagrid-cli [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.NewWithWriter(cmd.ErrOrStderr(), "text", logLevel)
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}
