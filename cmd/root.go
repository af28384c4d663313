package cmd

import (
	"os"

	"gig-profile/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gig-profile",
	Short: "Gig marketplace profile tool",
	Long: `gig-profile keeps a locally cached marketplace profile in step with the
users API, and can serve that API itself.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding, the CLI audience reads this.
		l := logger.Console()
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}
