package cmd

import (
	"fmt"
	"os"

	"georecon/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "georecon",
	Short: "Gazetteer place-name reconciliation service",
	Long: `GeoRecon resolves free-text place names to canonical gazetteer places.
It builds a name index from a gazetteer feed, persists it as snapshots in S3 storage
and serves lookups and reconciliation over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config gives ISO8601 timestamps on the CLI
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
