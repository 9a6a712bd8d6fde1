package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shift-report/config"
	applogger "shift-report/pkg/logger"
)

var configPath string

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "shift-report",
	Short: "Shift entry/exit reporting and weekly work hours",
	Long: `shift-report collects shift entry and exit reports and location pings,
and serves the admin pages: weekly work hours, report log, tracking board and exports.

Configuration is read from config.yaml, .env and SHIFT_* environment variables.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml or ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(hashPhraseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
