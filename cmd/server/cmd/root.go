package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csquare-club/server/internal/config"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "C-Square Club website backend",
		Long: `Backend API for the C-Square Club website.

The server provides:
- Admin authentication with JWT bearer tokens
- Public and admin endpoints for events, team, contact, and gallery
- Contact notification emails with background delivery
- An image proxy for hotlink-protected hosts`,
		// Running without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (optional, uses env vars by default)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthcheckCmd)
}

func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.Load()
	if err != nil {
		return cfg, err
	}

	if configPath != "" {
		cfg, err = config.ApplyFile(cfg, configPath)
		if err != nil {
			return cfg, err
		}
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	return cfg, nil
}
