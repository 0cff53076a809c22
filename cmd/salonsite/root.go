// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"salonsite/internal/config"
)

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "salonsite",
		Short: "Static website generator for hair and beauty salons",
		Long: `SalonSite turns a short salon profile and a few pictures into a
ready-to-host static website, packaged as a ZIP archive.

Run "salonsite serve" for the web form or "salonsite generate" to build an
archive from a profile file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "salonsite.yaml", "Path to the YAML configuration file")

	cmd.AddCommand(
		newServeCmd(flags),
		newGenerateCmd(flags),
		newSuggestCmd(flags),
		newVariantsCmd(),
		newConfigCmd(flags),
		newCacheCmd(flags),
	)

	return cmd
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(cfg.Log))
	return cfg, nil
}

// newLogger builds the structured logger: JSON for log shippers, text for
// terminals.
func newLogger(lc config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(lc.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
