// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"salonsite/internal/cache"
	"salonsite/internal/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(flags.configPath); err == nil && !force {
				return fmt.Errorf("config: %s already exists, use --force to overwrite", flags.configPath)
			}
			if err := config.DefaultConfig().Save(flags.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", flags.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func newCacheCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the remote asset cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop every cached theme asset, e.g. after redeploying a remote theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			client, err := cache.ConnectValkey(cmd.Context(), cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.DB)
			if err != nil {
				return err
			}
			defer client.Close()

			n, err := cache.NewAssetCache(client, cfg.Assets.CacheTTL).InvalidateAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("cache purge: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached assets\n", n)
			return nil
		},
	})
	return cmd
}
