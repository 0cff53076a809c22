// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"salonsite/internal/profile"
)

func newSuggestCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <maps-url>",
		Short: "Look up salon details from a Maps listing link",
		Long: `Extracts what a Google Maps place link reveals about a salon, enriches it
from OpenStreetMap and prints the result as a profile file usable with
"salonsite generate --profile".`,
		Example: `  salonsite suggest "https://www.google.com/maps/place/Salon+Belle/@48.85,2.35,17z" > salon.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			found, err := newSuggester(cfg.Suggest).Suggest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(profile.Raw{}.Merge(found))
			if err != nil {
				return fmt.Errorf("suggest: encode profile: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	return cmd
}
