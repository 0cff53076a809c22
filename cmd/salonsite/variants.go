// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"salonsite/internal/assets"
	"salonsite/internal/models"
	"salonsite/internal/theme"
	"salonsite/web"
)

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the template variants and their upload rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := theme.NewRegistry(assets.NewFS(web.Site()))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tPORTFOLIO\tFORMATS\tDESCRIPTION")
			for _, v := range registry.Variants() {
				id := string(v.ID)
				if v.ID == models.DefaultVariant {
					id += " *"
				}
				rule, _ := v.Rules()[models.SlotHero]
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					id, v.Label, v.MaxPortfolio, strings.Join(rule.AllowedFormats(), ","), v.Description)
			}
			return tw.Flush()
		},
	}
}
