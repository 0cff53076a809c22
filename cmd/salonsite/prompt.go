// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"salonsite/internal/models"
	"salonsite/internal/profile"
	"salonsite/internal/theme"
)

// selectVariant asks for the template variant.
func selectVariant(registry *theme.Registry) (models.VariantID, error) {
	variants := registry.Variants()
	items := make([]string, len(variants))
	cursor := 0
	for i, v := range variants {
		items[i] = fmt.Sprintf("%-8s %s", v.ID, v.Description)
		if v.ID == models.DefaultVariant {
			cursor = i
		}
	}

	sel := promptui.Select{
		Label:     "Template",
		Items:     items,
		CursorPos: cursor,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("template selection: %w", err)
	}
	return variants[idx].ID, nil
}

// promptMissing asks for the required fields left empty by the profile
// file, then offers the optional contact fields.
func promptMissing(raw profile.Raw) (profile.Raw, error) {
	required := []struct {
		label string
		dst   *string
	}{
		{"Nom du salon", &raw.Name},
		{"Téléphone", &raw.Phone},
		{"Adresse", &raw.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(*f.dst) != "" {
			continue
		}
		p := promptui.Prompt{
			Label:    f.label,
			Validate: notBlank,
		}
		val, err := p.Run()
		if err != nil {
			return raw, fmt.Errorf("%s: %w", f.label, err)
		}
		*f.dst = val
	}

	optional := []struct {
		label string
		dst   *string
	}{
		{"Email", &raw.Email},
		{"Site web", &raw.Website},
		{"Description", &raw.Description},
	}
	for _, f := range optional {
		if strings.TrimSpace(*f.dst) != "" {
			continue
		}
		p := promptui.Prompt{Label: f.label + " (facultatif)"}
		val, err := p.Run()
		if err != nil {
			return raw, fmt.Errorf("%s: %w", f.label, err)
		}
		*f.dst = val
	}
	return raw, nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("ce champ est obligatoire")
	}
	return nil
}
