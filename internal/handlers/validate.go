// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"unicode/utf8"

	"salonsite/internal/profile"
)

// Validation limits for the salon form fields.
const (
	maxNameLen        = 200
	maxPhoneLen       = 40
	maxAddressLen     = 500
	maxEmailLen       = 254
	maxURLLen         = 2_000
	maxDescriptionLen = 5_000
	maxHoursLen       = 1_000
)

// validateLengths checks the submitted form against the field limits and
// returns the first error found. Required fields are checked later by the
// pipeline so that every missing field is reported at once.
func validateLengths(r profile.Raw) string {
	checks := []struct {
		label string
		value string
		max   int
	}{
		{"Le nom du salon", r.Name, maxNameLen},
		{"Le téléphone", r.Phone, maxPhoneLen},
		{"L'adresse", r.Address, maxAddressLen},
		{"L'email", r.Email, maxEmailLen},
		{"Le site web", r.Website, maxURLLen},
		{"La description", r.Description, maxDescriptionLen},
		{"Les horaires", r.Hours, maxHoursLen},
		{"Le lien Facebook", r.Facebook, maxURLLen},
		{"Le lien Instagram", r.Instagram, maxURLLen},
		{"Le numéro WhatsApp", r.WhatsApp, maxPhoneLen},
	}
	for _, c := range checks {
		if utf8.RuneCountInString(c.value) > c.max {
			return fmt.Sprintf("%s est trop long (max %d caractères).", c.label, c.max)
		}
	}
	return ""
}

// validColor reports whether s survives sanitizing. Invalid colors are not
// rejected; the form shows them as replaced by their default.
func validColor(s string) bool {
	return s == "" || profile.NormalizeColor(s, "") != ""
}
