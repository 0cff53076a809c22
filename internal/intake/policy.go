// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package intake

import (
	"maps"
	"slices"
	"strings"

	"salonsite/internal/models"
)

// MaxFilenameLen is the longest accepted upload filename, in characters.
const MaxFilenameLen = 100

const mb = 1 << 20

// Rule is the acceptance policy of one slot.
type Rule struct {
	Label    string
	Allowed  []string // MIME types
	MaxBytes int64
}

// Allows reports whether the MIME type is in the allow-list.
func (r Rule) Allows(contentType string) bool {
	return slices.Contains(r.Allowed, contentType)
}

// AllowedFormats returns the allow-list as short format names, e.g. "JPEG, PNG".
func (r Rule) AllowedFormats() []string {
	out := make([]string, 0, len(r.Allowed))
	for _, t := range r.Allowed {
		out = append(out, formatName(t))
	}
	return out
}

func formatName(contentType string) string {
	switch contentType {
	case "image/svg+xml":
		return "SVG"
	case "image/jpeg":
		return "JPEG"
	default:
		return strings.ToUpper(strings.TrimPrefix(contentType, "image/"))
	}
}

// Table maps each slot to its rule for one template variant.
type Table map[models.Slot]Rule

var (
	photoTypes = []string{"image/jpeg", "image/png", "image/webp"}
	logoTypes  = []string{"image/png", "image/jpeg", "image/svg+xml", "image/webp"}
)

// DefaultTable returns the rules shared by every variant.
func DefaultTable() Table {
	return Table{
		models.SlotHero:      {Label: "Image principale", Allowed: photoTypes, MaxBytes: 5 * mb},
		models.SlotAbout:     {Label: "Image « À propos »", Allowed: photoTypes, MaxBytes: 5 * mb},
		models.SlotLogo:      {Label: "Logo", Allowed: logoTypes, MaxBytes: 2 * mb},
		models.SlotFooter:    {Label: "Image de pied de page", Allowed: photoTypes, MaxBytes: 5 * mb},
		models.SlotTeam1:     {Label: "Équipe, membre 1", Allowed: photoTypes, MaxBytes: 3 * mb},
		models.SlotTeam2:     {Label: "Équipe, membre 2", Allowed: photoTypes, MaxBytes: 3 * mb},
		models.SlotTeam3:     {Label: "Équipe, membre 3", Allowed: photoTypes, MaxBytes: 3 * mb},
		models.SlotPortfolio: {Label: "Portfolio", Allowed: photoTypes, MaxBytes: 5 * mb},
	}
}

// With returns a copy of t where each overridden slot replaces the default
// rule. Zero fields of an override keep the default value.
func (t Table) With(overrides Table) Table {
	out := maps.Clone(t)
	for slot, o := range overrides {
		r := out[slot]
		if o.Label != "" {
			r.Label = o.Label
		}
		if len(o.Allowed) > 0 {
			r.Allowed = slices.Clone(o.Allowed)
		}
		if o.MaxBytes > 0 {
			r.MaxBytes = o.MaxBytes
		}
		out[slot] = r
	}
	return out
}
