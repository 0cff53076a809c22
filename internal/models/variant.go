// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// VariantID identifies a visual theme from the closed set below.
type VariantID string

const (
	VariantClassic VariantID = "classic"
	VariantModern  VariantID = "modern"
	VariantLuxury  VariantID = "luxury"
	VariantBarber  VariantID = "barber"
	VariantBeauty  VariantID = "beauty"
)

// DefaultVariant is selected when the page URL carries no template parameter.
const DefaultVariant = VariantClassic

// AssetList enumerates the auxiliary files copied into the archive next to
// the generated document. Entries may be doublestar glob patterns.
type AssetList struct {
	CSS    []string
	JS     []string
	Images []string
	Dirs   []string // empty placeholder directories
}

// StyleOverlay is a template-specific stylesheet layered over the base
// document.
type StyleOverlay struct {
	FontFamily   string
	ButtonRadius string
	HeroGradient string
}

// IsZero reports whether the overlay defines nothing.
func (o StyleOverlay) IsZero() bool {
	return o == StyleOverlay{}
}
