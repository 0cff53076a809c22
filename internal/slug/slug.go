// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides file-name friendly slugs from arbitrary strings.
// Accented letters are folded to their ASCII base so that salon names such
// as "Éclat Coiffure" keep their letters.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace collapses runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// ligatures are not decomposed by NFD.
var ligatures = strings.NewReplacer("æ", "ae", "œ", "oe", "ß", "ss", "ø", "o", "đ", "d", "ł", "l")

// Fold strips diacritics: "Crème Brûlée" → "Creme Brulee".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a slug from the given string.
// Example: "L'Atelier d'Émilie & Co" → "latelier-demilie-co"
func Generate(s string) string {
	result := ligatures.Replace(strings.ToLower(strings.TrimSpace(s)))
	result = Fold(result)
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
