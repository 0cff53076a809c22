// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package profile

import (
	"fmt"
	"regexp"
	"strings"

	"salonsite/internal/models"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	colorRe  = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	schemeRe = regexp.MustCompile(`(?i)^https?://`)
)

// ValidationFailure lists the required fields that were empty. All missing
// fields are reported together.
type ValidationFailure struct {
	Missing []string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("profile: missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Sanitize validates the required fields and normalizes the optional ones.
// Invalid emails are dropped, URLs get a scheme, invalid colors fall back to
// their default. Only missing required fields produce an error.
func Sanitize(r Raw) (*models.SalonProfile, error) {
	p := &models.SalonProfile{
		Name:    strings.TrimSpace(r.Name),
		Phone:   strings.TrimSpace(r.Phone),
		Address: strings.TrimSpace(r.Address),
	}

	var missing []string
	if p.Name == "" {
		missing = append(missing, FieldName)
	}
	if p.Phone == "" {
		missing = append(missing, FieldPhone)
	}
	if p.Address == "" {
		missing = append(missing, FieldAddress)
	}
	if len(missing) > 0 {
		return nil, &ValidationFailure{Missing: missing}
	}

	p.Email = NormalizeEmail(r.Email)
	p.Website = NormalizeURL(r.Website)
	p.Facebook = NormalizeURL(r.Facebook)
	p.Instagram = NormalizeURL(r.Instagram)
	p.WhatsApp = DigitsOnly(r.WhatsApp)
	p.Description = strings.TrimSpace(r.Description)
	p.Hours = normalizeLines(r.Hours)
	if p.Hours == "" {
		p.Hours = models.DefaultHours
	}
	p.PrimaryColor = NormalizeColor(r.PrimaryColor, models.DefaultPrimaryColor)
	p.SecondaryColor = NormalizeColor(r.SecondaryColor, models.DefaultSecondaryColor)

	return p, nil
}

// NormalizeEmail returns the trimmed address, or "" when it does not look
// like local@domain.tld.
func NormalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	if !emailRe.MatchString(s) {
		return ""
	}
	return s
}

// NormalizeURL trims s and prefixes https:// unless it already starts with
// http:// or https://. Any other scheme ends up as part of the host, so
// javascript: and data: values never reach an href as such.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || schemeRe.MatchString(s) {
		return s
	}
	return "https://" + strings.TrimPrefix(s, "//")
}

// NormalizeColor returns s as a lower-case #rgb or #rrggbb value, or def
// when s is not a hex color.
func NormalizeColor(s, def string) string {
	s = strings.TrimSpace(s)
	if !colorRe.MatchString(s) {
		return def
	}
	return "#" + strings.ToLower(strings.TrimPrefix(s, "#"))
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// normalizeLines trims every line and drops blank ones.
func normalizeLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
