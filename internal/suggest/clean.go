// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package suggest

import (
	"regexp"
	"strings"
)

var (
	phoneJunk     = regexp.MustCompile(`[^\d+]`)
	whatsappDigit = regexp.MustCompile(`\+?\d{10,15}`)

	addressTail = []*regexp.Regexp{
		regexp.MustCompile(`,\s*\d{5}.*$`),
		regexp.MustCompile(`,\s*France.*$`),
		regexp.MustCompile(`,\s*[A-Z]{2,3}.*$`),
	}

	// OpenStreetMap opening_hours day abbreviations.
	dayNames = strings.NewReplacer(
		"Mo", "Lundi", "Tu", "Mardi", "We", "Mercredi", "Th", "Jeudi",
		"Fr", "Vendredi", "Sa", "Samedi", "Su", "Dimanche",
		";", "\n", "-", " - ",
	)
)

// CleanPhone strips formatting and converts a national French number to
// international form: "01 45 55 12 34" → "+33145551234".
func CleanPhone(s string) string {
	cleaned := phoneJunk.ReplaceAllString(strings.TrimSpace(s), "")
	if strings.HasPrefix(cleaned, "0") {
		cleaned = "+33" + cleaned[1:]
	}
	return cleaned
}

// WhatsAppNumber extracts the international digits of a WhatsApp contact.
func WhatsAppNumber(s string) string {
	m := whatsappDigit.FindString(strings.ReplaceAll(s, " ", ""))
	return strings.TrimPrefix(m, "+")
}

// CleanURL adds a scheme to bare host names.
func CleanURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "https://" + s
}

// CleanSocialURL normalizes a social profile reference to an https URL on
// the platform's host. platform is "facebook" or "instagram".
func CleanSocialURL(s, platform string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[i+2:]
	}
	host := platform + ".com"
	if strings.Contains(s, host) {
		return "https://" + s
	}
	return "https://www." + host + "/" + strings.TrimPrefix(s, "@")
}

// FormatOpeningHours renders an OpenStreetMap opening_hours value with
// French day names, one rule per line.
func FormatOpeningHours(s string) string {
	lines := strings.Split(dayNames.Replace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

// CleanAddress drops the postcode, country and region tail of a geocoder
// display name.
func CleanAddress(s string) string {
	for _, re := range addressTail {
		s = re.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}
