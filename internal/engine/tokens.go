// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"salonsite/internal/models"
)

// Placeholder tokens understood by the engine.
const (
	TokenSalonName           = "SALON_NAME"
	TokenPhone               = "PHONE"
	TokenAddress             = "ADDRESS"
	TokenDescription         = "DESCRIPTION"
	TokenHours               = "HOURS"
	TokenPrimaryColor        = "PRIMARY_COLOR"
	TokenSecondaryColor      = "SECONDARY_COLOR"
	TokenEmailSection        = "EMAIL_SECTION"
	TokenWebsiteSection      = "WEBSITE_SECTION"
	TokenSocialSection       = "SOCIAL_SECTION"
	TokenSocialLinks         = "SOCIAL_LINKS"
	TokenEmailContactSection = "EMAIL_CONTACT_SECTION"
	TokenHoursDisplay        = "HOURS_DISPLAY"
	TokenCurrentYear         = "CURRENT_YEAR"
)

// Tokens lists the full vocabulary.
var Tokens = []string{
	TokenSalonName, TokenPhone, TokenAddress, TokenDescription, TokenHours,
	TokenPrimaryColor, TokenSecondaryColor, TokenEmailSection, TokenWebsiteSection,
	TokenSocialSection, TokenSocialLinks, TokenEmailContactSection, TokenHoursDisplay,
	TokenCurrentYear,
}

var tokenRe = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)

// FindTokens returns the distinct tokens present in markup, in order of
// first appearance.
func FindTokens(markup string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range tokenRe.FindAllStringSubmatch(markup, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// substituteTokens replaces every known token in one pass, so substituted
// values are never rescanned. Unknown tokens stay in place and are returned.
func (e *Engine) substituteTokens(markup string, p *models.SalonProfile) (string, []string) {
	values := e.tokenValues(p)
	var leftover []string
	seen := map[string]bool{}

	out := tokenRe.ReplaceAllStringFunc(markup, func(tok string) string {
		name := tok[2 : len(tok)-2]
		if v, ok := values[name]; ok {
			return v
		}
		if !seen[name] {
			seen[name] = true
			leftover = append(leftover, name)
		}
		return tok
	})
	return out, leftover
}

// tokenValues computes the escaped replacement of every token.
func (e *Engine) tokenValues(p *models.SalonProfile) map[string]string {
	esc := html.EscapeString
	return map[string]string{
		TokenSalonName:           esc(p.Name),
		TokenPhone:               esc(p.Phone),
		TokenAddress:             esc(p.Address),
		TokenDescription:         esc(Description(p)),
		TokenHours:               esc(hoursText(p)),
		TokenPrimaryColor:        esc(p.PrimaryColor),
		TokenSecondaryColor:      esc(p.SecondaryColor),
		TokenEmailSection:        emailSection(p),
		TokenWebsiteSection:      websiteSection(p),
		TokenSocialSection:       socialSection(p),
		TokenSocialLinks:         socialLinks(p),
		TokenEmailContactSection: emailContactSection(p),
		TokenHoursDisplay:        hoursDisplay(p),
		TokenCurrentYear:         strconv.Itoa(e.now().Year()),
	}
}

// Description returns the profile description, or the generated welcome
// sentence when it is empty. The result is not escaped.
func Description(p *models.SalonProfile) string {
	if p.Description != "" {
		return p.Description
	}
	return fmt.Sprintf("Bienvenue chez %s, votre salon de coiffure de confiance situé à %s. "+
		"Notre équipe passionnée vous offre des services de qualité dans une atmosphère chaleureuse et professionnelle.",
		p.Name, p.Address)
}

func hoursText(p *models.SalonProfile) string {
	if p.Hours == "" {
		return models.DefaultHours
	}
	return p.Hours
}

// hoursDisplay escapes each line and joins them with <br>.
func hoursDisplay(p *models.SalonProfile) string {
	lines := strings.Split(hoursText(p), "\n")
	for i, l := range lines {
		lines[i] = html.EscapeString(strings.TrimSpace(l))
	}
	return strings.Join(lines, "<br>")
}

func emailSection(p *models.SalonProfile) string {
	if p.Email == "" {
		return ""
	}
	e := html.EscapeString(p.Email)
	return `<p class="email"><strong>Email :</strong> <a href="mailto:` + e + `">` + e + `</a></p>`
}

func emailContactSection(p *models.SalonProfile) string {
	if p.Email == "" {
		return ""
	}
	e := html.EscapeString(p.Email)
	return `<p class="contact-email"><a href="mailto:` + e + `">` + e + `</a></p>`
}

func websiteSection(p *models.SalonProfile) string {
	if p.Website == "" {
		return ""
	}
	w := html.EscapeString(p.Website)
	return `<p class="website"><strong>Site web :</strong> <a href="` + w + `" target="_blank" rel="noopener">` + w + `</a></p>`
}

// socialLinks renders one anchor per configured network.
func socialLinks(p *models.SalonProfile) string {
	var b strings.Builder
	link := func(class, href, label string) {
		fmt.Fprintf(&b, `<a class="social-%s" href="%s" target="_blank" rel="noopener">%s</a>`,
			class, html.EscapeString(href), label)
	}
	if p.Facebook != "" {
		link("facebook", p.Facebook, "Facebook")
	}
	if p.Instagram != "" {
		link("instagram", p.Instagram, "Instagram")
	}
	if p.WhatsApp != "" {
		link("whatsapp", "https://wa.me/"+p.WhatsApp, "WhatsApp")
	}
	return b.String()
}

func socialSection(p *models.SalonProfile) string {
	if !p.HasSocial() {
		return ""
	}
	return `<div class="social-section"><h3>Suivez-nous</h3>` + socialLinks(p) + `</div>`
}
