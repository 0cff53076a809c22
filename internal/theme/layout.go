// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"fmt"
	"strings"

	"salonsite/internal/models"
)

// Section names a block of the synthesized document.
type Section string

const (
	SectionHeader    Section = "header"
	SectionHero      Section = "hero"
	SectionAbout     Section = "about"
	SectionHours     Section = "hours"
	SectionTeam      Section = "team"
	SectionPortfolio Section = "portfolio"
	SectionContact   Section = "contact"
	SectionFooter    Section = "footer"
)

// Layout is the recipe of a synthesized document: a body class and the
// order of its sections.
type Layout struct {
	Class    string
	Sections []Section
}

var (
	classicLayout = Layout{Class: "classic", Sections: []Section{
		SectionHeader, SectionHero, SectionAbout, SectionHours, SectionTeam, SectionPortfolio, SectionContact, SectionFooter,
	}}
	modernLayout = Layout{Class: "modern", Sections: []Section{
		SectionHeader, SectionHero, SectionPortfolio, SectionAbout, SectionTeam, SectionContact, SectionHours, SectionFooter,
	}}
	luxuryLayout = Layout{Class: "luxury", Sections: []Section{
		SectionHeader, SectionHero, SectionAbout, SectionPortfolio, SectionTeam, SectionHours, SectionContact, SectionFooter,
	}}
	barberLayout = Layout{Class: "barber", Sections: []Section{
		SectionHeader, SectionHero, SectionHours, SectionTeam, SectionPortfolio, SectionAbout, SectionContact, SectionFooter,
	}}
)

const docHead = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{SALON_NAME}} - Salon de Coiffure</title>
<meta name="description" content="{{DESCRIPTION}}">
<link rel="stylesheet" href="css/site.css">
<style>
:root { --primary: {{PRIMARY_COLOR}}; --secondary: {{SECONDARY_COLOR}}; }
.hero { background-image: url('img/hero.jpg'); }
</style>
</head>
`

const docTail = `<script src="js/site.js"></script>
</body>
</html>
`

var fragments = map[Section]string{
	SectionHeader: `<header class="site-header">
  <a href="#accueil" class="brand"><img class="logo" src="img/logo.png" alt="{{SALON_NAME}}"><span>{{SALON_NAME}}</span></a>
  <nav><a href="#apropos">À propos</a><a href="#equipe">Équipe</a><a href="#realisations">Réalisations</a><a href="#contact">Contact</a></nav>
  <span class="header-phone">{{PHONE}}</span>
</header>
`,
	SectionHero: `<section class="hero" id="accueil">
  <div class="hero-inner">
    <h1>{{SALON_NAME}}</h1>
    <p class="lead">{{DESCRIPTION}}</p>
    <a class="btn" href="#contact">Prendre rendez-vous</a>
  </div>
</section>
`,
	SectionAbout: `<section class="about" id="apropos">
  <img src="img/about.jpg" alt="{{SALON_NAME}}">
  <div>
    <h2>À propos de {{SALON_NAME}}</h2>
    <p>{{DESCRIPTION}}</p>
    {{EMAIL_SECTION}}
    {{WEBSITE_SECTION}}
  </div>
</section>
`,
	SectionHours: `<section class="hours" id="horaires">
  <h2>Horaires</h2>
  <p>{{HOURS_DISPLAY}}</p>
</section>
`,
	SectionContact: `<section class="contact" id="contact">
  <h2>Contact</h2>
  <p class="address">{{ADDRESS}}</p>
  <p class="phone">{{PHONE}}</p>
  {{EMAIL_CONTACT_SECTION}}
  {{SOCIAL_SECTION}}
</section>
`,
	SectionFooter: `<footer class="site-footer" style="background-image: url(img/footer.jpg)">
  <div class="social">{{SOCIAL_LINKS}}</div>
  <p>Copyright &copy; {{CURRENT_YEAR}} {{SALON_NAME}}</p>
</footer>
`,
}

// synthesize builds the in-memory document of a variant. The portfolio
// grid has one placeholder per slot the variant supports.
func synthesize(v *Variant) string {
	var b strings.Builder
	b.WriteString(docHead)
	fmt.Fprintf(&b, "<body class=\"layout-%s\">\n", v.Layout.Class)
	for _, s := range v.Layout.Sections {
		switch s {
		case SectionTeam:
			writeTeam(&b)
		case SectionPortfolio:
			writePortfolio(&b, v.MaxPortfolio)
		default:
			b.WriteString(fragments[s])
		}
	}
	b.WriteString(docTail)
	return b.String()
}

func writeTeam(b *strings.Builder) {
	b.WriteString("<section class=\"team\" id=\"equipe\">\n  <h2>Notre équipe</h2>\n  <div class=\"grid\">\n")
	for _, slot := range []models.Slot{models.SlotTeam1, models.SlotTeam2, models.SlotTeam3} {
		fmt.Fprintf(b, "    <figure><img src=\"img/team/%s\" alt=\"\"></figure>\n", slot.DefaultFile())
	}
	b.WriteString("  </div>\n</section>\n")
}

func writePortfolio(b *strings.Builder, n int) {
	b.WriteString("<section class=\"portfolio\" id=\"realisations\">\n  <h2>Nos réalisations</h2>\n  <div class=\"grid\">\n")
	for i := range n {
		fmt.Fprintf(b, "    <figure><img src=\"img/portfolio/%s\" alt=\"\"></figure>\n", models.PortfolioFile(i))
	}
	b.WriteString("  </div>\n</section>\n")
}
