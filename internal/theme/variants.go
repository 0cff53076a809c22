// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"salonsite/internal/intake"
	"salonsite/internal/models"
)

// Variant describes one template variant entirely as data.
type Variant struct {
	ID          models.VariantID
	Label       string
	Description string

	// BasePath is the bundled document fetched from the asset source.
	BasePath string

	// Synthesize allows falling back to the in-memory layout when the
	// bundled document does not exist.
	Synthesize bool
	Layout     Layout

	Overlay      models.StyleOverlay
	MaxPortfolio int
	Assets       models.AssetList

	// Policy overrides the default intake rules for some slots.
	Policy intake.Table

	// Legacy marks the fixed-content theme handled by the literal pass.
	Legacy bool
}

// Rules returns the complete intake table of the variant.
func (v *Variant) Rules() intake.Table {
	return intake.DefaultTable().With(v.Policy)
}

// sharedAssets are copied for every parameterized variant.
var sharedAssets = models.AssetList{
	CSS: []string{"css/site.css"},
	JS:  []string{"js/site.js"},
	Images: []string{
		"img/hero.jpg", "img/about.jpg", "img/logo.png", "img/footer.jpg",
		"img/team/*.jpg",
	},
	Dirs: placeholderDirs,
}

var placeholderDirs = []string{"img/client", "img/portfolio", "img/service", "img/team"}

// legacyAssets reproduces the fixed file lists of the Bootstrap theme.
var legacyAssets = models.AssetList{
	CSS: []string{
		"css/animate.min.css", "css/app.css", "css/bootstrap.css",
		"css/magnific-popup.css", "css/owl.carousel.min.css", "css/owl.theme.default.min.css",
	},
	JS: []string{
		"js/app.js", "js/bootstrap.min.js", "js/contact_me.js", "js/contact_me.min.js",
		"js/jqBootstrapValidation.min.js", "js/jquery.easing.min.js", "js/jquery.magnific-popup.min.js",
		"js/jquery.min.js", "js/owl.carousel.min.js", "js/popper.min.js", "js/wow.min.js",
	},
	Images: []string{
		"img/hero.jpg", "img/about.jpg", "img/logo.png", "img/footer.jpg",
		"img/team/*.jpg", "img/portfolio/*.jpg",
	},
	Dirs: placeholderDirs,
}

func withPortfolio(list models.AssetList) models.AssetList {
	list.Images = append(append([]string(nil), list.Images...), "img/portfolio/*.jpg")
	return list
}

// builtin is the closed set of variants, in display order.
var builtin = []Variant{
	{
		ID:           models.VariantClassic,
		Label:        "Classique",
		Description:  "Mise en page sobre, typographie serif et boutons arrondis.",
		BasePath:     "templates/classic/index.html",
		Synthesize:   true,
		Layout:       classicLayout,
		MaxPortfolio: 6,
		Assets:       withPortfolio(sharedAssets),
	},
	{
		ID:          models.VariantModern,
		Label:       "Moderne",
		Description: "Grandes images, typographie sans empattement et angles droits.",
		BasePath:    "templates/modern/index.html",
		Synthesize:  true,
		Layout:      modernLayout,
		Overlay: models.StyleOverlay{
			FontFamily:   "'Montserrat', 'Helvetica Neue', Arial, sans-serif",
			ButtonRadius: "0",
			HeroGradient: "linear-gradient(135deg, rgba(20,20,20,.75), rgba(20,20,20,.25))",
		},
		MaxPortfolio: 4,
		Assets:       withPortfolio(sharedAssets),
		Policy: intake.Table{
			models.SlotHero: {MaxBytes: 8 << 20},
		},
	},
	{
		ID:          models.VariantLuxury,
		Label:       "Luxe",
		Description: "Noir et or, serif élégante, galerie étendue.",
		BasePath:    "templates/luxury/index.html",
		Synthesize:  true,
		Layout:      luxuryLayout,
		Overlay: models.StyleOverlay{
			FontFamily:   "'Playfair Display', Georgia, serif",
			ButtonRadius: "2px",
			HeroGradient: "linear-gradient(180deg, rgba(0,0,0,.85), rgba(197,157,95,.35))",
		},
		MaxPortfolio: 6,
		Assets:       withPortfolio(sharedAssets),
		Policy: intake.Table{
			models.SlotHero:      {MaxBytes: 8 << 20},
			models.SlotPortfolio: {MaxBytes: 8 << 20},
		},
	},
	{
		ID:          models.VariantBarber,
		Label:       "Barbier",
		Description: "Style vintage, contrastes forts, logo mis en avant.",
		BasePath:    "templates/barber/index.html",
		Synthesize:  true,
		Layout:      barberLayout,
		Overlay: models.StyleOverlay{
			FontFamily:   "'Oswald', 'Arial Narrow', sans-serif",
			ButtonRadius: "4px",
			HeroGradient: "linear-gradient(90deg, rgba(44,44,44,.9), rgba(120,30,30,.6))",
		},
		MaxPortfolio: 3,
		Assets:       withPortfolio(sharedAssets),
		Policy: intake.Table{
			models.SlotLogo: {
				Allowed:  []string{"image/png", "image/svg+xml", "image/webp"},
				MaxBytes: 1 << 20,
			},
		},
	},
	{
		ID:           models.VariantBeauty,
		Label:        "Beauté (Bootstrap)",
		Description:  "Thème Bootstrap d'origine, contenu réécrit automatiquement.",
		BasePath:     "index.html",
		MaxPortfolio: 6,
		Assets:       legacyAssets,
		Legacy:       true,
	},
}
