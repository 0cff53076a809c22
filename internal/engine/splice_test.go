package engine

import (
	"strings"
	"testing"

	"salonsite/internal/models"
)

func asset(slot models.Slot, data string) models.ImageAsset {
	return models.ImageAsset{Slot: slot, ContentType: "image/png", Data: []byte(data)}
}

func TestSpliceImages(t *testing.T) {
	hero := asset(models.SlotHero, "H")
	heroURI := hero.DataURI()
	images := models.NewImageSet()
	images.Put(hero)

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"img src double quotes", `<img src="img/hero.jpg">`, `src="` + heroURI + `"`},
		{"img src single quotes", `<img src='img/hero.jpg'>`, `src="` + heroURI + `"`},
		{"query string", `<img src="img/hero.jpg?v=2">`, `src="` + heroURI + `"`},
		{"data-src", `<div data-src="./img/hero.jpg"></div>`, `data-src="` + heroURI + `"`},
		{"srcset", `<img srcset="img/hero.jpg 1x, img/hero@2x.jpg 2x">`, heroURI + ` 1x, img/hero@2x.jpg 2x`},
		{"style attribute unquoted", `<div style="background: url(img/hero.jpg) center"></div>`, `url(` + heroURI + `) center`},
		{"style element single quotes", `<style>.hero{background:url('img/hero.jpg')}</style>`, `url('` + heroURI + `')`},
		{"style element double quotes", `<style>.hero{background:url("../img/hero.jpg")}</style>`, `url("` + heroURI + `")`},
		{"lightbox anchor", `<a href="img/hero.jpg">zoom</a>`, `href="` + heroURI + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().Merge(tt.markup, dupont(), images, 0)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(res.Document, tt.want) {
				t.Errorf("document %q does not contain %q", res.Document, tt.want)
			}
			if res.Spliced["hero.jpg"] == 0 {
				t.Error("splice not counted")
			}
		})
	}
}

// Every occurrence is replaced, including decorative duplicates, and
// unpopulated slots keep their default.
func TestSpliceAllOccurrences(t *testing.T) {
	images := models.NewImageSet()
	images.Put(asset(models.SlotLogo, "L"))

	markup := `<header><img src="img/logo.png"></header><footer><img src="img/logo.png"><img src="img/hero.jpg"></footer>`
	res, err := New().Merge(markup, dupont(), images, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Spliced["logo.png"] != 2 {
		t.Errorf("logo spliced %d times, want 2", res.Spliced["logo.png"])
	}
	if !strings.Contains(res.Document, `src="img/hero.jpg"`) {
		t.Error("default hero should remain when no hero was uploaded")
	}
}

func TestSplicePortfolioPositional(t *testing.T) {
	images := models.NewImageSet()
	images.SetPortfolio([]models.ImageAsset{
		asset(models.SlotPortfolio, "1"),
		asset(models.SlotPortfolio, "2"),
		asset(models.SlotPortfolio, "3"),
	})
	markup := `<img src="img/portfolio/portfolio-1.jpg"><img src="img/portfolio/portfolio-2.jpg"><img src="img/portfolio/portfolio-3.jpg">`

	res, err := New().Merge(markup, dupont(), images, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Document, images.Portfolio[0].DataURI()) || !strings.Contains(res.Document, images.Portfolio[1].DataURI()) {
		t.Error("first two portfolio images not spliced")
	}
	if !strings.Contains(res.Document, `src="img/portfolio/portfolio-3.jpg"`) {
		t.Error("image beyond the variant maximum was spliced")
	}
}
