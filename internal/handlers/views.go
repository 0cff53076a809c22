// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"salonsite/internal/intake"
	"salonsite/internal/models"
	"salonsite/internal/render"
	"salonsite/internal/theme"
)

// slotView is one upload slot as shown by the form.
type slotView struct {
	Slot      models.Slot
	Label     string
	Accept    string
	Formats   string
	MaxMB     float64
	Multiple  bool
	MaxFiles  int
	Asset     *models.ImageAsset
	Portfolio []models.ImageAsset
	Error     string
}

// formState carries what the form page shows besides the session itself.
type formState struct {
	Fields     url.Values
	Missing    map[string]bool
	SlotErrors map[models.Slot]string
	Flashes    []models.Flash
}

// slotViews lists the slots of a variant in display order with the
// current uploads of the session.
func slotViews(v *theme.Variant, images *models.ImageSet, errs map[models.Slot]string) []slotView {
	rules := v.Rules()
	views := make([]slotView, 0, len(models.Slots))
	for _, slot := range models.Slots {
		rule := rules[slot]
		sv := slotView{
			Slot:    slot,
			Label:   rule.Label,
			Accept:  strings.Join(rule.Allowed, ","),
			Formats: strings.Join(rule.AllowedFormats(), ", "),
			MaxMB:   float64(rule.MaxBytes) / (1 << 20),
			Error:   errs[slot],
		}
		if slot == models.SlotPortfolio {
			sv.Multiple = true
			sv.MaxFiles = models.MaxPortfolioImages
			if images != nil {
				sv.Portfolio = images.Portfolio
			}
		} else if a, ok := images.Get(slot); ok {
			sv.Asset = &a
		}
		views = append(views, sv)
	}
	return views
}

// renderForm renders the form page for the session's variant.
func (s *Site) renderForm(w http.ResponseWriter, r *http.Request, status int, sess *models.Session, st formState) {
	v, ok := s.registry.Lookup(sess.Variant)
	if !ok {
		v, _ = s.registry.Lookup(models.DefaultVariant)
	}

	s.renderer.PageStatus(w, r, status, "form", &render.PageData{
		Title:   v.Label,
		Session: sess,
		Flashes: st.Flashes,
		Data: map[string]any{
			"Variant":        v,
			"Variants":       s.registry.Variants(),
			"Fields":         st.Fields,
			"Missing":        st.Missing,
			"Slots":          slotViews(v, sess.Images, st.SlotErrors),
			"HasPreview":     sess.LastDocument != "",
			"SuggestEnabled": s.suggestEnabled,
		},
	})
}

// renderError renders the generic notice page.
func (s *Site) renderError(w http.ResponseWriter, r *http.Request, status int, title, msg string) {
	s.renderer.PageStatus(w, r, status, "error", &render.PageData{
		Title: title,
		Data:  map[string]any{"Message": msg},
	})
}

// imageErrorMessage returns the user-facing notice of an intake failure.
func imageErrorMessage(err error) (string, bool) {
	var ierr *intake.ImageError
	var berr *intake.BatchError
	switch {
	case errors.As(err, &berr):
		return berr.Message(), true
	case errors.As(err, &ierr):
		return ierr.Message(), true
	default:
		return "", false
	}
}
