// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme resolves a template variant into its base document: the
// bundled markup when available, otherwise a synthesized document carrying
// placeholder tokens, with the variant's style overlay injected.
package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"

	"salonsite/internal/assets"
	"salonsite/internal/models"
)

// UnknownVariantError is returned for identifiers outside the closed set.
type UnknownVariantError struct {
	Value      string
	Suggestion models.VariantID // closest known identifier, if any
}

func (e *UnknownVariantError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("theme: unknown variant %q (did you mean %q?)", e.Value, e.Suggestion)
	}
	return fmt.Sprintf("theme: unknown variant %q", e.Value)
}

// Registry holds the variant table and the source of bundled documents.
type Registry struct {
	src      assets.Source
	variants []Variant
	byID     map[models.VariantID]*Variant
}

// NewRegistry returns a registry of the built-in variants reading bundled
// documents from src.
func NewRegistry(src assets.Source) *Registry {
	r := &Registry{
		src:      src,
		variants: builtin,
		byID:     make(map[models.VariantID]*Variant, len(builtin)),
	}
	for i := range r.variants {
		r.byID[r.variants[i].ID] = &r.variants[i]
	}
	return r
}

// Variants returns the variants in display order.
func (r *Registry) Variants() []Variant {
	return r.variants
}

// Lookup returns the variant with the given identifier.
func (r *Registry) Lookup(id models.VariantID) (*Variant, bool) {
	v, ok := r.byID[id]
	return v, ok
}

// ParseVariant maps a query value to a known identifier. An empty value
// selects the default variant.
func (r *Registry) ParseVariant(s string) (models.VariantID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return models.DefaultVariant, nil
	}
	if _, ok := r.byID[models.VariantID(s)]; ok {
		return models.VariantID(s), nil
	}

	ids := make([]string, len(r.variants))
	for i, v := range r.variants {
		ids[i] = string(v.ID)
	}
	uerr := &UnknownVariantError{Value: s}
	if matches := fuzzy.Find(s, ids); len(matches) > 0 {
		uerr.Suggestion = models.VariantID(matches[0].Str)
	}
	return "", uerr
}

// Resolve returns a fresh base document for the variant. A bundled document
// that does not exist falls back to the synthesized layout when the variant
// allows it; any other fetch failure is returned. Each call starts from a
// new base, so the overlay is injected exactly once per result.
func (r *Registry) Resolve(ctx context.Context, id models.VariantID) (string, error) {
	v, ok := r.byID[id]
	if !ok {
		return "", &UnknownVariantError{Value: string(id)}
	}

	var markup string
	data, err := r.src.Fetch(ctx, v.BasePath)
	switch {
	case err == nil:
		markup = string(data)
	case errors.Is(err, assets.ErrNotFound) && v.Synthesize:
		slog.Debug("bundled template missing, synthesizing", "variant", id, "path", v.BasePath)
		markup = synthesize(v)
	default:
		return "", fmt.Errorf("theme: resolve %s: %w", id, err)
	}

	if !v.Overlay.IsZero() {
		markup = InjectOverlay(markup, v.Overlay)
	}
	return markup, nil
}

// OverlayID is the id attribute of the injected style element.
const OverlayID = "variant-overlay"

var headOpenRe = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)

// InjectOverlay inserts the overlay stylesheet right after the opening head
// tag, or at the start of the document when there is none.
func InjectOverlay(markup string, o models.StyleOverlay) string {
	block := overlayCSS(o)
	if loc := headOpenRe.FindStringIndex(markup); loc != nil {
		return markup[:loc[1]] + "\n" + block + markup[loc[1]:]
	}
	return block + markup
}

func overlayCSS(o models.StyleOverlay) string {
	var b strings.Builder
	b.WriteString(`<style id="` + OverlayID + `">` + "\n")
	if o.FontFamily != "" {
		fmt.Fprintf(&b, "body, h1, h2, h3 { font-family: %s; }\n", o.FontFamily)
	}
	if o.ButtonRadius != "" {
		fmt.Fprintf(&b, ".btn, button { border-radius: %s; }\n", o.ButtonRadius)
	}
	if o.HeroGradient != "" {
		fmt.Fprintf(&b, ".hero { background-image: %s, url('img/hero.jpg'); }\n", o.HeroGradient)
	}
	b.WriteString("</style>\n")
	return b.String()
}
