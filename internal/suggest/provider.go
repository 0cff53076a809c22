// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package suggest pre-fills the salon form from a Google Maps link. The
// URL itself is parsed first; optional enrichers then look the location up
// in OpenStreetMap services. Results are suggestions only and never
// overwrite a field that is already filled.
package suggest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"salonsite/internal/models"
)

// ErrInvalidURL is returned when the input is not a Google Maps place link.
var ErrInvalidURL = errors.New("suggest: not a Google Maps place URL")

// ErrNoData is returned when no field could be suggested.
var ErrNoData = errors.New("suggest: no data extracted")

// userAgent identifies the generator to the OpenStreetMap services, which
// require a descriptive agent.
const userAgent = "SalonSite/1.0 (static salon site generator)"

// Provider turns a Maps URL into a partial profile.
type Provider interface {
	Suggest(ctx context.Context, mapsURL string) (*models.PartialProfile, error)

	// Name returns the provider identifier (e.g., "url", "nominatim").
	Name() string
}

// Enricher looks up more details for an already extracted profile. It
// returns only what it found; merging is the caller's job.
type Enricher interface {
	Enrich(ctx context.Context, known *models.PartialProfile) (*models.PartialProfile, error)
	Name() string
}

// Chain runs a base provider and then every enricher in order. Enricher
// failures are logged and skipped.
type Chain struct {
	base      Provider
	enrichers []Enricher
}

// NewChain creates a chain. A nil base defaults to the URL parser.
func NewChain(base Provider, enrichers ...Enricher) *Chain {
	if base == nil {
		base = URLParser{}
	}
	return &Chain{base: base, enrichers: enrichers}
}

func (c *Chain) Name() string { return "chain" }

// Suggest implements Provider.
func (c *Chain) Suggest(ctx context.Context, mapsURL string) (*models.PartialProfile, error) {
	p, err := c.base.Suggest(ctx, mapsURL)
	if err != nil {
		return nil, err
	}

	for _, e := range c.enrichers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := e.Enrich(ctx, p)
		if err != nil {
			slog.Warn("suggestion enricher failed", "provider", e.Name(), "error", err)
			continue
		}
		if Fill(p, found) {
			p.Sources = append(p.Sources, e.Name())
		}
	}

	if p.IsEmpty() {
		return nil, ErrNoData
	}
	return p, nil
}

// Fill copies the fields of src into the empty fields of dst and reports
// whether anything was copied.
func Fill(dst, src *models.PartialProfile) bool {
	if src == nil {
		return false
	}
	changed := false
	set := func(d *string, s string) {
		if *d == "" && s != "" {
			*d = s
			changed = true
		}
	}
	set(&dst.Name, src.Name)
	set(&dst.Phone, src.Phone)
	set(&dst.Address, src.Address)
	set(&dst.Email, src.Email)
	set(&dst.Website, src.Website)
	set(&dst.Description, src.Description)
	set(&dst.Hours, src.Hours)
	set(&dst.Facebook, src.Facebook)
	set(&dst.Instagram, src.Instagram)
	set(&dst.WhatsApp, src.WhatsApp)
	set(&dst.PlaceID, src.PlaceID)
	if !dst.HasCoordinates() && src.HasCoordinates() {
		dst.Latitude, dst.Longitude = src.Latitude, src.Longitude
		changed = true
	}
	return changed
}

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 10 * time.Second}
}
