// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"salonsite/internal/intake"
	"salonsite/internal/models"
	"salonsite/internal/profile"
	"salonsite/internal/store"
	"salonsite/internal/suggest"
	"salonsite/internal/theme"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
	maxSuggestBody     = 16 << 10
)

// API serves the JSON endpoints used by the form script and by operators.
type API struct {
	registry    *theme.Registry
	suggester   suggest.Provider
	generations *store.GenerationStore
}

// NewAPI creates the JSON handler group. suggester and generations may be
// nil when the matching feature is disabled.
func NewAPI(registry *theme.Registry, suggester suggest.Provider, generations *store.GenerationStore) *API {
	return &API{registry: registry, suggester: suggester, generations: generations}
}

type slotRuleJSON struct {
	Slot     models.Slot `json:"slot"`
	Label    string      `json:"label"`
	Formats  []string    `json:"formats"`
	MaxBytes int64       `json:"max_bytes"`
	MaxFiles int         `json:"max_files"`
}

type variantJSON struct {
	ID          models.VariantID `json:"id"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Default     bool             `json:"default"`
	Slots       []slotRuleJSON   `json:"slots"`
}

// Variants lists the template variants with their upload rules.
func (a *API) Variants(w http.ResponseWriter, r *http.Request) {
	variants := a.registry.Variants()
	out := make([]variantJSON, 0, len(variants))
	for _, v := range variants {
		out = append(out, variantJSON{
			ID:          v.ID,
			Label:       v.Label,
			Description: v.Description,
			Default:     v.ID == models.DefaultVariant,
			Slots:       slotRules(v.Rules()),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func slotRules(rules intake.Table) []slotRuleJSON {
	out := make([]slotRuleJSON, 0, len(models.Slots))
	for _, slot := range models.Slots {
		rule, ok := rules[slot]
		if !ok {
			continue
		}
		maxFiles := 1
		if slot == models.SlotPortfolio {
			maxFiles = models.MaxPortfolioImages
		}
		out = append(out, slotRuleJSON{
			Slot:     slot,
			Label:    rule.Label,
			Formats:  rule.AllowedFormats(),
			MaxBytes: rule.MaxBytes,
			MaxFiles: maxFiles,
		})
	}
	return out
}

type suggestRequest struct {
	URL string `json:"url"`
}

type suggestResponse struct {
	Profile *models.PartialProfile `json:"profile"`
	// Fields maps form field names to suggested values.
	Fields map[string]string `json:"fields"`
}

// Suggest extracts salon details from a Google Maps place URL. The URL is
// read from a JSON body or from the "url" form field.
func (a *API) Suggest(w http.ResponseWriter, r *http.Request) {
	if a.suggester == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "suggestions are disabled"})
		return
	}

	mapsURL, err := suggestURL(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if mapsURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	p, err := a.suggester.Suggest(r.Context(), mapsURL)
	switch {
	case errors.Is(err, suggest.ErrInvalidURL):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Lien Google Maps invalide."})
		return
	case errors.Is(err, suggest.ErrNoData):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Aucune information trouvée pour ce lien."})
		return
	case err != nil:
		slog.Error("suggestion failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Service de suggestion indisponible."})
		return
	}

	fields := map[string]string{}
	for k, v := range (profile.Raw{}).Merge(p).Values() {
		fields[k] = v[0]
	}
	slog.Info("suggestion served", "sources", p.Sources, "fields", len(fields))
	writeJSON(w, http.StatusOK, suggestResponse{Profile: p, Fields: fields})
}

func suggestURL(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req suggestRequest
		if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxSuggestBody)).Decode(&req); err != nil {
			return "", err
		}
		return strings.TrimSpace(req.URL), nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return strings.TrimSpace(r.PostForm.Get("url")), nil
}

type generationsResponse struct {
	Recent    []models.Generation  `json:"recent"`
	ByVariant []store.VariantCount `json:"by_variant"`
}

// Generations reports the recent runs of the generation log.
func (a *API) Generations(w http.ResponseWriter, r *http.Request) {
	if a.generations == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "generation log is disabled"})
		return
	}

	limit := defaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRecentLimit)
	}

	recent, err := a.generations.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list generations", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	counts, err := a.generations.CountByVariant(r.Context())
	if err != nil {
		slog.Error("failed to count generations", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if recent == nil {
		recent = []models.Generation{}
	}
	if counts == nil {
		counts = []store.VariantCount{}
	}
	writeJSON(w, http.StatusOK, generationsResponse{Recent: recent, ByVariant: counts})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// wantsJSON reports whether the client asked for a JSON answer instead of
// a page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
