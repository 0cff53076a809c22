// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"salonsite/internal/models"
)

// DefaultNominatimURL is the public OpenStreetMap reverse geocoder.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim reverse-geocodes the extracted coordinates and reads the
// contact tags of the matching OpenStreetMap object.
type Nominatim struct {
	baseURL string
	client  *http.Client
}

// NewNominatim creates an enricher. An empty baseURL uses the public
// instance; a nil client gets a short timeout.
func NewNominatim(baseURL string, client *http.Client) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Nominatim{baseURL: strings.TrimRight(baseURL, "/"), client: defaultClient(client)}
}

func (n *Nominatim) Name() string { return "nominatim" }

// Enrich implements Enricher. Profiles without coordinates are returned
// unchanged.
func (n *Nominatim) Enrich(ctx context.Context, known *models.PartialProfile) (*models.PartialProfile, error) {
	if known == nil || !known.HasCoordinates() {
		return nil, nil
	}

	q := url.Values{
		"format":         {"json"},
		"lat":            {strconv.FormatFloat(known.Latitude, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(known.Longitude, 'f', -1, 64)},
		"zoom":           {"18"},
		"addressdetails": {"1"},
		"extratags":      {"1"},
		"namedetails":    {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("nominatim read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim API error (status %d)", resp.StatusCode)
	}

	var result nominatimResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("nominatim unmarshal: %w", err)
	}

	p := fromTags(result.ExtraTags)
	if name := strings.TrimSpace(result.NameDetails["name"]); name != "" {
		p.Name = name
	}
	if result.DisplayName != "" {
		if p.Name == "" {
			first, _, _ := strings.Cut(result.DisplayName, ",")
			p.Name = strings.TrimSpace(first)
		}
		if p.Address == "" {
			p.Address = CleanAddress(result.DisplayName)
		}
	}
	return p, nil
}

type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	ExtraTags   map[string]string `json:"extratags"`
	NameDetails map[string]string `json:"namedetails"`
}

// fromTags maps OpenStreetMap contact tags onto a profile. Plain keys win
// over their contact:* forms.
func fromTags(tags map[string]string) *models.PartialProfile {
	get := func(key string) string {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
		return strings.TrimSpace(tags["contact:"+key])
	}

	p := &models.PartialProfile{Name: strings.TrimSpace(tags["name"])}
	if v := get("phone"); v != "" {
		p.Phone = CleanPhone(v)
	}
	if v := get("website"); v != "" {
		p.Website = CleanURL(v)
	}
	p.Email = get("email")
	if v := strings.TrimSpace(tags["opening_hours"]); v != "" {
		p.Hours = FormatOpeningHours(v)
	}
	if v := get("facebook"); v != "" {
		p.Facebook = CleanSocialURL(v, "facebook")
	}
	if v := get("instagram"); v != "" {
		p.Instagram = CleanSocialURL(v, "instagram")
	}
	if v := get("whatsapp"); v != "" {
		p.WhatsApp = WhatsAppNumber(v)
	}
	if v := strings.TrimSpace(tags["addr:full"]); v != "" {
		p.Address = v
	} else {
		var parts []string
		for _, k := range []string{"addr:housenumber", "addr:street", "addr:postcode", "addr:city"} {
			if v := strings.TrimSpace(tags[k]); v != "" {
				parts = append(parts, v)
			}
		}
		p.Address = strings.Join(parts, ", ")
	}
	return p
}
