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

// DefaultOverpassURL is the public Overpass API interpreter.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// Overpass looks for a hairdresser or beauty salon within 50 metres of the
// extracted coordinates.
type Overpass struct {
	endpoint string
	client   *http.Client
}

// NewOverpass creates an enricher for the given interpreter endpoint.
func NewOverpass(endpoint string, client *http.Client) *Overpass {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	return &Overpass{endpoint: endpoint, client: defaultClient(client)}
}

func (o *Overpass) Name() string { return "overpass" }

// Enrich implements Enricher.
func (o *Overpass) Enrich(ctx context.Context, known *models.PartialProfile) (*models.PartialProfile, error) {
	if known == nil || !known.HasCoordinates() {
		return nil, nil
	}

	lat := strconv.FormatFloat(known.Latitude, 'f', -1, 64)
	lng := strconv.FormatFloat(known.Longitude, 'f', -1, 64)
	var q strings.Builder
	q.WriteString("[out:json][timeout:25];(")
	for _, kind := range []string{"node", "way", "relation"} {
		fmt.Fprintf(&q, `%s(around:50,%s,%s)["amenity"~"^(hairdresser|beauty_salon)$"];`, kind, lat, lng)
		fmt.Fprintf(&q, `%s(around:50,%s,%s)["shop"~"^(hairdresser|beauty)$"];`, kind, lat, lng)
	}
	q.WriteString(");out tags;")

	form := url.Values{"data": {q.String()}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("overpass read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass API error (status %d)", resp.StatusCode)
	}

	var result struct {
		Elements []struct {
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("overpass unmarshal: %w", err)
	}
	if len(result.Elements) == 0 {
		return nil, nil
	}
	return fromTags(result.Elements[0].Tags), nil
}
