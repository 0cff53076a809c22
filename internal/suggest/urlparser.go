// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package suggest

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"salonsite/internal/models"
)

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`place/([^/?&@]+)`),
		regexp.MustCompile(`search/([^/?&@]+)`),
		regexp.MustCompile(`dir/[^/]*/([^/?&@]+)`),
	}

	coordPatterns = []*regexp.Regexp{
		regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`),
		regexp.MustCompile(`!3d(-?\d+\.\d+)!4d(-?\d+\.\d+)`),
		regexp.MustCompile(`data=.*?3d(-?\d+\.\d+).*?4d(-?\d+\.\d+)`),
		regexp.MustCompile(`ll=(-?\d+\.\d+),(-?\d+\.\d+)`),
		regexp.MustCompile(`center=(-?\d+\.\d+),(-?\d+\.\d+)`),
	}

	placeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`place_id:([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)!1s0x[a-f0-9]+:0x([a-f0-9]+)`),
		regexp.MustCompile(`(?i)ftid=0x[a-f0-9]+:0x([a-f0-9]+)`),
	}

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)phone[=:]([+\d\s\-()]+)`),
		regexp.MustCompile(`(?i)tel[=:]([+\d\s\-()]+)`),
		regexp.MustCompile(`(\+33[1-9][\d\s\-.]{8,})`),
	}

	nameSeparators = strings.NewReplacer("+", " ", "-", " ", "_", " ")
)

// URLParser extracts what a Maps link carries by itself: the place name,
// coordinates, the place identifier and sometimes a phone number. It makes
// no network calls.
type URLParser struct{}

func (URLParser) Name() string { return "url" }

// Suggest implements Provider.
func (URLParser) Suggest(_ context.Context, mapsURL string) (*models.PartialProfile, error) {
	mapsURL = strings.TrimSpace(mapsURL)
	if !IsMapsURL(mapsURL) {
		return nil, ErrInvalidURL
	}

	p := &models.PartialProfile{Sources: []string{"url"}}

	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(mapsURL); m != nil {
			p.Name = placeName(m[1])
			break
		}
	}

	for _, re := range coordPatterns {
		if m := re.FindStringSubmatch(mapsURL); m != nil {
			lat, errLat := strconv.ParseFloat(m[1], 64)
			lng, errLng := strconv.ParseFloat(m[2], 64)
			if errLat == nil && errLng == nil {
				p.Latitude, p.Longitude = lat, lng
				break
			}
		}
	}

	for _, re := range placeIDPatterns {
		if m := re.FindStringSubmatch(mapsURL); m != nil {
			p.PlaceID = m[1]
			break
		}
	}

	for _, re := range phonePatterns {
		if m := re.FindStringSubmatch(mapsURL); m != nil {
			p.Phone = CleanPhone(m[1])
			break
		}
	}

	return p, nil
}

// IsMapsURL reports whether s looks like a Google Maps place link.
func IsMapsURL(s string) bool {
	return strings.Contains(s, "google.") && strings.Contains(s, "/maps") &&
		(strings.Contains(s, "place/") || strings.Contains(s, "search/") || strings.Contains(s, "dir/"))
}

func placeName(segment string) string {
	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}
	return strings.Join(strings.Fields(nameSeparators.Replace(segment)), " ")
}
