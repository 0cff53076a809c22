// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxAssetSize bounds a single remote asset download.
const maxAssetSize = 20 << 20

// HTTP fetches assets relative to a base URL, e.g. a CDN hosting the theme.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP returns a source rooted at baseURL. A nil client uses a client
// with a 15 second timeout.
func NewHTTP(baseURL string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("assets: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("assets: unsupported base url scheme %q", u.Scheme)
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTP{base: u, client: client}, nil
}

// Fetch downloads one file. A 404 or 410 maps to ErrNotFound.
func (s *HTTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	clean, ok := Clean(name)
	if !ok {
		return nil, fmt.Errorf("fetch %q: %w", name, ErrNotFound)
	}
	ref, err := url.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", name, err)
	}
	target := s.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", name, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("fetch %q: %w", name, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %q: unexpected status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %q: read body: %w", name, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("fetch %q: larger than %d bytes", name, maxAssetSize)
	}
	return data, nil
}
