// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine merges a salon profile and its uploaded images into a base
// document. Placeholder tokens are substituted as text; the fixed content of
// the legacy Bootstrap theme and the image references are rewritten on the
// parsed HTML tree, then the tree is serialized once.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"salonsite/internal/models"
)

// Engine performs merges. It holds no per-merge state and is safe for
// concurrent use.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for the current year.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates a merge engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one merge.
type Result struct {
	Document string

	// Leftover lists the unknown placeholder tokens still present in the
	// document, in order of first appearance.
	Leftover []string

	// Legacy counts the fixed-content fragments that were rewritten.
	Legacy int

	// Spliced counts, per default filename, the references that now carry
	// an uploaded image.
	Spliced map[string]int
}

// Merge substitutes the profile and images into markup. maxPortfolio caps
// how many portfolio images are spliced. Any failure aborts the merge and
// no partial document is returned.
func (e *Engine) Merge(markup string, p *models.SalonProfile, images *models.ImageSet, maxPortfolio int) (*Result, error) {
	if p == nil {
		return nil, errors.New("engine: nil profile")
	}

	// Markers are looked up in the base markup only: profile text must never
	// switch the legacy pass on.
	legacy := hasLegacyMarkers(markup)

	doc, leftover := e.substituteTokens(markup, p)
	res := &Result{Leftover: leftover, Spliced: map[string]int{}}

	refs := imageRefs(images, maxPortfolio)
	if len(refs) > 0 || legacy {
		tree, err := html.Parse(strings.NewReader(doc))
		if err != nil {
			return nil, fmt.Errorf("engine: parse document: %w", err)
		}

		if legacy {
			res.Legacy, err = e.rewriteLegacy(tree, p)
			if err != nil {
				return nil, fmt.Errorf("engine: legacy pass: %w", err)
			}
		}
		spliceImages(tree, refs, res.Spliced)

		var b strings.Builder
		if err := html.Render(&b, tree); err != nil {
			return nil, fmt.Errorf("engine: render document: %w", err)
		}
		doc = b.String()
	}

	res.Document = doc
	if len(leftover) > 0 {
		slog.Warn("unresolved template tokens", "tokens", leftover)
	}
	return res, nil
}
