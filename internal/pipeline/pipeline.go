// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline runs one generation: sanitize the collected fields,
// resolve the session's variant, merge, build the archive manifest and
// compress it. Stages receive snapshots; the session is never shared with
// a running generation.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"salonsite/internal/archive"
	"salonsite/internal/engine"
	"salonsite/internal/models"
	"salonsite/internal/profile"
	"salonsite/internal/theme"
)

// ErrTemplateUnavailable wraps any failure to obtain the base document.
var ErrTemplateUnavailable = errors.New("pipeline: template unavailable")

// GenerationLog receives an audit record of every finished run.
type GenerationLog interface {
	Record(ctx context.Context, g *models.Generation) error
}

// Generator wires the stages together. It is safe for concurrent use.
type Generator struct {
	registry *theme.Registry
	engine   *engine.Engine
	builder  *archive.Builder
	log      GenerationLog
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLog records every run in the generation log.
func WithLog(l GenerationLog) Option {
	return func(g *Generator) { g.log = l }
}

// WithClock sets the time source used for durations and records.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a generator.
func New(registry *theme.Registry, eng *engine.Engine, builder *archive.Builder, opts ...Option) *Generator {
	g := &Generator{registry: registry, engine: eng, builder: builder, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Request is the input of one run.
type Request struct {
	SessionID string
	Variant   models.VariantID
	Fields    profile.Raw
	Images    *models.ImageSet
}

// Result is the output of a successful run.
type Result struct {
	Profile  *models.SalonProfile
	Filename string
	Document string
	Archive  []byte
	Manifest *archive.Manifest
	Leftover []string
}

// Warnings returns the paths of the assets missing from the archive.
func (r *Result) Warnings() []string {
	if r.Manifest == nil {
		return nil
	}
	return r.Manifest.Missing()
}

// Generate runs the whole pipeline. A validation failure is returned
// before any other stage runs. Images are cloned so uploads may continue
// while the run is in progress.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	start := g.now()

	p, err := profile.Sanitize(req.Fields)
	if err != nil {
		return nil, err
	}

	res, err := g.run(ctx, req, p)
	g.record(ctx, req, p, res, err, g.now().Sub(start))
	if err != nil {
		return nil, err
	}

	slog.Info("site generated",
		"variant", req.Variant,
		"archive_bytes", len(res.Archive),
		"warnings", len(res.Warnings()),
		"leftover_tokens", len(res.Leftover),
	)
	return res, nil
}

func (g *Generator) run(ctx context.Context, req Request, p *models.SalonProfile) (*Result, error) {
	v, ok := g.registry.Lookup(req.Variant)
	if !ok {
		return nil, &theme.UnknownVariantError{Value: string(req.Variant)}
	}
	images := req.Images.Clone()

	base, err := g.registry.Resolve(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateUnavailable, err)
	}

	merged, err := g.engine.Merge(base, p, images, v.MaxPortfolio)
	if err != nil {
		return nil, fmt.Errorf("pipeline: merge: %w", err)
	}
	if v.Legacy && merged.Legacy == 0 {
		slog.Warn("fixed-content theme matched nothing, was it replaced?", "variant", v.ID)
	}

	manifest, err := g.builder.Build(ctx, merged.Document, images, v.Assets)
	if err != nil {
		return nil, fmt.Errorf("pipeline: build archive: %w", err)
	}

	var buf bytes.Buffer
	if err := archive.Write(&buf, manifest); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Result{
		Profile:  p,
		Filename: archive.Filename(p, v.ID),
		Document: merged.Document,
		Archive:  buf.Bytes(),
		Manifest: manifest,
		Leftover: merged.Leftover,
	}, nil
}

// record writes the audit entry. Logging failures never fail the run.
func (g *Generator) record(ctx context.Context, req Request, p *models.SalonProfile, res *Result, runErr error, d time.Duration) {
	if g.log == nil {
		return
	}
	entry := &models.Generation{
		SessionID: req.SessionID,
		Variant:   req.Variant,
		SalonName: p.Name,
		Status:    models.GenerationSucceeded,
		Duration:  d,
		CreatedAt: g.now(),
	}
	if runErr != nil {
		entry.Status = models.GenerationFailed
		entry.Error = runErr.Error()
	} else {
		entry.Warnings = len(res.Warnings())
		entry.LeftoverTokens = len(res.Leftover)
		entry.ArchiveBytes = int64(len(res.Archive))
	}
	if err := g.log.Record(context.WithoutCancel(ctx), entry); err != nil {
		slog.Warn("failed to log generation", "variant", req.Variant, "error", err)
	}
}
