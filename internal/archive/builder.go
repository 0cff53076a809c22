// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package archive assembles the downloadable site: the merged document, the
// static assets of the variant, the uploaded images, placeholder folders and
// a README, serialized as a ZIP file.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"salonsite/internal/assets"
	"salonsite/internal/markdown"
	"salonsite/internal/models"
)

// Builder produces manifests. It is safe for concurrent use.
type Builder struct {
	src      assets.Source
	now      func() time.Time
	progress func(done, total int)
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the modification time source of the entries.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithProgress registers a callback invoked after each asset fetch.
func WithProgress(fn func(done, total int)) Option {
	return func(b *Builder) { b.progress = fn }
}

// New creates a builder reading static assets from src.
func New(src assets.Source, opts ...Option) *Builder {
	b := &Builder{src: src, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build collects every entry of the archive. Assets that cannot be fetched
// are recorded as warnings and skipped; only cancellation aborts the build.
func (b *Builder) Build(ctx context.Context, document string, images *models.ImageSet, list models.AssetList) (*Manifest, error) {
	m := newManifest(b.now())
	m.AddFile("index.html", []byte(document))

	paths := b.expand(ctx, m, list)
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("archive: build: %w", err)
		}
		data, err := b.src.Fetch(ctx, p)
		switch {
		case err == nil:
			m.AddFile(p, data)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("archive: fetch %s: %w", p, err)
		default:
			slog.Warn("asset skipped", "path", p, "error", err)
			m.Warn(p, err)
		}
		if b.progress != nil {
			b.progress(i+1, len(paths))
		}
	}

	uploaded := addUploads(m, images)

	for _, d := range list.Dirs {
		m.AddDir(d)
	}

	readme := readmeMarkdown(uploaded, m.Missing())
	m.AddFile("README.md", []byte(readme))
	page, err := markdown.Page("Site Salon Généré", readme)
	if err != nil {
		return nil, fmt.Errorf("archive: readme: %w", err)
	}
	m.AddFile("README.html", []byte(page))

	return m, nil
}

// expand resolves the asset list into concrete paths, CSS first, then JS,
// then images. Patterns expand in lexical order; duplicates are dropped.
func (b *Builder) expand(ctx context.Context, m *Manifest, list models.AssetList) []string {
	var out []string
	seen := map[string]bool{"index.html": true}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, group := range [][]string{list.CSS, list.JS, list.Images} {
		for _, name := range group {
			if !assets.IsPattern(name) {
				add(name)
				continue
			}
			g, ok := b.src.(assets.Globber)
			if !ok {
				m.Warn(name, assets.ErrGlobUnsupported)
				continue
			}
			matches, err := g.Glob(ctx, name)
			if err != nil {
				slog.Warn("asset pattern skipped", "pattern", name, "error", err)
				m.Warn(name, err)
				continue
			}
			slices.Sort(matches)
			for _, p := range matches {
				add(p)
			}
		}
	}
	return out
}

// addUploads copies the uploaded images under img/custom and returns their
// archive paths.
func addUploads(m *Manifest, images *models.ImageSet) []string {
	if images == nil {
		return nil
	}
	var out []string
	for _, slot := range models.Slots {
		if slot == models.SlotPortfolio {
			continue
		}
		a, ok := images.Get(slot)
		if !ok {
			continue
		}
		p := "img/custom/" + string(slot) + a.Extension()
		m.AddFile(p, a.Data)
		out = append(out, p)
	}
	for i := range images.Portfolio {
		a := &images.Portfolio[i]
		p := fmt.Sprintf("img/custom/portfolio-%d%s", i+1, a.Extension())
		m.AddFile(p, a.Data)
		out = append(out, p)
	}
	return out
}

func readmeMarkdown(uploaded, missing []string) string {
	var b strings.Builder
	b.WriteString(`# Site Salon Généré

Ce site a été généré automatiquement avec le Générateur de Site Salon.

## Structure du projet

- ` + "`index.html`" + ` : page principale
- ` + "`css/`" + ` : fichiers de style
- ` + "`js/`" + ` : fichiers JavaScript
- ` + "`img/`" + ` : dossier pour les images (à remplir avec vos propres images)

## Instructions

1. Remplacez les images dans le dossier ` + "`img/`" + ` par vos propres photos
2. Modifiez le fichier ` + "`index.html`" + ` si nécessaire
3. Uploadez tous les fichiers sur votre serveur web
`)

	if len(uploaded) > 0 {
		b.WriteString("\n## Vos images\n\nLes images envoyées sont intégrées à `index.html` et copiées ici :\n\n")
		for _, p := range uploaded {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	if len(missing) > 0 {
		b.WriteString("\n## Fichiers manquants\n\nCes fichiers n'ont pas pu être inclus ; ajoutez-les manuellement :\n\n")
		for _, p := range missing {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
	}

	b.WriteString("\nBonne chance avec votre nouveau site !\n")
	return b.String()
}
