// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store records generation attempts in the optional audit log.
// Each entry captures the variant, outcome, warning counts and archive
// size of one run; no profile field other than the salon name is kept.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"salonsite/internal/models"
)

// GenerationStore handles generation log operations.
type GenerationStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewGenerationStore creates a new GenerationStore.
func NewGenerationStore(db *sql.DB) *GenerationStore {
	return &GenerationStore{db: db, now: time.Now}
}

// Record inserts one generation entry, filling ID and CreatedAt when unset.
func (s *GenerationStore) Record(ctx context.Context, g *models.Generation) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}
	g.CreatedAt = g.CreatedAt.UTC().Truncate(time.Millisecond)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (id, session_id, variant, salon_name, status,
			warnings, leftover_tokens, archive_bytes, duration_ms, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, g.ID.String(), g.SessionID, string(g.Variant), g.SalonName, string(g.Status),
		g.Warnings, g.LeftoverTokens, g.ArchiveBytes, g.Duration.Milliseconds(), g.Error, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}

	slog.Debug("generation logged",
		"id", g.ID,
		"variant", g.Variant,
		"status", g.Status,
	)
	return nil
}

// Recent returns the most recent generations, newest first.
func (s *GenerationStore) Recent(ctx context.Context, limit int) ([]models.Generation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, variant, salon_name, status, warnings,
			leftover_tokens, archive_bytes, duration_ms, error, created_at
		FROM generations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var out []models.Generation
	for rows.Next() {
		var (
			g          models.Generation
			id         string
			variant    string
			status     string
			durationMS int64
		)
		if err := rows.Scan(&id, &g.SessionID, &variant, &g.SalonName, &status, &g.Warnings,
			&g.LeftoverTokens, &g.ArchiveBytes, &durationMS, &g.Error, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		if g.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("scan generation id: %w", err)
		}
		g.Variant = models.VariantID(variant)
		g.Status = models.GenerationStatus(status)
		g.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, g)
	}
	return out, rows.Err()
}

// VariantCount is the number of successful generations of one variant.
type VariantCount struct {
	Variant models.VariantID `json:"variant"`
	Count   int              `json:"count"`
}

// CountByVariant returns successful generations per variant, most used first.
func (s *GenerationStore) CountByVariant(ctx context.Context) ([]VariantCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT variant, COUNT(*) AS n
		FROM generations
		WHERE status = $1
		GROUP BY variant
		ORDER BY n DESC, variant
	`, string(models.GenerationSucceeded))
	if err != nil {
		return nil, fmt.Errorf("count generations: %w", err)
	}
	defer rows.Close()

	var out []VariantCount
	for rows.Next() {
		var (
			c       VariantCount
			variant string
		)
		if err := rows.Scan(&variant, &c.Count); err != nil {
			return nil, fmt.Errorf("scan generation count: %w", err)
		}
		c.Variant = models.VariantID(variant)
		out = append(out, c)
	}
	return out, rows.Err()
}
