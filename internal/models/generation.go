// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus records how a generation attempt ended.
type GenerationStatus string

const (
	GenerationSucceeded GenerationStatus = "succeeded"
	GenerationFailed    GenerationStatus = "failed"
)

// Generation is an audit record of one pipeline run. It carries no profile
// data beyond the salon name and is never used to restore a session.
type Generation struct {
	ID             uuid.UUID        `json:"id"`
	SessionID      string           `json:"-"`
	Variant        VariantID        `json:"variant"`
	SalonName      string           `json:"salon_name"`
	Status         GenerationStatus `json:"status"`
	Warnings       int              `json:"warnings"`
	LeftoverTokens int              `json:"leftover_tokens"`
	ArchiveBytes   int64            `json:"archive_bytes"`
	Duration       time.Duration    `json:"duration"`
	Error          string           `json:"error,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
