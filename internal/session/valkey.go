// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"salonsite/internal/models"
)

// Valkey stores sessions as JSON strings with a TTL, so several app
// instances can serve the same browser.
type Valkey struct {
	client *redis.Client
}

// NewValkey creates a backend on the given client.
func NewValkey(client *redis.Client) *Valkey {
	return &Valkey{client: client}
}

// Load implements Backend.
func (v *Valkey) Load(ctx context.Context, id string) (*models.Session, error) {
	payload, err := v.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &s, nil
}

// Save implements Backend.
func (v *Valkey) Save(ctx context.Context, s *models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := v.client.Set(ctx, keyPrefix+s.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Delete implements Backend.
func (v *Valkey) Delete(ctx context.Context, id string) error {
	if err := v.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
