// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"salonsite/internal/models"
)

// Memory is an in-process backend. Payloads are kept as JSON so that a
// loaded session never aliases the stored one.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

// Load implements Backend.
func (m *Memory) Load(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && !m.now().Before(e.expires) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var s models.Session
	if err := json.Unmarshal(e.payload, &s); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &s, nil
}

// Save implements Backend.
func (m *Memory) Save(_ context.Context, s *models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	m.mu.Lock()
	m.entries[s.ID] = memoryEntry{payload: payload, expires: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete implements Backend.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
