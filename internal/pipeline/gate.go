// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when the session already has a generation in flight.
var ErrBusy = errors.New("pipeline: generation already in progress for this session")

// Gate admits at most one generation per session and caps the number of
// generations running at once across all sessions.
type Gate struct {
	mu       sync.Mutex
	sessions map[string]*semaphore.Weighted
	global   *semaphore.Weighted
}

// NewGate creates a gate. maxConcurrent <= 0 removes the global cap.
func NewGate(maxConcurrent int) *Gate {
	g := &Gate{sessions: map[string]*semaphore.Weighted{}}
	if maxConcurrent > 0 {
		g.global = semaphore.NewWeighted(int64(maxConcurrent))
	}
	return g
}

// Acquire reserves the session's slot without waiting, then waits for a
// global slot. The returned release must be called exactly once.
func (g *Gate) Acquire(ctx context.Context, sessionID string) (release func(), err error) {
	g.mu.Lock()
	sem, ok := g.sessions[sessionID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		g.sessions[sessionID] = sem
	}
	if !sem.TryAcquire(1) {
		g.mu.Unlock()
		return nil, ErrBusy
	}
	g.mu.Unlock()

	releaseSession := func() {
		g.mu.Lock()
		delete(g.sessions, sessionID)
		sem.Release(1)
		g.mu.Unlock()
	}

	if g.global != nil {
		if err := g.global.Acquire(ctx, 1); err != nil {
			releaseSession()
			return nil, fmt.Errorf("pipeline: wait for a generation slot: %w", err)
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if g.global != nil {
				g.global.Release(1)
			}
			releaseSession()
		})
	}, nil
}

// InFlight returns the number of sessions currently generating.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}
