// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides cookie-identified form sessions. The payload
// (chosen variant, accepted uploads, last generated document) is stored as
// JSON in memory or in Valkey with automatic TTL expiry. Sessions are never
// shared: each one is created on the first request without a valid cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"salonsite/internal/models"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "salonsite_session"

	// DefaultTTL is how long an idle session lives before expiry.
	DefaultTTL = 2 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// ErrNotFound is returned by backends for unknown or expired sessions.
var ErrNotFound = errors.New("session: not found")

// Backend persists session payloads.
type Backend interface {
	Load(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Store manages the session lifecycle on top of a backend.
type Store struct {
	backend Backend
	ttl     time.Duration
	secure  bool

	// locks serializes read-modify-write cycles of one session within this
	// process.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a session store. secure marks the cookie Secure for
// deployments behind TLS.
func NewStore(backend Backend, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, ttl: ttl, secure: secure, locks: map[string]*sync.Mutex{}}
}

// Load returns the session of the request cookie. A missing, unknown or
// expired session is replaced by a new one bound to variant; the cookie is
// then set on w. The boolean reports whether the session is new.
func (s *Store) Load(ctx context.Context, w http.ResponseWriter, r *http.Request, variant models.VariantID) (*models.Session, bool, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		sess, err := s.backend.Load(ctx, cookie.Value)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, fmt.Errorf("session load: %w", err)
		}
	}

	id, err := generateID()
	if err != nil {
		return nil, false, fmt.Errorf("session create: %w", err)
	}
	sess := models.NewSession(id, variant)
	if err := s.backend.Save(ctx, sess, s.ttl); err != nil {
		return nil, false, fmt.Errorf("session create: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return sess, true, nil
}

// Save stores the session and resets its TTL.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	if err := s.backend.Save(ctx, sess, s.ttl); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Update reloads the session, applies fn and saves the result while
// holding the per-session lock. If fn returns an error nothing is saved.
func (s *Store) Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	l := s.lock(id)
	l.Lock()
	defer l.Unlock()

	sess, err := s.backend.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session update: %w", err)
	}
	if err := fn(sess); err != nil {
		return sess, err
	}
	if err := s.backend.Save(ctx, sess, s.ttl); err != nil {
		return nil, fmt.Errorf("session update: %w", err)
	}
	return sess, nil
}

// Destroy removes the session and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.backend.Delete(ctx, cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	s.mu.Lock()
	delete(s.locks, cookie.Value)
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

func (s *Store) lock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
