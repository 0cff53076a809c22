// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"salonsite/internal/models"
	"salonsite/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// SessionKey is the context key for the visitor session.
const SessionKey contextKey = "session"

// VariantPicker chooses the variant a new session is bound to.
type VariantPicker func(r *http.Request) models.VariantID

// LoadSession loads the visitor session, creating it on first contact, and
// stores it in the request context. pick is consulted only when a new
// session is created, so the variant never changes within a session. A
// backend failure is answered with 503 since no form action works
// without a session.
func LoadSession(store *session.Store, pick VariantPicker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			variant := models.DefaultVariant
			if pick != nil {
				variant = pick(r)
			}

			sess, created, err := store.Load(r.Context(), w, r, variant)
			if err != nil {
				slog.Error("failed to load session", "path", r.URL.Path, "error", err)
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
			if created {
				slog.Debug("session created", "variant", sess.Variant)
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromCtx extracts the session from the request context. Returns
// nil if LoadSession did not run.
func SessionFromCtx(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(SessionKey).(*models.Session)
	return sess
}
