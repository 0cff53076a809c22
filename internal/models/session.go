// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Flash is a one-time notification shown on the next form render.
type Flash struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// Session is the session-scoped context object handed to every pipeline
// stage. It is the only holder of the chosen variant and the uploads.
type Session struct {
	ID           string    `json:"id"`
	Variant      VariantID `json:"variant"`
	Images       *ImageSet `json:"images"`
	LastDocument string    `json:"last_document,omitempty"`
	LastFilename string    `json:"last_filename,omitempty"`
	Flashes      []Flash   `json:"flashes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSession returns a session bound to the given variant.
func NewSession(id string, variant VariantID) *Session {
	return &Session{
		ID:        id,
		Variant:   variant,
		Images:    NewImageSet(),
		CreatedAt: time.Now(),
	}
}

// AddFlash queues a message for the next page render.
func (s *Session) AddFlash(kind, msg string) {
	s.Flashes = append(s.Flashes, Flash{Type: kind, Message: msg})
}

// PopFlashes returns and clears the queued messages.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}
