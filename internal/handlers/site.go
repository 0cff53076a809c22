// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the salon form and its
// JSON API.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"salonsite/internal/intake"
	"salonsite/internal/middleware"
	"salonsite/internal/models"
	"salonsite/internal/pipeline"
	"salonsite/internal/profile"
	"salonsite/internal/render"
	"salonsite/internal/session"
	"salonsite/internal/theme"
)

const (
	// multipartMemory is how much of an upload form is kept in memory
	// before spilling to temporary files.
	multipartMemory = 32 << 20

	// previewPolicy lets the generated document load its own fonts and
	// scripts while sandboxing it from the form origin.
	previewPolicy = "default-src 'self' https: data: 'unsafe-inline'; frame-ancestors 'self'; sandbox allow-scripts allow-popups"
)

// Site groups the handlers of the salon form: page, uploads, generation
// and preview.
type Site struct {
	renderer       *render.Renderer
	registry       *theme.Registry
	generator      *pipeline.Generator
	gate           *pipeline.Gate
	sessions       *session.Store
	suggestEnabled bool
}

// NewSite creates the form handler group.
func NewSite(renderer *render.Renderer, registry *theme.Registry, generator *pipeline.Generator, gate *pipeline.Gate, sessions *session.Store, suggestEnabled bool) *Site {
	return &Site{
		renderer:       renderer,
		registry:       registry,
		generator:      generator,
		gate:           gate,
		sessions:       sessions,
		suggestEnabled: suggestEnabled,
	}
}

// PickVariant chooses the variant of a new session from the template query
// parameter. Unknown values select the default variant; Index explains the
// fallback to the visitor.
func (s *Site) PickVariant(r *http.Request) models.VariantID {
	id, err := s.registry.ParseVariant(r.URL.Query().Get("template"))
	if err != nil {
		return models.DefaultVariant
	}
	return id
}

// Index renders the form page and consumes the queued flash messages.
func (s *Site) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	var notices []models.Flash
	if q := r.URL.Query().Get("template"); q != "" {
		id, err := s.registry.ParseVariant(q)
		var uerr *theme.UnknownVariantError
		switch {
		case errors.As(err, &uerr):
			msg := fmt.Sprintf("Modèle « %s » inconnu, le modèle %s est utilisé.", uerr.Value, sess.Variant)
			if uerr.Suggestion != "" {
				msg = fmt.Sprintf("Modèle « %s » inconnu. Vouliez-vous dire « %s » ? Le modèle %s est utilisé.", uerr.Value, uerr.Suggestion, sess.Variant)
			}
			notices = append(notices, models.Flash{Type: "warning", Message: msg})
		case err == nil && id != sess.Variant:
			notices = append(notices, models.Flash{
				Type:    "info",
				Message: fmt.Sprintf("Cette session utilise déjà le modèle %s. Réinitialisez pour en changer.", sess.Variant),
			})
		}
	}

	if len(sess.Flashes) > 0 {
		updated, err := s.sessions.Update(ctx, sess.ID, func(ss *models.Session) error {
			notices = append(ss.PopFlashes(), notices...)
			return nil
		})
		if err != nil {
			slog.Warn("failed to consume flashes", "error", err)
		} else {
			sess = updated
		}
	}

	s.renderForm(w, r, http.StatusOK, sess, formState{Flashes: notices})
}

// Upload validates and stores the file(s) of one slot. Other slots are
// never touched, whatever the outcome.
func (s *Site) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	slot, ok := models.ParseSlot(chi.URLParam(r, "slot"))
	if !ok {
		msg := (&intake.ImageError{Slot: slot, Kind: intake.KindUnknownSlot}).Message()
		s.respondError(w, r, http.StatusNotFound, "Introuvable", msg)
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		status := http.StatusBadRequest
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			status = http.StatusRequestEntityTooLarge
		}
		slog.Debug("upload form rejected", "slot", slot, "error", err)
		s.uploadNotice(w, r, sess, slot, "Envoi illisible ou trop volumineux.", status)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := formFiles(r.MultipartForm, slot)
	if len(files) == 0 {
		s.uploadNotice(w, r, sess, slot, "Aucun fichier sélectionné.", http.StatusBadRequest)
		return
	}

	v, ok := s.registry.Lookup(sess.Variant)
	if !ok {
		s.renderError(w, r, http.StatusInternalServerError, "Erreur", "Modèle de session invalide.")
		return
	}
	in := intake.New(v.Rules())

	uploads := make([]intake.Upload, len(files))
	for i, fh := range files {
		uploads[i] = intake.FromFileHeader(fh)
	}

	var accepted []models.ImageAsset
	updated, err := s.sessions.Update(ctx, sess.ID, func(ss *models.Session) error {
		if slot == models.SlotPortfolio {
			batch, err := in.SubmitBatch(ss.Images, uploads)
			accepted = batch
			return err
		}
		if len(uploads) > 1 {
			return &intake.ImageError{Slot: slot, Kind: intake.KindTooManyFiles, Count: len(uploads)}
		}
		asset, err := in.Submit(ss.Images, slot, uploads[0])
		if err != nil {
			return err
		}
		accepted = []models.ImageAsset{*asset}
		return nil
	})
	if err != nil {
		if _, ok := imageErrorMessage(err); ok {
			slog.Info("upload rejected", "slot", slot, "error", err)
			s.uploadFailed(w, r, sess, slot, err, http.StatusBadRequest)
			return
		}
		slog.Error("upload failed", "slot", slot, "error", err)
		s.uploadNotice(w, r, sess, slot, "Impossible d'enregistrer l'image, réessayez.", http.StatusInternalServerError)
		return
	}

	slog.Info("upload accepted", "slot", slot, "files", len(accepted), "variant", updated.Variant)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"slot": slot, "images": uploadSummaries(accepted)})
		return
	}
	msg := fmt.Sprintf("%s : %d image(s) ajoutée(s).", v.Rules()[slot].Label, len(accepted))
	s.afterChange(w, r, updated, msg)
}

// ClearUpload removes the upload(s) of one slot.
func (s *Site) ClearUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	slot, ok := models.ParseSlot(chi.URLParam(r, "slot"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	updated, err := s.sessions.Update(ctx, sess.ID, func(ss *models.Session) error {
		ss.Images.Clear(slot)
		return nil
	})
	if err != nil {
		slog.Error("clear upload failed", "slot", slot, "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Erreur", "Impossible de retirer l'image.")
		return
	}

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.afterChange(w, r, updated, "Image retirée.")
}

// Reset destroys the session. The next request starts a fresh one, which
// may pick another variant.
func (s *Site) Reset(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session reset failed", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Erreur", "Impossible de réinitialiser la session.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Generate runs the pipeline for the submitted form and streams the ZIP
// archive back as an attachment.
func (s *Site) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Formulaire invalide", "Le formulaire envoyé est illisible.")
		return
	}
	raw := profile.Collect(r.PostForm)

	if msg := validateLengths(raw); msg != "" {
		s.renderForm(w, r, http.StatusUnprocessableEntity, sess, formState{
			Fields:  raw.Values(),
			Flashes: []models.Flash{{Type: "error", Message: msg}},
		})
		return
	}

	release, err := s.gate.Acquire(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, pipeline.ErrBusy) {
			s.respondError(w, r, http.StatusConflict, "Génération en cours", "Une génération est déjà en cours pour cette session. Patientez quelques secondes.")
			return
		}
		s.respondError(w, r, http.StatusServiceUnavailable, "Service occupé", "Le serveur est occupé, réessayez dans un instant.")
		return
	}
	defer release()

	res, err := s.generator.Generate(ctx, pipeline.Request{
		SessionID: sess.ID,
		Variant:   sess.Variant,
		Fields:    raw,
		Images:    sess.Images,
	})
	if err != nil {
		s.generateFailed(w, r, sess, raw, err)
		return
	}

	warnings := res.Warnings()
	if _, err := s.sessions.Update(context.WithoutCancel(ctx), sess.ID, func(ss *models.Session) error {
		ss.LastDocument = res.Document
		ss.LastFilename = res.Filename
		if len(warnings) > 0 {
			ss.AddFlash("warning", fmt.Sprintf("Fichiers absents de l'archive : %s", strings.Join(warnings, ", ")))
		}
		if !validColor(raw.PrimaryColor) || !validColor(raw.SecondaryColor) {
			ss.AddFlash("info", "Couleur invalide remplacée par la couleur par défaut.")
		}
		return nil
	}); err != nil {
		slog.Warn("failed to store preview", "error", err)
	}

	h := w.Header()
	h.Set("Content-Type", "application/zip")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	h.Set("Content-Length", strconv.Itoa(len(res.Archive)))
	h.Set("X-Generation-Warnings", strconv.Itoa(len(warnings)))
	if len(warnings) > 0 {
		h.Set("X-Missing-Assets", strings.Join(warnings, ","))
	}
	h.Set("X-Leftover-Tokens", strings.Join(res.Leftover, ","))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Archive); err != nil {
		slog.Debug("archive download interrupted", "error", err)
	}
}

// generateFailed maps a pipeline error to a response.
func (s *Site) generateFailed(w http.ResponseWriter, r *http.Request, sess *models.Session, raw profile.Raw, err error) {
	var vf *profile.ValidationFailure
	var uerr *theme.UnknownVariantError
	switch {
	case errors.As(err, &vf):
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "missing_fields", "missing": vf.Missing})
			return
		}
		missing := make(map[string]bool, len(vf.Missing))
		for _, f := range vf.Missing {
			missing[f] = true
		}
		s.renderForm(w, r, http.StatusUnprocessableEntity, sess, formState{Fields: raw.Values(), Missing: missing})
	case errors.As(err, &uerr):
		s.respondError(w, r, http.StatusBadRequest, "Modèle inconnu", "Le modèle de cette session n'existe pas. Réinitialisez le formulaire.")
	case errors.Is(err, pipeline.ErrTemplateUnavailable):
		slog.Error("template unavailable", "variant", sess.Variant, "error", err)
		s.respondError(w, r, http.StatusInternalServerError, "Modèle indisponible", "Le modèle n'a pas pu être chargé. Réessayez plus tard.")
	case errors.Is(err, context.Canceled):
		slog.Info("generation canceled by client", "variant", sess.Variant)
	default:
		slog.Error("generation failed", "variant", sess.Variant, "error", err)
		s.respondError(w, r, http.StatusInternalServerError, "Erreur", "La génération du site a échoué.")
	}
}

// Preview serves the last generated document of the session.
func (s *Site) Preview(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess.LastDocument == "" {
		s.renderError(w, r, http.StatusNotFound, "Aucun aperçu", "Générez d'abord votre site pour afficher l'aperçu.")
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Security-Policy", previewPolicy)
	h.Set("Cache-Control", "no-store")
	w.Write([]byte(sess.LastDocument))
}

// afterChange answers a successful form action: HTMX requests get the
// refreshed form, plain posts are redirected back with a flash.
func (s *Site) afterChange(w http.ResponseWriter, r *http.Request, sess *models.Session, msg string) {
	if render.IsHTMX(r) {
		s.renderForm(w, r, http.StatusOK, sess, formState{Flashes: []models.Flash{{Type: "success", Message: msg}}})
		return
	}
	if _, err := s.sessions.Update(r.Context(), sess.ID, func(ss *models.Session) error {
		ss.AddFlash("success", msg)
		return nil
	}); err != nil {
		slog.Warn("failed to queue flash", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// uploadFailed renders an intake error next to its slot.
func (s *Site) uploadFailed(w http.ResponseWriter, r *http.Request, sess *models.Session, slot models.Slot, err error, status int) {
	msg, _ := imageErrorMessage(err)
	s.uploadNotice(w, r, sess, slot, msg, status)
}

func (s *Site) uploadNotice(w http.ResponseWriter, r *http.Request, sess *models.Session, slot models.Slot, msg string, status int) {
	if wantsJSON(r) {
		writeJSON(w, status, map[string]any{"slot": slot, "error": msg})
		return
	}
	s.renderForm(w, r, status, sess, formState{SlotErrors: map[models.Slot]string{slot: msg}})
}

func (s *Site) respondError(w http.ResponseWriter, r *http.Request, status int, title, msg string) {
	if wantsJSON(r) {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	s.renderError(w, r, status, title, msg)
}

// formFiles returns the submitted files of a slot. The portfolio accepts
// the "files" field and falls back to "file".
func formFiles(form *multipart.Form, slot models.Slot) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	if slot == models.SlotPortfolio {
		if fs := form.File["files"]; len(fs) > 0 {
			return fs
		}
	}
	return form.File["file"]
}

// uploadSummary is the JSON view of an accepted image, without its bytes.
type uploadSummary struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Preview     string `json:"preview,omitempty"`
}

func uploadSummaries(assets []models.ImageAsset) []uploadSummary {
	out := make([]uploadSummary, len(assets))
	for i, a := range assets {
		out[i] = uploadSummary{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			Width:       a.Width,
			Height:      a.Height,
			Preview:     a.Preview,
		}
	}
	return out
}
