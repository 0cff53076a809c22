// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Sessions live in memory and the generation log in an in-memory SQLite
// database, so no external service is needed.
package handlers

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"

	"salonsite/internal/archive"
	"salonsite/internal/assets"
	"salonsite/internal/database"
	"salonsite/internal/engine"
	"salonsite/internal/middleware"
	"salonsite/internal/models"
	"salonsite/internal/pipeline"
	"salonsite/internal/render"
	"salonsite/internal/session"
	"salonsite/internal/store"
	"salonsite/internal/suggest"
	"salonsite/internal/theme"
)

// stubSuggester returns a fixed profile or error.
type stubSuggester struct {
	profile *models.PartialProfile
	err     error
	gotURL  string
}

func (s *stubSuggester) Name() string { return "stub" }

func (s *stubSuggester) Suggest(_ context.Context, mapsURL string) (*models.PartialProfile, error) {
	s.gotURL = mapsURL
	return s.profile, s.err
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Sessions    *session.Store
	Registry    *theme.Registry
	Gate        *pipeline.Gate
	Generations *store.GenerationStore
	Suggester   *stubSuggester
	Site        *Site
	API         *API
	Router      http.Handler

	cookies []*http.Cookie
}

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"css/site.css": {Data: []byte("body{}")},
		"js/site.js":   {Data: []byte("//")},
		"img/hero.jpg": {Data: []byte("default hero")},
		"img/logo.png": {Data: []byte("default logo")},
	}
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New(false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	db, err := database.Connect(context.Background(), database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("database.Connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	generations := store.NewGenerationStore(db)

	src := assets.NewFS(siteFS())
	registry := theme.NewRegistry(src)
	clock := func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	gen := pipeline.New(registry, engine.New(engine.WithClock(clock)),
		archive.New(src, archive.WithClock(clock)), pipeline.WithLog(generations))
	gate := pipeline.NewGate(2)
	sessions := session.NewStore(session.NewMemory(), time.Hour, false)
	suggester := &stubSuggester{}

	site := NewSite(renderer, registry, gen, gate, sessions, true)
	api := NewAPI(registry, suggester, generations)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/variants", api.Variants)
		r.Post("/suggest", api.Suggest)
		r.Get("/generations", api.Generations)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(sessions, site.PickVariant))
		r.Get("/", site.Index)
		r.Post("/upload/{slot}", site.Upload)
		r.Post("/upload/{slot}/clear", site.ClearUpload)
		r.Post("/generate", site.Generate)
		r.Get("/preview", site.Preview)
		r.Post("/reset", site.Reset)
	})

	return &testEnv{
		Sessions:    sessions,
		Registry:    registry,
		Gate:        gate,
		Generations: generations,
		Suggester:   suggester,
		Site:        site,
		API:         api,
		Router:      r,
	}
}

// do sends req through the router, replaying and recording the session
// cookie like a browser would.
func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name != session.CookieName {
			continue
		}
		if c.MaxAge < 0 {
			e.cookies = nil
			continue
		}
		e.cookies = []*http.Cookie{c}
	}
	return rec
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (e *testEnv) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

// current returns the session bound to the recorded cookie.
func (e *testEnv) current(t *testing.T) *models.Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	sess, _, err := e.Sessions.Load(context.Background(), httptest.NewRecorder(), req, models.DefaultVariant)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return sess
}

// uploadFile describes one part of a multipart upload.
type uploadFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, target string, files ...uploadFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.Copy(part, bytes.NewReader(f.data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func salonForm() url.Values {
	return url.Values{
		"salonName": {"Salon Dupont"},
		"phone":     {"01 45 55 12 34"},
		"address":   {"12 Rue de Paris, 75001 Paris"},
		"email":     {"contact@dupont.fr"},
	}
}

var _ suggest.Provider = (*stubSuggester)(nil)
