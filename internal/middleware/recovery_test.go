package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRecovererLogsRequestContext(t *testing.T) {
	buf := captureLogs(t)

	h := chimw.RequestID(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("merge: nil profile"))
	})))
	req := httptest.NewRequest(http.MethodPost, "/upload/hero", nil)
	req.Header.Set(chimw.RequestIDHeader, "up-7")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "nil profile") {
		t.Error("panic value leaked into the response body")
	}

	rec := findRecord(t, buf, "panic recovered")
	if rec["request_id"] != "up-7" {
		t.Errorf("request_id = %v, want up-7", rec["request_id"])
	}
	if rec["path"] != "/upload/hero" || rec["method"] != http.MethodPost {
		t.Errorf("method/path = %v %v", rec["method"], rec["path"])
	}
	if s, _ := rec["stack"].(string); s == "" {
		t.Error("stack missing from log record")
	}
}

func TestRecovererRepanicsAbortHandler(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", v)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/download", nil))
	t.Error("ErrAbortHandler was swallowed")
}
