package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]any{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func findRecord(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	for _, rec := range logRecords(t, buf) {
		if rec["msg"] == msg {
			return rec
		}
	}
	t.Fatalf("no %q record in:\n%s", msg, buf.String())
	return nil
}

func TestLoggerCarriesRequestID(t *testing.T) {
	buf := captureLogs(t)

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<section>preview</section>"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/preview", nil)
	req.Header.Set(chimw.RequestIDHeader, "gen-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	rec := findRecord(t, buf, "http request")
	if rec["request_id"] != "gen-42" {
		t.Errorf("request_id = %v, want gen-42", rec["request_id"])
	}
	if rec["path"] != "/preview" {
		t.Errorf("path = %v", rec["path"])
	}
}

func TestLoggerStatusAndLevel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		level  string
	}{
		{"implicit ok", 0, "<html></html>", "INFO"},
		{"validation", http.StatusUnprocessableEntity, "champ requis", "INFO"},
		{"archive failure", http.StatusInternalServerError, "erreur", "ERROR"},
		{"storage down", http.StatusServiceUnavailable, "", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				w.Write([]byte(tt.body))
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/generate", nil))

			rec := findRecord(t, buf, "http request")
			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			if got := int(rec["status"].(float64)); got != want {
				t.Errorf("status = %d, want %d", got, want)
			}
			if got := int(rec["bytes"].(float64)); got != len(tt.body) {
				t.Errorf("bytes = %d, want %d", got, len(tt.body))
			}
			if rec["level"] != tt.level {
				t.Errorf("level = %v, want %s", rec["level"], tt.level)
			}
		})
	}
}

func TestLoggerWrapsRecoverer(t *testing.T) {
	buf := captureLogs(t)

	h := chimw.RequestID(Logger(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("zip writer closed")
	}))))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	panicRec := findRecord(t, buf, "panic recovered")
	reqRec := findRecord(t, buf, "http request")
	if panicRec["request_id"] == "" || panicRec["request_id"] != reqRec["request_id"] {
		t.Errorf("request ids differ: panic %v, request %v", panicRec["request_id"], reqRec["request_id"])
	}
	if reqRec["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", reqRec["level"])
	}
}

func TestResponseWriterUnwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}
	if rw.Unwrap() != rr {
		t.Fatal("Unwrap does not return the underlying writer")
	}
	if err := http.NewResponseController(rw).Flush(); err != nil {
		t.Errorf("Flush through wrapper: %v", err)
	}
}
