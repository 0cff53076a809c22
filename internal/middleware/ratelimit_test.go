// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable time source for window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter("test", limit, window)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func allowed(rl *RateLimiter, key string) bool {
	ok, _ := rl.allow(key)
	return ok
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Second)

	// First 3 requests should be allowed.
	for i := 0; i < 3; i++ {
		if !allowed(rl, "test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if allowed(rl, "test-ip") {
		t.Error("4th request should be rate-limited")
	}

	// Different IP should still be allowed.
	if !allowed(rl, "other-ip") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl, clock := newTestLimiter(t, 2, 100*time.Millisecond)

	allowed(rl, "test-ip")
	clock.Advance(40 * time.Millisecond)
	allowed(rl, "test-ip")

	ok, wait := rl.allow("test-ip")
	if ok {
		t.Fatal("should be rate-limited")
	}
	if wait != 60*time.Millisecond {
		t.Errorf("wait = %v, want 60ms", wait)
	}

	clock.Advance(61 * time.Millisecond)
	if !allowed(rl, "test-ip") {
		t.Error("should be allowed once the oldest request leaves the window")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl, _ := newTestLimiter(t, 0, time.Minute)
	for i := 0; i < 100; i++ {
		if !allowed(rl, "ip") {
			t.Fatalf("request %d rejected with limiting disabled", i+1)
		}
	}
}

func TestRateLimiterStopTwice(t *testing.T) {
	rl := NewRateLimiter("test", 1, time.Second)
	rl.Stop()
	rl.Stop()
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Second)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// First 2 requests should succeed.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, rr.Code)
		}
	}

	// 3rd request should be rate-limited.
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q, want %q", rr.Header().Get("Retry-After"), "1")
	}
}

func TestRateLimiterRetryAfterAndLog(t *testing.T) {
	buf := captureLogs(t)

	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter("upload", 1, time.Minute)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/upload/portfolio", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := send(); rr.Code != http.StatusOK {
		t.Fatalf("first upload: status %d", rr.Code)
	}
	clock.Advance(20 * time.Second)
	rr := send()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second upload: status %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "40" {
		t.Errorf("Retry-After = %q, want 40", got)
	}

	rec := findRecord(t, buf, "rate limit exceeded")
	if rec["limiter"] != "upload" {
		t.Errorf("limiter = %v, want upload", rec["limiter"])
	}
	if rec["ip"] != "203.0.113.9" || rec["path"] != "/upload/portfolio" {
		t.Errorf("ip/path = %v %v", rec["ip"], rec["path"])
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for single",
			xff:        "10.0.0.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for multiple",
			xff:        "10.0.0.1, 172.16.0.1, 192.168.1.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-real-ip",
			xri:        "10.0.0.2",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.2",
		},
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:1234",
			want:       "192.168.1.1",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "remote addr no port",
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			got := clientIP(req)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 5, 50*time.Millisecond)

	allowed(rl, "ip1")
	allowed(rl, "ip2")

	clock.Advance(100 * time.Millisecond)

	rl.cleanup()

	rl.mu.RLock()
	count := len(rl.clients)
	rl.mu.RUnlock()

	if count != 0 {
		t.Errorf("cleanup should remove expired entries, got %d", count)
	}
}

// TestRateLimiterCleanupRetainsRecentEntries verifies that cleanup keeps
// entries that still have recent (non-expired) timestamps.
func TestRateLimiterCleanupRetainsRecentEntries(t *testing.T) {
	rl, clock := newTestLimiter(t, 10, 200*time.Millisecond)

	allowed(rl, "ip-old")
	allowed(rl, "ip-fresh")

	clock.Advance(250 * time.Millisecond)

	// Give "ip-fresh" a recent timestamp.
	allowed(rl, "ip-fresh")

	rl.cleanup()

	rl.mu.RLock()
	_, oldExists := rl.clients["ip-old"]
	_, freshExists := rl.clients["ip-fresh"]
	count := len(rl.clients)
	rl.mu.RUnlock()

	if oldExists {
		t.Error("ip-old should have been cleaned up (all timestamps expired)")
	}
	if !freshExists {
		t.Error("ip-fresh should still exist (has recent timestamp)")
	}
	if count != 1 {
		t.Errorf("expected 1 remaining client, got %d", count)
	}
}
