package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 2})
	defer rl.Stop()

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request in the window should be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("other clients are independent")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("10.0.0.1") {
		t.Fatal("a new window should reset the count")
	}

	m := rl.GetMetrics()
	if m.Rejected != 1 || m.ClientCount != 2 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestLimiter_CleanupStaleEntries(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	defer rl.Stop()

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.Allow("10.0.0.1")

	now = now.Add(11 * time.Minute)
	rl.cleanupStaleEntries()

	if got := rl.GetMetrics().ClientCount; got != 0 {
		t.Errorf("client count = %d, want 0", got)
	}
}

func TestLimiter_MiddlewareOnlyLimitsWrites(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	h := rl.Middleware(func(*http.Request) string { return "client" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("GET %d: status %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first PUT: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/days/2024-03-01", nil))
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("second write: status %d", rec.Code)
	}
}
