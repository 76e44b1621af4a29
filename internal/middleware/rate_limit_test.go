package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	clientID := "192.0.2.1"

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		if !rl.Allow(clientID) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	// 6th request should be rate limited (exceeded burst)
	if rl.Allow(clientID) {
		t.Error("Request 6 should be rate limited")
	}
}

func TestRateLimiter_DifferentClients(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	client1 := "192.0.2.1"
	client2 := "192.0.2.2"

	// Exhaust client1's burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(client1) {
			t.Errorf("Client1 request %d should be allowed", i+1)
		}
	}

	// Client1 should be rate limited
	if rl.Allow(client1) {
		t.Error("Client1 should be rate limited")
	}

	// Client2 should still have its full burst
	for i := 0; i < 3; i++ {
		if !rl.Allow(client2) {
			t.Errorf("Client2 request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_DefaultsForInvalidConfig(t *testing.T) {
	rl := NewRateLimiterWithConfig(0, -1)
	defer rl.Stop()

	if rl.requestsPerMinute != DefaultRateLimit {
		t.Errorf("Expected rate %d, got %d", DefaultRateLimit, rl.requestsPerMinute)
	}
	if rl.burstSize != DefaultBurstSize {
		t.Errorf("Expected burst %d, got %d", DefaultBurstSize, rl.burstSize)
	}
}

func TestRateLimiter_RemoveStale(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 1)
	defer rl.Stop()

	rl.Allow("192.0.2.1")
	if rl.Allow("192.0.2.1") {
		t.Fatal("Expected burst of 1 to be exhausted")
	}

	rl.removeStale(time.Now().Add(LimiterTTL + time.Minute))

	// A fresh limiter has its full burst again
	if !rl.Allow("192.0.2.1") {
		t.Error("Expected stale limiter to be removed")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware_LimitsPerClientIP(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 2) // Small burst for testing
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	newRequest := func(ip string) (*httptest.ResponseRecorder, echo.Context) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		return rec, e.NewContext(req, rec)
	}

	// First 2 requests should succeed (burst)
	for i := 0; i < 2; i++ {
		rec, c := newRequest("192.0.2.10")
		if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
			t.Fatalf("Request %d: Expected no error, got %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("Request %d: Expected X-RateLimit-Limit 10, got %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	// 3rd request should be rate limited
	rec, c := newRequest("192.0.2.10")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}

	var problem problemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to decode problem details: %v", err)
	}
	if problem.Type != errorTypeRateLimit || problem.Status != http.StatusTooManyRequests {
		t.Errorf("Unexpected problem details: %+v", problem)
	}
	if problem.Instance != "/api/v1/goals" {
		t.Errorf("Expected instance /api/v1/goals, got %q", problem.Instance)
	}

	// Another client is not affected
	rec, c = newRequest("192.0.2.11")
	if err := RateLimitMiddleware(rl)(handler)(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for a different client, got %d", rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil)
	req.RemoteAddr = "127.0.0.1:5000"
	if got := ClientKey(e.NewContext(req, httptest.NewRecorder())); got != "ip:127.0.0.1" {
		t.Errorf("Expected ip key, got %q", got)
	}

	req.Header.Set(ClientIDHeader, "  window-1 ")
	if got := ClientKey(e.NewContext(req, httptest.NewRecorder())); got != "id:window-1" {
		t.Errorf("Expected client id key, got %q", got)
	}

	req.Header.Set(ClientIDHeader, strings.Repeat("x", 65))
	if got := ClientKey(e.NewContext(req, httptest.NewRecorder())); got != "ip:127.0.0.1" {
		t.Errorf("Expected oversized client id to fall back to ip, got %q", got)
	}
}

func TestRateLimitMiddleware_SeparatesClientIDsOnLoopback(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiterWithConfig(10, 1)
	defer rl.Stop()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	call := func(clientID string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/goals/1/deposits", nil)
		req.RemoteAddr = "127.0.0.1:40000"
		if clientID != "" {
			req.Header.Set(ClientIDHeader, clientID)
		}
		rec := httptest.NewRecorder()
		if err := RateLimitMiddleware(rl)(handler)(e.NewContext(req, rec)); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		return rec.Code
	}

	if code := call("window-1"); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if code := call("window-1"); code != http.StatusTooManyRequests {
		t.Errorf("Expected window-1 to be limited, got %d", code)
	}
	if code := call("window-2"); code != http.StatusOK {
		t.Errorf("Expected window-2 to have its own bucket, got %d", code)
	}

	// Requests without an id share the loopback bucket
	if code := call(""); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if code := call(""); code != http.StatusTooManyRequests {
		t.Errorf("Expected shared loopback bucket to be limited, got %d", code)
	}
}
