package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: map[string]int64{}}
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	count := f.counts[scope]
	return count <= limit, count, nil
}

func loginPolicy(ipLimit, identifierLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		Name:            "login",
		Window:          time.Minute,
		IPLimit:         ipLimit,
		IdentifierLimit: identifierLimit,
		IdentifierField: "identifier",
	}
}

func postForm(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "1.2.3.4:5678"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestAuthRateLimitAllowsUnderLimit(t *testing.T) {
	limiter := newFakeLimiter()
	handler := AuthRateLimit(limiter, loginPolicy(5, 5), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), "identifier=shopper") {
			t.Fatalf("body not restored: %q", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	resp := postForm(handler, "identifier=shopper&password=secret123")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAuthRateLimitIdentifierLimitTriggers(t *testing.T) {
	limiter := newFakeLimiter()
	handler := AuthRateLimit(limiter, loginPolicy(0, 2), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		resp := postForm(handler, "identifier=blocked%40example.com&password=secret123")
		if i < 2 && resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, resp.Code)
		}
		if i >= 2 && resp.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d: expected 429 got %d", i, resp.Code)
		}
	}
}

func TestAuthRateLimitIPLimitTriggers(t *testing.T) {
	limiter := newFakeLimiter()
	handler := AuthRateLimit(limiter, loginPolicy(1, 0), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if resp := postForm(handler, "identifier=a&password=b"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp := postForm(handler, "identifier=b&password=c"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitFailsOpen(t *testing.T) {
	limiter := newFakeLimiter()
	limiter.err = errors.New("redis down")
	handler := AuthRateLimit(limiter, loginPolicy(1, 1), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		if resp := postForm(handler, "identifier=a&password=b"); resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
}

func TestAuthRateLimitRestoresOversizedBodyIntact(t *testing.T) {
	limiter := newFakeLimiter()
	padding := strings.Repeat("x", maxInspectedBodyBytes)
	body := "identifier=shopper&password=secret123&note=" + padding

	var seen int
	handler := AuthRateLimit(limiter, loginPolicy(5, 5), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		seen = len(got)
		if !strings.HasSuffix(string(got), padding) {
			t.Fatal("body tail truncated")
		}
		w.WriteHeader(http.StatusOK)
	}))

	resp := postForm(handler, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if seen != len(body) {
		t.Fatalf("expected handler to see %d bytes, got %d", len(body), seen)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Fatalf("expected forwarded ip got %s", ip)
	}

	req.Header.Del("X-Forwarded-For")
	if ip := clientIP(req); ip != "10.0.0.1" {
		t.Fatalf("expected remote addr host got %s", ip)
	}
}
