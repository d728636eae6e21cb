package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

// countingLimiter mimics the redis fixed window without expiry.
type countingLimiter struct {
	mu     sync.Mutex
	hits   map[string]int64
	scopes []string
	err    error
}

func (c *countingLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, 0, c.err
	}
	if c.hits == nil {
		c.hits = map[string]int64{}
	}
	c.hits[scope]++
	c.scopes = append(c.scopes, scope)
	return c.hits[scope] <= limit, c.hits[scope], nil
}

func authAttempt(h http.Handler, ip, email string) *httptest.ResponseRecorder {
	body := `{"email":"` + email + `","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = ip + ":4100"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okHandlerFunc(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuthRateLimitPassesBodyThrough(t *testing.T) {
	limiter := &countingLimiter{}
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 5)
	var seen string
	h := AuthRateLimit(policy, limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	if rec := authAttempt(h, "10.0.0.1", "grower@example.com"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(seen, `"email":"grower@example.com"`) {
		t.Fatalf("handler should still see the original body, got %q", seen)
	}
	if len(limiter.scopes) != 2 {
		t.Fatalf("expected ip and email counters, got %v", limiter.scopes)
	}
}

func TestAuthRateLimitBlocksPastLimit(t *testing.T) {
	cases := []struct {
		name    string
		ipMax   int
		mailMax int
		ips     []string
		emails  []string
		blocked int
	}{
		{"per email across ips", 0, 2, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, []string{"a@x.io", "a@x.io", "a@x.io"}, 2},
		{"per ip across emails", 1, 0, []string{"10.0.0.9", "10.0.0.9"}, []string{"a@x.io", "b@x.io"}, 1},
		{"email case folded", 0, 1, []string{"10.0.0.4", "10.0.0.5"}, []string{"Asha@Example.com", "  asha@example.com "}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, tc.ipMax, tc.mailMax), &countingLimiter{}, nil)(http.HandlerFunc(okHandlerFunc))
			for i := range tc.ips {
				rec := authAttempt(h, tc.ips[i], tc.emails[i])
				want := http.StatusOK
				if i >= tc.blocked {
					want = http.StatusTooManyRequests
				}
				if rec.Code != want {
					t.Fatalf("attempt %d: expected %d, got %d", i, want, rec.Code)
				}
				if rec.Code == http.StatusTooManyRequests {
					var env struct {
						Error struct {
							Code string `json:"code"`
						} `json:"error"`
					}
					if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Error.Code != string(pkgerrors.CodeRateLimit) {
						t.Fatalf("expected %s envelope, got %s", pkgerrors.CodeRateLimit, rec.Body.String())
					}
				}
			}
		})
	}
}

func TestAuthRateLimitStoreFailureIsUnavailable(t *testing.T) {
	limiter := &countingLimiter{err: errors.New("redis down")}
	h := AuthRateLimit(NewAuthRateLimitPolicy("register", time.Minute, 3, 3), limiter, nil)(http.HandlerFunc(okHandlerFunc))
	if rec := authAttempt(h, "10.0.0.1", "new@x.io"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the limiter store fails, got %d", rec.Code)
	}
}

func TestAuthRateLimitDisabledPolicy(t *testing.T) {
	limiter := &countingLimiter{}
	h := AuthRateLimit(NewAuthRateLimitPolicy("login", 0, 1, 1), limiter, nil)(http.HandlerFunc(okHandlerFunc))
	for range 3 {
		if rec := authAttempt(h, "10.0.0.1", "a@x.io"); rec.Code != http.StatusOK {
			t.Fatalf("zero window should disable limiting, got %d", rec.Code)
		}
	}
	if len(limiter.scopes) != 0 {
		t.Fatalf("limiter should not be consulted, got %v", limiter.scopes)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.168.1.1:9000"
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
	req.Header.Del("X-Forwarded-For")
	if got := clientIP(req); got != "192.168.1.1" {
		t.Fatalf("expected remote host, got %q", got)
	}
}
