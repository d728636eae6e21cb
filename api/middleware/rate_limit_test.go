package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/farmfresh-backend/pkg/config"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	handler := RateLimit(NewVisitorLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}), nil)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitKeysByUser(t *testing.T) {
	handler := RateLimit(NewVisitorLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}), nil)(okHandler())

	for _, user := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.RemoteAddr = "10.0.0.2:4000"
		req = req.WithContext(WithUserID(req.Context(), user))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "user %s", user)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	require.Nil(t, NewVisitorLimiter(config.RateLimitConfig{Burst: 3}))
	handler := RateLimit(nil, nil)(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitSharedAcrossRoutes(t *testing.T) {
	limiter := NewVisitorLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(RateLimit(limiter, nil))
		r.Get("/a", okHandlerFunc)
		r.Get("/b", okHandlerFunc)
	})
	r.Group(func(r chi.Router) {
		r.Use(RateLimit(limiter, nil))
		r.Get("/c", okHandlerFunc)
	})

	codes := make([]int, 0, 3)
	for _, path := range []string{"/a", "/b", "/c"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.3:4000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestVisitorLimiterEvictsIdleCallers(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewVisitorLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	l.now = func() time.Time { return now }

	require.True(t, l.allow("ip:1"))
	now = now.Add(2 * visitorIdleTTL)
	require.True(t, l.allow("ip:2"))
	require.Len(t, l.visitors, 1)
}
