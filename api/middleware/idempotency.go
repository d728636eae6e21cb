package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/farmfresh-backend/pkg/redis"
)

// IdempotencyHeader carries the client supplied replay key.
const IdempotencyHeader = "Idempotency-Key"

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

type idempotencyRule struct {
	ttl      time.Duration
	required bool
}

// idempotencyRules is keyed by "METHOD pattern" using chi route patterns.
var idempotencyRules = map[string]idempotencyRule{
	"POST /api/v1/checkout":                      {ttl: criticalIdempotencyTTL, required: true},
	"PUT /api/v1/farmer/orders/{orderId}/status": {ttl: criticalIdempotencyTTL},
	"POST /api/v1/auth/register":                 {ttl: defaultIdempotencyTTL},
	"POST /api/v1/products":                      {ttl: defaultIdempotencyTTL},
	"POST /api/v1/addresses":                     {ttl: defaultIdempotencyTTL},
	"POST /api/v1/cart/items":                    {ttl: defaultIdempotencyTTL},
}

func matchRule(method, pattern string) (idempotencyRule, bool) {
	rule, ok := idempotencyRules[method+" "+pattern]
	return rule, ok
}

// storedResponse is what gets written to redis for a completed request.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

func (s storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

// Idempotency stores the first non-5xx response for a (caller, method, path,
// key) tuple and replays it when the same key arrives with the same body.
// The same key with a different body is rejected.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			pattern := routePattern(r)
			rule, ok := matchRule(r.Method, pattern)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if clientKey == "" {
				if rule.required {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintOf(body)
			key := store.IdempotencyKey(strings.Join([]string{UserIDFromContext(ctx), r.Method, r.URL.Path}, "|"), clientKey)

			raw, err := store.Get(ctx, key)
			switch {
			case err == nil:
				var prior storedResponse
				if err := json.Unmarshal([]byte(raw), &prior); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if prior.Fingerprint != fingerprint {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				if logg != nil {
					logg.Info(logg.WithField(ctx, "route", pattern), "idempotency.replayed")
				}
				prior.replay(w)
				return
			case !pkgredis.IsNil(err):
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}

			capture := &bodyCapture{statusRecorder: statusRecorder{ResponseWriter: w}}
			next.ServeHTTP(capture, r)

			// a failed attempt may be retried under the same key
			status := capture.status
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}

			payload, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				Fingerprint: fingerprint,
			})
			if err == nil {
				_, err = store.SetNX(ctx, key, string(payload), rule.ttl)
			}
			if err != nil && logg != nil {
				logg.Error(logg.WithField(ctx, "route", pattern), "idempotency.persist_failed", err)
			}
		})
	}
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// routePattern prefers the matched chi pattern so metrics and rules do not
// fan out per id.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// bodyCapture tees the response body so it can be stored after the handler returns.
type bodyCapture struct {
	statusRecorder
	body bytes.Buffer
}

func (c *bodyCapture) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.statusRecorder.Write(b)
}
