package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/farmfresh-backend/api/responses"
	pkgAuth "github.com/angelmondragon/farmfresh-backend/pkg/auth"
	"github.com/angelmondragon/farmfresh-backend/pkg/auth/session"
	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

// Auth validates a bearer token, checks that its session is still live and
// seeds the request context with the caller identity.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			ctx, err := authenticate(r.Context(), cfg, verifier, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the caller identity when a valid token is presented and
// otherwise lets the request through anonymously.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := BearerToken(r); token != "" {
				if ctx, err := authenticate(r.Context(), cfg, verifier, logg, token); err == nil {
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(ctx context.Context, cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger, token string) (context.Context, error) {
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(ctx, claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked")
		}
	}

	ctx = WithUserID(ctx, claims.UserID.String())
	ctx = WithUserType(ctx, claims.UserType)
	if claims.FarmerID != nil {
		ctx = WithFarmerID(ctx, claims.FarmerID.String())
	}

	if logg != nil {
		fields := map[string]any{
			"user_id":   claims.UserID.String(),
			"user_type": string(claims.UserType),
		}
		if claims.FarmerID != nil {
			fields["farmer_id"] = claims.FarmerID.String()
		}
		ctx = logg.WithFields(ctx, fields)
	}
	return ctx, nil
}

// BearerToken extracts the token from the Authorization header. A bare token
// without the scheme is accepted.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	if strings.EqualFold(raw, "bearer") {
		return ""
	}
	return raw
}
