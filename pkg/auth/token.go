package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

var signingMethod = jwt.SigningMethodHS256

var errMissingSecret = errors.New("jwt secret is required")

// MintAccessToken signs an HS256 access token for payload, valid for the
// configured number of minutes from now. A blank JTI gets a fresh uuid.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkMintable(cfg, payload); err != nil {
		return "", err
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	ttl := time.Duration(cfg.ExpirationMinutes) * time.Minute

	claims := AccessTokenClaims{
		UserID:   payload.UserID,
		UserType: payload.UserType,
		FarmerID: payload.FarmerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   payload.UserID.String(),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

func checkMintable(cfg config.JWTConfig, payload AccessTokenPayload) error {
	switch {
	case cfg.Secret == "":
		return errMissingSecret
	case cfg.Issuer == "":
		return errors.New("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return errors.New("jwt expiration minutes must be positive")
	case payload.UserID == uuid.Nil:
		return errors.New("user id is required")
	case !payload.UserType.IsValid():
		return fmt.Errorf("invalid user type %q", payload.UserType)
	case payload.FarmerID != nil && payload.UserType != enums.UserTypeFarmer:
		return errors.New("farmer id is only valid for farmer tokens")
	}
	return nil
}

// ParseAccessToken verifies signature, issuer and expiry.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*AccessTokenClaims, error) {
	return parse(cfg, raw, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
}

// ParseAccessTokenAllowExpired verifies signature and issuer only. Refresh
// uses it to recover the jti of a token that has already lapsed.
func ParseAccessTokenAllowExpired(cfg config.JWTConfig, raw string) (*AccessTokenClaims, error) {
	claims, err := parse(cfg, raw, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	// claim validation is off, so the issuer is compared by hand.
	if claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", jwt.ErrTokenInvalidIssuer, claims.Issuer)
	}
	return claims, nil
}

func parse(cfg config.JWTConfig, raw string, extra ...jwt.ParserOption) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, errMissingSecret
	}
	opts := append([]jwt.ParserOption{jwt.WithValidMethods([]string{signingMethod.Alg()})}, extra...)

	claims := &AccessTokenClaims{}
	if _, err := jwt.NewParser(opts...).ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		return nil, err
	}
	if !claims.UserType.IsValid() {
		return nil, fmt.Errorf("token carries invalid user type %q", claims.UserType)
	}
	return claims, nil
}
