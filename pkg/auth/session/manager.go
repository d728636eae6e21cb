// Package session keeps refresh sessions in redis, one per access token jti.
// A refresh rotates the pair: the old jti's entry is deleted and a new jti
// with a new refresh token takes its place.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	redisclient "github.com/angelmondragon/farmfresh-backend/pkg/redis"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	errNoAccessID          = errors.New("access id is required")
)

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// Owner is the account a session was opened for.
type Owner struct {
	UserID   uuid.UUID      `json:"user_id"`
	UserType enums.UserType `json:"user_type"`
}

// Rotation is what a successful refresh hands back.
type Rotation struct {
	AccessID     string
	RefreshToken string
	Owner        Owner
}

// entry is the stored form. Only a digest of the refresh token is kept.
type entry struct {
	Owner
	Digest   string    `json:"digest"`
	IssuedAt time.Time `json:"issued_at"`
}

// AccessSessionChecker is what the auth middleware needs to reject revoked tokens.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

type Manager struct {
	kv  store
	ttl time.Duration
}

// NewManager requires a refresh TTL longer than the access token lifetime so
// an expired access token can still be refreshed.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	refreshTTL := cfg.RefreshTokenTTL()
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if refreshTTL <= 0 || refreshTTL <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must be positive and exceed access token ttl (%s)", refreshTTL, accessTTL)
	}
	return &Manager{kv: client, ttl: refreshTTL}, nil
}

// NewAccessID mints the jti shared by an access token and its session key.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate opens a session for accessID and returns the opaque refresh token.
func (m *Manager) Generate(ctx context.Context, accessID string, owner Owner) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", errNoAccessID
	}
	if owner.UserID == uuid.Nil || !owner.UserType.IsValid() {
		return "", errors.New("session owner is required")
	}
	return m.open(ctx, accessID, owner)
}

// Rotate trades a valid (jti, refresh token) pair for a new one owned by the
// same account. Replaying a rotated token fails with ErrInvalidRefreshToken.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, presented string) (Rotation, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(presented) == "" {
		return Rotation{}, ErrInvalidRefreshToken
	}
	oldKey := m.kv.AccessSessionKey(oldAccessID)
	current, err := m.read(ctx, oldKey)
	if err != nil {
		return Rotation{}, err
	}
	if subtle.ConstantTimeCompare([]byte(current.Digest), []byte(digest(presented))) != 1 {
		return Rotation{}, ErrInvalidRefreshToken
	}

	rotated := Rotation{AccessID: NewAccessID(), Owner: current.Owner}
	if rotated.RefreshToken, err = m.open(ctx, rotated.AccessID, current.Owner); err != nil {
		return Rotation{}, err
	}
	if err := m.kv.Del(ctx, oldKey); err != nil {
		return Rotation{}, fmt.Errorf("drop rotated session: %w", err)
	}
	return rotated, nil
}

func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errNoAccessID
	}
	return m.kv.Del(ctx, m.kv.AccessSessionKey(accessID))
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errNoAccessID
	}
	_, err := m.kv.Get(ctx, m.kv.AccessSessionKey(accessID))
	switch {
	case err == nil:
		return true, nil
	case redisclient.IsNil(err):
		return false, nil
	default:
		return false, err
	}
}

func (m *Manager) open(ctx context.Context, accessID string, owner Owner) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	payload, err := json.Marshal(entry{Owner: owner, Digest: digest(token), IssuedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := m.kv.Set(ctx, m.kv.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// read maps a missing or unreadable entry to ErrInvalidRefreshToken.
func (m *Manager) read(ctx context.Context, key string) (entry, error) {
	raw, err := m.kv.Get(ctx, key)
	if redisclient.IsNil(err) {
		return entry{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return entry{}, err
	}
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil || e.Digest == "" {
		return entry{}, ErrInvalidRefreshToken
	}
	return e, nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
