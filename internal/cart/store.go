package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgredis "github.com/angelmondragon/farmfresh-backend/pkg/redis"
)

type cartBackend interface {
	pkgredis.KV
	CartKey(customerID string) string
}

// Store keeps each customer's cart in Redis as a JSON item list.
type Store struct {
	backend cartBackend
	ttl     time.Duration
}

func NewStore(backend cartBackend, ttl time.Duration) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Store{backend: backend, ttl: ttl}, nil
}

// Load returns the stored cart, or an empty cart when none exists.
func (s *Store) Load(ctx context.Context, customerID uuid.UUID) (Cart, error) {
	raw, err := s.backend.Get(ctx, s.backend.CartKey(customerID.String()))
	if err != nil {
		if pkgredis.IsNil(err) {
			return Cart{}, nil
		}
		return Cart{}, err
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return Cart{Items: items}, nil
}

// Save writes the cart and refreshes its TTL. An empty cart deletes the key.
func (s *Store) Save(ctx context.Context, customerID uuid.UUID, c Cart) error {
	if c.IsEmpty() {
		return s.Clear(ctx, customerID)
	}
	payload, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.backend.Set(ctx, s.backend.CartKey(customerID.String()), string(payload), s.ttl)
}

func (s *Store) Clear(ctx context.Context, customerID uuid.UUID) error {
	return s.backend.Del(ctx, s.backend.CartKey(customerID.String()))
}
