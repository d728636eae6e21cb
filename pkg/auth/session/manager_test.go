package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{kv: store, ttl: time.Hour}
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	owner := Owner{UserID: uuid.New(), UserType: enums.UserTypeFarmer}

	ctx := context.Background()
	accessID := "access-123"
	token, err := manager.Generate(ctx, accessID, owner)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	raw := store.data[store.AccessSessionKey(accessID)]
	if strings.Contains(raw, token) {
		t.Fatalf("refresh token must not be stored in clear")
	}
	var stored entry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("decode stored session: %v", err)
	}
	if stored.Digest != digest(token) || stored.UserID != owner.UserID {
		t.Fatalf("unexpected stored session %+v", stored)
	}

	if _, err := manager.Rotate(ctx, accessID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	rotation, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotation.Owner != owner {
		t.Fatalf("owner not carried across rotation: %+v", rotation.Owner)
	}
	if _, exists := store.data[store.AccessSessionKey(accessID)]; exists {
		t.Fatalf("old access key left behind")
	}
	ok, err := manager.HasSession(ctx, rotation.AccessID)
	if err != nil || !ok {
		t.Fatalf("expected new session to exist, ok=%v err=%v", ok, err)
	}

	if _, err := manager.Rotate(ctx, accessID, token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("reusing a rotated token must fail, got %v", err)
	}
}

func TestManagerRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	if _, err := manager.Generate(ctx, "a1", Owner{UserID: uuid.New(), UserType: enums.UserTypeCustomer}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := manager.Revoke(ctx, "a1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err := manager.HasSession(ctx, "a1")
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatalf("expected session to be gone after revoke")
	}
}

func TestManagerGenerateRequiresOwner(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, err := manager.Generate(context.Background(), "a1", Owner{}); err == nil {
		t.Fatalf("expected missing owner to fail")
	}
	if _, err := manager.Generate(context.Background(), " ", Owner{UserID: uuid.New(), UserType: enums.UserTypeFarmer}); err == nil {
		t.Fatalf("expected blank access id to fail")
	}
}

func TestManagerRotateRejectsCorruptEntry(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	store.data[store.AccessSessionKey("a9")] = "not-json"
	if _, err := manager.Rotate(context.Background(), "a9", "anything"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token for corrupt entry, got %v", err)
	}
}
