package listings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/internal/users"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/dbtest"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memoryKV) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type fixture struct {
	svc     Service
	conn    *gorm.DB
	kv      *memoryKV
	farmers *users.FarmerRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client, conn := dbtest.OpenClient(t)
	kv := newMemoryKV()
	cache, err := NewCatalogCache(kv, "ff:catalog:public", time.Minute)
	require.NoError(t, err)
	farmers := users.NewFarmerRepository(conn)
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Farmers: farmers,
		DB:      client,
		Cache:   cache,
	})
	require.NoError(t, err)
	return fixture{svc: svc, conn: conn, kv: kv, farmers: farmers}
}

// seedFarmer creates a farmer user with a profile and returns the user id.
func (f fixture) seedFarmer(t *testing.T, farmName string) (uuid.UUID, *models.FarmerProfile) {
	t.Helper()
	ctx := context.Background()
	user, err := users.NewRepository(f.conn).Create(ctx, users.CreateUserDTO{
		Email:        uuid.NewString() + "@farm.example",
		PasswordHash: "hash",
		Name:         farmName + " Owner",
		UserType:     enums.UserTypeFarmer,
	})
	require.NoError(t, err)
	profile, err := f.farmers.Create(ctx, users.CreateFarmerProfileDTO{
		UserID:       user.ID,
		FarmName:     farmName,
		FarmLocation: "Hillside",
	})
	require.NoError(t, err)
	return user.ID, profile
}
