package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

type fakeBackend struct {
	data map[string]string
	ttl  time.Duration
	err  error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: map[string]string{}}
}

func (f *fakeBackend) Get(ctx context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeBackend) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	f.ttl = ttl
	return nil
}

func (f *fakeBackend) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeBackend) CartKey(customerID string) string {
	return "ff:cart:" + customerID
}

type fakeProducts map[uuid.UUID]models.Product

func (f fakeProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := map[uuid.UUID]models.Product{}
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newProduct(name, price string, listed bool) models.Product {
	return models.Product{
		ID:       uuid.New(),
		FarmerID: uuid.New(),
		UserID:   uuid.New(),
		Name:     name,
		Unit:     "kg",
		Image:    "/placeholder.jpg",
		Price:    decimal.RequireFromString(price),
		Listed:   listed,
	}
}

func newTestService(t *testing.T, products fakeProducts) (Service, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	store, err := NewStore(backend, 24*time.Hour)
	require.NoError(t, err)
	svc, err := NewService(store, products, decimal.NewFromInt(40), nil)
	require.NoError(t, err)
	return svc, backend
}

func TestViewEmptyCartHasNoDeliveryFee(t *testing.T) {
	svc, _ := newTestService(t, fakeProducts{})
	view, err := svc.View(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.DeliveryFee.IsZero())
	assert.True(t, view.Total.IsZero())
}

func TestAddPricesCartAndPersists(t *testing.T) {
	carrot := newProduct("Carrot", "25", true)
	svc, backend := newTestService(t, fakeProducts{carrot.ID: carrot})
	ctx := context.Background()
	customer := uuid.New()

	_, err := svc.Add(ctx, customer, carrot.ID, 1)
	require.NoError(t, err)
	view, err := svc.Add(ctx, customer, carrot.ID, 3)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 4, view.Lines[0].Quantity)
	assert.Equal(t, carrot.UserID, view.Lines[0].FarmerUserID)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, view.DeliveryFee.Equal(decimal.NewFromInt(40)))
	assert.True(t, view.Total.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, 24*time.Hour, backend.ttl)
	assert.Contains(t, backend.data, "ff:cart:"+customer.String())
}

func TestAddRejectsUnknownOrUnlistedProducts(t *testing.T) {
	hidden := newProduct("Hidden", "10", false)
	svc, _ := newTestService(t, fakeProducts{hidden.ID: hidden})

	_, err := svc.Add(context.Background(), uuid.New(), hidden.ID, 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Add(context.Background(), uuid.New(), uuid.New(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestViewPrunesProductsThatDisappeared(t *testing.T) {
	kale := newProduct("Kale", "10", true)
	milk := newProduct("Milk", "30", true)
	products := fakeProducts{kale.ID: kale, milk.ID: milk}
	svc, backend := newTestService(t, products)
	ctx := context.Background()
	customer := uuid.New()

	_, err := svc.Add(ctx, customer, kale.ID, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, customer, milk.ID, 1)
	require.NoError(t, err)

	milk.Listed = false
	products[milk.ID] = milk
	kale.Price = decimal.NewFromInt(12)
	products[kale.ID] = kale

	view, err := svc.View(ctx, customer)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(24)), "uses the current price")
	assert.Equal(t, `[{"product_id":"`+kale.ID.String()+`","quantity":2}]`, backend.data["ff:cart:"+customer.String()])
}

func TestSetQuantityRemoveAndClear(t *testing.T) {
	kale := newProduct("Kale", "10", true)
	svc, backend := newTestService(t, fakeProducts{kale.ID: kale})
	ctx := context.Background()
	customer := uuid.New()

	_, err := svc.Add(ctx, customer, kale.ID, 2)
	require.NoError(t, err)

	view, err := svc.SetQuantity(ctx, customer, kale.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	view, err = svc.SetQuantity(ctx, customer, kale.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Lines[0].Quantity)

	view, err = svc.Remove(ctx, customer, kale.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.NotContains(t, backend.data, "ff:cart:"+customer.String())

	_, err = svc.Add(ctx, customer, kale.ID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, customer))
	view, err = svc.View(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestStoreFailureIsDependencyError(t *testing.T) {
	svc, backend := newTestService(t, fakeProducts{})
	backend.err = errors.New("connection refused")

	_, err := svc.View(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
