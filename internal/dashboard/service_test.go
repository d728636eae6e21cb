package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/farmfresh-backend/internal/orders"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

type stubProducts struct {
	total, listed int64
	err           error
}

func (s stubProducts) OwnerCounts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	return s.total, s.listed, s.err
}

type stubOrders struct {
	rows []orders.StatusTotal
}

func (s stubOrders) FarmerTotals(ctx context.Context, farmerUserID uuid.UUID) ([]orders.StatusTotal, error) {
	return s.rows, nil
}

func TestOverview(t *testing.T) {
	svc, err := NewService(stubProducts{total: 5, listed: 3}, stubOrders{rows: []orders.StatusTotal{
		{OrderID: uuid.New(), Status: enums.OrderStatusDelivered, Total: decimal.NewFromInt(100)},
		{OrderID: uuid.New(), Status: enums.OrderStatusNew, Total: decimal.NewFromInt(50)},
		{OrderID: uuid.New(), Status: enums.OrderStatusProcessing, Total: decimal.NewFromInt(20)},
		{OrderID: uuid.New(), Status: enums.OrderStatusCancelled, Total: decimal.NewFromInt(70)},
	}})
	require.NoError(t, err)

	got, err := svc.Overview(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.TotalProducts)
	assert.Equal(t, int64(3), got.ListedProducts)
	assert.Equal(t, 4, got.TotalOrders)
	assert.Equal(t, 2, got.PendingOrders)
	assert.True(t, got.Revenue.Equal(decimal.NewFromInt(100)))
}

func TestOverviewWrapsCountFailure(t *testing.T) {
	svc, err := NewService(stubProducts{err: errors.New("boom")}, stubOrders{})
	require.NoError(t, err)

	_, err = svc.Overview(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
