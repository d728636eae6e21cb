package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/farmfresh-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

type productCounter interface {
	OwnerCounts(ctx context.Context, userID uuid.UUID) (total, listed int64, err error)
}

type orderTotals interface {
	FarmerTotals(ctx context.Context, farmerUserID uuid.UUID) ([]orders.StatusTotal, error)
}

// Overview summarizes a farmer's catalog and order activity.
type Overview struct {
	TotalProducts  int64           `json:"total_products"`
	ListedProducts int64           `json:"listed_products"`
	TotalOrders    int             `json:"total_orders"`
	PendingOrders  int             `json:"pending_orders"`
	Revenue        decimal.Decimal `json:"revenue"`
}

type Service interface {
	Overview(ctx context.Context, farmerUserID uuid.UUID) (*Overview, error)
}

type service struct {
	products productCounter
	orders   orderTotals
}

func NewService(products productCounter, orders orderTotals) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order totals required")
	}
	return &service{products: products, orders: orders}, nil
}

func (s *service) Overview(ctx context.Context, farmerUserID uuid.UUID) (*Overview, error) {
	var (
		out    Overview
		totals []orders.StatusTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, listed, err := s.products.OwnerCounts(gctx, farmerUserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
		}
		out.TotalProducts, out.ListedProducts = total, listed
		return nil
	})
	g.Go(func() error {
		rows, err := s.orders.FarmerTotals(gctx, farmerUserID)
		if err != nil {
			return err
		}
		totals = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.TotalOrders = len(totals)
	for _, row := range totals {
		if row.Status.IsPending() {
			out.PendingOrders++
		}
	}
	out.Revenue = orders.Revenue(totals)
	return &out, nil
}
