package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

// Line is a cart item resolved against the current product data.
type Line struct {
	ProductID    uuid.UUID       `json:"product_id"`
	FarmerID     uuid.UUID       `json:"farmer_id"`
	FarmerUserID uuid.UUID       `json:"-"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// View is the priced cart shown to the customer.
type View struct {
	Lines       []Line          `json:"items"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Service exposes the customer's cart.
type Service interface {
	View(ctx context.Context, customerID uuid.UUID) (*View, error)
	Add(ctx context.Context, customerID, productID uuid.UUID, qty int) (*View, error)
	SetQuantity(ctx context.Context, customerID, productID uuid.UUID, qty int) (*View, error)
	Remove(ctx context.Context, customerID, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type cartStore interface {
	Load(ctx context.Context, customerID uuid.UUID) (Cart, error)
	Save(ctx context.Context, customerID uuid.UUID, c Cart) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type productLoader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type service struct {
	store       cartStore
	products    productLoader
	deliveryFee decimal.Decimal
	logg        *logger.Logger
}

// NewService builds a cart service. deliveryFee is charged on any non-empty cart.
func NewService(store cartStore, products productLoader, deliveryFee decimal.Decimal, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products, deliveryFee: deliveryFee, logg: logg}, nil
}

func (s *service) View(ctx context.Context, customerID uuid.UUID) (*View, error) {
	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, customerID, current)
}

func (s *service) Add(ctx context.Context, customerID, productID uuid.UUID, qty int) (*View, error) {
	found, err := s.products.FindByIDs(ctx, []uuid.UUID{productID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	product, ok := found[productID]
	if !ok || !product.Listed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	next := AddItem(current, productID, qty)
	if err := s.save(ctx, customerID, next); err != nil {
		return nil, err
	}
	return s.resolve(ctx, customerID, next)
}

func (s *service) SetQuantity(ctx context.Context, customerID, productID uuid.UUID, qty int) (*View, error) {
	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	next := SetQuantity(current, productID, qty)
	if current.Quantity(productID) != next.Quantity(productID) {
		if err := s.save(ctx, customerID, next); err != nil {
			return nil, err
		}
	}
	return s.resolve(ctx, customerID, next)
}

func (s *service) Remove(ctx context.Context, customerID, productID uuid.UUID) (*View, error) {
	current, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	next := RemoveItem(current, productID)
	if len(next.Items) != len(current.Items) {
		if err := s.save(ctx, customerID, next); err != nil {
			return nil, err
		}
	}
	return s.resolve(ctx, customerID, next)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if err := s.store.Clear(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: clear cart")
	}
	return nil
}

// resolve prices the cart with live product data. Missing or unlisted
// products are dropped and pruned from storage.
func (s *service) resolve(ctx context.Context, customerID uuid.UUID, current Cart) (*View, error) {
	view := &View{Lines: []Line{}, Subtotal: decimal.Zero, DeliveryFee: decimal.Zero, Total: decimal.Zero}
	if current.IsEmpty() {
		return view, nil
	}

	found, err := s.products.FindByIDs(ctx, current.ProductIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart products")
	}

	kept := Cart{Items: make([]Item, 0, len(current.Items))}
	prices := make(map[uuid.UUID]decimal.Decimal, len(found))
	for _, item := range current.Items {
		product, ok := found[item.ProductID]
		if !ok || !product.Listed {
			continue
		}
		kept.Items = append(kept.Items, item)
		prices[item.ProductID] = product.Price
		view.Lines = append(view.Lines, Line{
			ProductID:    product.ID,
			FarmerID:     product.FarmerID,
			FarmerUserID: product.UserID,
			Name:         product.Name,
			Unit:         product.Unit,
			Image:        product.Image,
			Price:        product.Price,
			Quantity:     item.Quantity,
			LineTotal:    product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
		})
		view.ItemCount += item.Quantity
	}

	if len(kept.Items) != len(current.Items) {
		if err := s.store.Save(ctx, customerID, kept); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.prune_failed")
		}
	}

	view.Subtotal = Subtotal(kept, prices)
	if view.Subtotal.IsPositive() {
		view.DeliveryFee = s.deliveryFee
	}
	view.Total = view.Subtotal.Add(view.DeliveryFee)
	return view, nil
}

func (s *service) load(ctx context.Context, customerID uuid.UUID) (Cart, error) {
	current, err := s.store.Load(ctx, customerID)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load cart")
	}
	return current, nil
}

func (s *service) save(ctx context.Context, customerID uuid.UUID, c Cart) error {
	if err := s.store.Save(ctx, customerID, c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: save cart")
	}
	return nil
}
