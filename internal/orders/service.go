package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
	"github.com/angelmondragon/farmfresh-backend/pkg/metrics"
	"github.com/angelmondragon/farmfresh-backend/pkg/pagination"
)

// Service owns the order record and both of its read projections.
type Service interface {
	Finalize(ctx context.Context, draft Draft) (*CustomerOrderView, error)
	Transition(ctx context.Context, orderID uuid.UUID, actor Actor, next enums.OrderStatus) (*FarmerOrderView, error)
	CustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*CustomerOrderList, error)
	CustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*CustomerOrderView, error)
	FarmerOrders(ctx context.Context, farmerUserID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (*FarmerOrderList, error)
	FarmerOrder(ctx context.Context, farmerUserID, orderID uuid.UUID) (*FarmerOrderView, error)
	FarmerTotals(ctx context.Context, farmerUserID uuid.UUID) ([]StatusTotal, error)
}

type ServiceParams struct {
	Repo    Repository
	DB      db.TxRunner
	Metrics *metrics.OrderMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

type service struct {
	repo    Repository
	tx      db.TxRunner
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds the order lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		tx:      params.DB,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Finalize stores the draft as a New order. Replaying a draft id for the same
// customer returns the stored order untouched.
func (s *service) Finalize(ctx context.Context, draft Draft) (*CustomerOrderView, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	order := s.buildOrder(draft)

	var stored *models.Order
	replayed := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByID(ctx, order.ID)
		if err == nil {
			stored, replayed = existing, true
			return nil
		}
		if !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		if err := repo.CreateLineItems(ctx, order.LineItems); err != nil {
			return err
		}
		stored = order
		return nil
	})
	if err != nil {
		if !db.IsUniqueViolation(err, "") {
			if typed := pkgerrors.As(err); typed != nil {
				return nil, err
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		// lost the insert race to a concurrent submission of the same draft
		existing, findErr := s.repo.FindByID(ctx, order.ID)
		if findErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "db: reload order")
		}
		stored, replayed = existing, true
	}

	logCtx := ctx
	if s.logg != nil {
		logCtx = s.logg.WithFields(ctx, map[string]any{
			"order_id":    stored.ID.String(),
			"customer_id": draft.CustomerID.String(),
		})
	}
	if replayed {
		if stored.CustomerID != draft.CustomerID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order id already used")
		}
		s.metrics.IncReplay()
		if s.logg != nil {
			s.logg.Info(logCtx, "order.finalize.replayed")
		}
	} else {
		s.metrics.IncFinalized()
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(logCtx, "total", stored.Total.StringFixed(2)), "order.finalized")
		}
	}

	view := CustomerViewFromModel(stored)
	return &view, nil
}

func validateDraft(draft Draft) error {
	if draft.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if draft.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(draft.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")
	}
	for _, item := range draft.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item product required")
		}
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive").
				WithDetails(map[string]any{"product_id": item.ProductID.String()})
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item price cannot be negative").
				WithDetails(map[string]any{"product_id": item.ProductID.String()})
		}
	}
	return nil
}

func (s *service) buildOrder(draft Draft) *models.Order {
	items := Consolidate(draft.Items)
	subtotal := Subtotal(items)
	fee := draft.DeliveryFee.Round(2)
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	discount := clampDiscount(draft.Discount, subtotal)
	now := s.now().UTC().Truncate(time.Microsecond)

	order := &models.Order{
		ID:              draft.ID,
		Reference:       Reference(draft.ID),
		CustomerID:      draft.CustomerID,
		CustomerName:    draft.CustomerName,
		CustomerEmail:   draft.CustomerEmail,
		CustomerPhone:   draft.CustomerPhone,
		Subtotal:        subtotal,
		DeliveryFee:     fee,
		Discount:        discount,
		CouponCode:      draft.CouponCode,
		Total:           subtotal.Add(fee).Sub(discount),
		DeliveryAddress: draft.DeliveryAddress,
		DeliverySlot:    draft.DeliverySlot,
		PaymentMethod:   draft.PaymentMethod,
		Status:          enums.OrderStatusNew,
		PlacedAt:        now,
		StatusChangedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.LineItems = make([]models.OrderLineItem, 0, len(items))
	for i, item := range items {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			OrderID:      draft.ID,
			Position:     i,
			ProductID:    item.ProductID,
			FarmerID:     item.FarmerID,
			FarmerUserID: item.FarmerUserID,
			Name:         item.Name,
			Unit:         item.Unit,
			Image:        item.Image,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal,
			CreatedAt:    now,
		})
	}
	return order
}

func clampDiscount(discount, subtotal decimal.Decimal) decimal.Decimal {
	discount = discount.Round(2)
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// Transition moves an order to next on behalf of a farmer holding items on it.
// The status write is conditional on the status observed under the row lock.
func (s *service) Transition(ctx context.Context, orderID uuid.UUID, actor Actor, next enums.OrderStatus) (*FarmerOrderView, error) {
	if actor.Role != enums.UserTypeFarmer {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "only farmers can change order status").
			WithDetails(map[string]any{"to": next.String()})
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "unknown order status").
			WithDetails(map[string]any{"to": next.String()})
	}

	var (
		updated *models.Order
		from    enums.OrderStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.LockByID(ctx, orderID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock order")
		}
		owns, err := repo.FarmerHasItems(ctx, orderID, actor.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check order items")
		}
		if !owns {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order has no items from this farmer")
		}

		from = current.Status
		if !CanTransition(from, next) {
			return transitionError(from, next, "order cannot move to the requested status")
		}
		rows, err := repo.UpdateStatus(ctx, orderID, from, next, s.now().UTC().Truncate(time.Microsecond))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}
		if rows == 0 {
			return transitionError(from, next, "order status changed, reload and retry")
		}

		updated, err = repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(next.String())
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID.String(),
			"from":     from.String(),
			"to":       next.String(),
			"actor_id": actor.UserID.String(),
		}), "order.status.changed")
	}

	view, _ := FarmerViewFromModel(updated, actor.UserID)
	return &view, nil
}

func transitionError(from, to enums.OrderStatus, msg string) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, msg).WithDetails(map[string]any{
		"from": from.String(),
		"to":   to.String(),
	})
}

func (s *service) CustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*CustomerOrderList, error) {
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customer orders")
	}
	page, more := pagination.Trim(rows, params.Limit)

	list := &CustomerOrderList{Orders: make([]CustomerOrderView, 0, len(page))}
	for i := range page {
		list.Orders = append(list.Orders, CustomerViewFromModel(&page[i]))
	}
	if more {
		list.NextCursor = nextCursor(page[len(page)-1])
	}
	return list, nil
}

func (s *service) CustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*CustomerOrderView, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	view := CustomerViewFromModel(order)
	return &view, nil
}

func (s *service) FarmerOrders(ctx context.Context, farmerUserID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (*FarmerOrderList, error) {
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByFarmer(ctx, farmerUserID, status, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list farmer orders")
	}
	page, more := pagination.Trim(rows, params.Limit)

	list := &FarmerOrderList{Orders: make([]FarmerOrderView, 0, len(page))}
	for i := range page {
		if view, ok := FarmerViewFromModel(&page[i], farmerUserID); ok {
			list.Orders = append(list.Orders, view)
		}
	}
	if more {
		list.NextCursor = nextCursor(page[len(page)-1])
	}
	return list, nil
}

func (s *service) FarmerOrder(ctx context.Context, farmerUserID, orderID uuid.UUID) (*FarmerOrderView, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view, ok := FarmerViewFromModel(order, farmerUserID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return &view, nil
}

func (s *service) FarmerTotals(ctx context.Context, farmerUserID uuid.UUID) ([]StatusTotal, error) {
	rows, err := s.repo.FarmerTotals(ctx, farmerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: farmer order totals")
	}
	return rows, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func parseCursor(raw string) (*pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return cursor, nil
}

func nextCursor(last models.Order) string {
	return pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
}
