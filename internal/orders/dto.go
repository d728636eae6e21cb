package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

// LineItem is a product snapshot on an order.
type LineItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	FarmerID     uuid.UUID       `json:"farmer_id"`
	FarmerUserID uuid.UUID       `json:"-"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Image        string          `json:"image"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// Draft is the checkout output handed to Finalize. Subtotal and total are
// always recomputed from Items.
type Draft struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Items           []LineItem
	DeliveryFee     decimal.Decimal
	Discount        decimal.Decimal
	CouponCode      *string
	DeliveryAddress string
	DeliverySlot    string
	PaymentMethod   string
}

// Actor identifies who is moving an order through its lifecycle.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserType
}

// StatusTotal pairs an order status with an amount attributed to it.
type StatusTotal struct {
	OrderID uuid.UUID         `gorm:"column:order_id"`
	Status  enums.OrderStatus `gorm:"column:status"`
	Total   decimal.Decimal   `gorm:"column:total"`
}

// CustomerOrderView is the customer's projection of an order.
type CustomerOrderView struct {
	ID              uuid.UUID         `json:"id"`
	Reference       string            `json:"reference"`
	Status          enums.OrderStatus `json:"status"`
	Items           []LineItem        `json:"items"`
	ItemCount       int               `json:"item_count"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	DeliveryFee     decimal.Decimal   `json:"delivery_fee"`
	Discount        decimal.Decimal   `json:"discount"`
	CouponCode      *string           `json:"coupon_code,omitempty"`
	Total           decimal.Decimal   `json:"total"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliverySlot    string            `json:"delivery_slot"`
	PaymentMethod   string            `json:"payment_method"`
	PlacedAt        time.Time         `json:"placed_at"`
	StatusChangedAt time.Time         `json:"status_changed_at"`
}

// FarmerOrderView is one farmer's projection of an order: only that
// farmer's items plus the customer contact details.
type FarmerOrderView struct {
	ID              uuid.UUID         `json:"id"`
	Reference       string            `json:"reference"`
	Status          enums.OrderStatus `json:"status"`
	Items           []LineItem        `json:"items"`
	ItemCount       int               `json:"item_count"`
	FarmerSubtotal  decimal.Decimal   `json:"farmer_subtotal"`
	OrderTotal      decimal.Decimal   `json:"order_total"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliverySlot    string            `json:"delivery_slot"`
	PaymentMethod   string            `json:"payment_method"`
	PlacedAt        time.Time         `json:"placed_at"`
	StatusChangedAt time.Time         `json:"status_changed_at"`
}

// CustomerOrderList wraps a page of customer orders plus the next cursor.
type CustomerOrderList struct {
	Orders     []CustomerOrderView `json:"orders"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// FarmerOrderList wraps a page of farmer orders plus the next cursor.
type FarmerOrderList struct {
	Orders     []FarmerOrderView `json:"orders"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func lineItemFromModel(m models.OrderLineItem) LineItem {
	return LineItem{
		ProductID:    m.ProductID,
		FarmerID:     m.FarmerID,
		FarmerUserID: m.FarmerUserID,
		Name:         m.Name,
		Unit:         m.Unit,
		Image:        m.Image,
		UnitPrice:    m.UnitPrice,
		Quantity:     m.Quantity,
		LineTotal:    m.LineTotal,
	}
}

// CustomerViewFromModel maps a stored order with its line items.
func CustomerViewFromModel(m *models.Order) CustomerOrderView {
	view := CustomerOrderView{
		ID:              m.ID,
		Reference:       m.Reference,
		Status:          m.Status,
		Items:           make([]LineItem, 0, len(m.LineItems)),
		Subtotal:        m.Subtotal,
		DeliveryFee:     m.DeliveryFee,
		Discount:        m.Discount,
		CouponCode:      m.CouponCode,
		Total:           m.Total,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		CustomerPhone:   m.CustomerPhone,
		DeliveryAddress: m.DeliveryAddress,
		DeliverySlot:    m.DeliverySlot,
		PaymentMethod:   m.PaymentMethod,
		PlacedAt:        m.PlacedAt,
		StatusChangedAt: m.StatusChangedAt,
	}
	for _, item := range m.LineItems {
		view.Items = append(view.Items, lineItemFromModel(item))
		view.ItemCount += item.Quantity
	}
	return view
}

// FarmerViewFromModel projects the order for farmerUserID. ok is false when
// the farmer has no items on it.
func FarmerViewFromModel(m *models.Order, farmerUserID uuid.UUID) (FarmerOrderView, bool) {
	view := FarmerOrderView{
		ID:              m.ID,
		Reference:       m.Reference,
		Status:          m.Status,
		Items:           []LineItem{},
		FarmerSubtotal:  decimal.Zero,
		OrderTotal:      m.Total,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		CustomerPhone:   m.CustomerPhone,
		DeliveryAddress: m.DeliveryAddress,
		DeliverySlot:    m.DeliverySlot,
		PaymentMethod:   m.PaymentMethod,
		PlacedAt:        m.PlacedAt,
		StatusChangedAt: m.StatusChangedAt,
	}
	for _, item := range m.LineItems {
		if item.FarmerUserID != farmerUserID {
			continue
		}
		view.Items = append(view.Items, lineItemFromModel(item))
		view.ItemCount += item.Quantity
		view.FarmerSubtotal = view.FarmerSubtotal.Add(item.LineTotal)
	}
	return view, len(view.Items) > 0
}
