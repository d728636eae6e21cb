package helpers

import (
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/internal/cart"
	"github.com/angelmondragon/farmfresh-backend/internal/orders"
)

// draftNamespace scopes idempotent order ids.
var draftNamespace = uuid.MustParse("6f1c2d0e-8a4b-5c3d-9e7f-1a2b3c4d5e6f")

// DraftID derives the order id. A non-empty idempotency key always maps to
// the same id for the same customer.
func DraftID(customerID uuid.UUID, idempotencyKey string) uuid.UUID {
	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		return uuid.New()
	}
	return uuid.NewSHA1(draftNamespace, []byte(customerID.String()+"|"+key))
}

// Customer holds the contact fields copied onto an order.
type Customer struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// Delivery describes where and when an order is delivered and how it is paid.
type Delivery struct {
	Address      string
	SlotLabel    string
	PaymentLabel string
}

// BuildOrderDraft snapshots the priced cart into an order draft. Inputs are
// copied, never modified.
func BuildOrderDraft(draftID uuid.UUID, customer Customer, lines []cart.Line, delivery Delivery, totals Totals) orders.Draft {
	items := make([]orders.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, orders.LineItem{
			ProductID:    line.ProductID,
			FarmerID:     line.FarmerID,
			FarmerUserID: line.FarmerUserID,
			Name:         line.Name,
			Unit:         line.Unit,
			Image:        line.Image,
			UnitPrice:    line.Price,
			Quantity:     line.Quantity,
			LineTotal:    line.LineTotal,
		})
	}
	var coupon *string
	if totals.CouponCode != nil {
		code := *totals.CouponCode
		coupon = &code
	}
	return orders.Draft{
		ID:              draftID,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		Items:           items,
		DeliveryFee:     totals.DeliveryFee,
		Discount:        totals.Discount,
		CouponCode:      coupon,
		DeliveryAddress: delivery.Address,
		DeliverySlot:    delivery.SlotLabel,
		PaymentMethod:   delivery.PaymentLabel,
	}
}
