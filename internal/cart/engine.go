package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line: a product and how many units of it.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Cart is an ordered list of items with at most one entry per product.
type Cart struct {
	Items []Item `json:"items"`
}

// IsEmpty reports whether the cart has no items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Quantity returns the quantity held for productID, or 0.
func (c Cart) Quantity(productID uuid.UUID) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ProductIDs returns the product ids in cart order.
func (c Cart) ProductIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		out = append(out, item.ProductID)
	}
	return out
}

func (c Cart) clone() Cart {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// AddItem increments the product's quantity or appends a new line.
// A quantity below one adds a single unit.
func AddItem(c Cart, productID uuid.UUID, qty int) Cart {
	if qty < 1 {
		qty = 1
	}
	out := c.clone()
	for i := range out.Items {
		if out.Items[i].ProductID == productID {
			out.Items[i].Quantity += qty
			return out
		}
	}
	out.Items = append(out.Items, Item{ProductID: productID, Quantity: qty})
	return out
}

// SetQuantity overwrites the product's quantity. It is a no-op when qty < 1
// or the product is not in the cart.
func SetQuantity(c Cart, productID uuid.UUID, qty int) Cart {
	if qty < 1 {
		return c
	}
	out := c.clone()
	for i := range out.Items {
		if out.Items[i].ProductID == productID {
			out.Items[i].Quantity = qty
			return out
		}
	}
	return c
}

// RemoveItem drops the product's line.
func RemoveItem(c Cart, productID uuid.UUID) Cart {
	out := Cart{Items: make([]Item, 0, len(c.Items))}
	for _, item := range c.Items {
		if item.ProductID != productID {
			out.Items = append(out.Items, item)
		}
	}
	return out
}

// Subtotal sums price × quantity using the prices supplied now. Items without
// a price contribute nothing.
func Subtotal(c Cart, prices map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}
