package orders

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

var forwardTransitions = map[enums.OrderStatus]enums.OrderStatus{
	enums.OrderStatusNew:        enums.OrderStatusProcessing,
	enums.OrderStatusProcessing: enums.OrderStatusShipped,
	enums.OrderStatusShipped:    enums.OrderStatusDelivered,
}

// CanTransition reports whether an order may move from one status to another.
// Orders advance one step at a time and may be cancelled until they are terminal.
func CanTransition(from, to enums.OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == enums.OrderStatusCancelled {
		return true
	}
	next, ok := forwardTransitions[from]
	return ok && next == to
}

// Consolidate merges line items that share a product. Quantities are summed
// and the first snapshot of each product wins.
func Consolidate(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	for i := range out {
		out[i].LineTotal = out[i].UnitPrice.Mul(decimal.NewFromInt(int64(out[i].Quantity))).Round(2)
	}
	return out
}

// Subtotal sums the line totals.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total.Round(2)
}

// Revenue sums the totals of delivered orders.
func Revenue(orders []StatusTotal) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == enums.OrderStatusDelivered {
			total = total.Add(o.Total)
		}
	}
	return total.Round(2)
}

// Reference renders the customer facing order number.
func Reference(id uuid.UUID) string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
