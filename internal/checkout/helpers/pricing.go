package helpers

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CouponRule is the single promotional code accepted at checkout.
type CouponRule struct {
	Code    string
	Percent int
}

// CouponResult reports whether a code applied and the discount it earns.
type CouponResult struct {
	Valid    bool
	Discount decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ApplyCoupon matches code against the rule, ignoring case and surrounding
// space. Unknown codes yield a zero discount, never an error.
func ApplyCoupon(rule CouponRule, code string, subtotal decimal.Decimal) CouponResult {
	code = strings.TrimSpace(code)
	if code == "" || rule.Code == "" || rule.Percent <= 0 || !strings.EqualFold(code, strings.TrimSpace(rule.Code)) {
		return CouponResult{Discount: decimal.Zero}
	}
	if !subtotal.IsPositive() {
		return CouponResult{Valid: true, Discount: decimal.Zero}
	}
	discount := subtotal.Mul(decimal.NewFromInt(int64(rule.Percent))).Div(hundred).Round(2)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return CouponResult{Valid: true, Discount: discount}
}

// ComputeTotal returns subtotal + deliveryFee - discount with the discount
// clamped to [0, subtotal].
func ComputeTotal(subtotal, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return subtotal.Add(deliveryFee).Sub(discount).Round(2)
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Discount      decimal.Decimal `json:"discount"`
	CouponCode    *string         `json:"coupon_code,omitempty"`
	CouponApplied bool            `json:"coupon_applied"`
	Total         decimal.Decimal `json:"total"`
}

// Price combines the coupon and delivery fee into final totals. The fee is
// waived on an empty subtotal.
func Price(rule CouponRule, subtotal, deliveryFee decimal.Decimal, couponCode string) Totals {
	if !subtotal.IsPositive() {
		deliveryFee = decimal.Zero
	}
	coupon := ApplyCoupon(rule, couponCode, subtotal)
	totals := Totals{
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Discount:      coupon.Discount,
		CouponApplied: coupon.Valid,
		Total:         ComputeTotal(subtotal, deliveryFee, coupon.Discount),
	}
	if coupon.Valid {
		code := strings.ToUpper(strings.TrimSpace(couponCode))
		totals.CouponCode = &code
	}
	return totals
}
