package helpers

import (
	"github.com/angelmondragon/farmfresh-backend/pkg/checkout"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

// ValidateReadiness gates order placement. The address is checked before
// the cart so an incomplete address is reported even when the cart is empty.
func ValidateReadiness(address checkout.AddressFields, cartNonEmpty bool) error {
	if err := checkout.ValidateAddressFields(address); err != nil {
		return err
	}
	if !cartNonEmpty {
		return pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")
	}
	return nil
}
