package visibility

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

// ProductVisibilityInput drives the shared visibility check for product reads.
type ProductVisibilityInput struct {
	Product      *models.Product
	ViewerUserID *uuid.UUID
}

// IsOwner reports whether the viewer owns the product.
func (in ProductVisibilityInput) IsOwner() bool {
	return in.Product != nil && in.ViewerUserID != nil && *in.ViewerUserID == in.Product.UserID
}

// EnsureProductVisible hides unlisted products from everyone but their owner.
// Hidden products are reported as not found so their existence never leaks.
func EnsureProductVisible(input ProductVisibilityInput) error {
	if input.Product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if input.Product.Listed || input.IsOwner() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// EnsureProductOwner rejects mutations by anyone other than the owning farmer.
func EnsureProductOwner(product *models.Product, requesterUserID uuid.UUID) error {
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.UserID != requesterUserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another farmer")
	}
	return nil
}
