package visibility

import (
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

func TestEnsureProductVisible(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name     string
		product  *models.Product
		viewer   *uuid.UUID
		wantCode errors.Code
	}{
		{name: "listed anonymous", product: &models.Product{UserID: owner, Listed: true}},
		{name: "listed stranger", product: &models.Product{UserID: owner, Listed: true}, viewer: &stranger},
		{name: "unlisted owner", product: &models.Product{UserID: owner}, viewer: &owner},
		{name: "unlisted stranger", product: &models.Product{UserID: owner}, viewer: &stranger, wantCode: errors.CodeNotFound},
		{name: "unlisted anonymous", product: &models.Product{UserID: owner}, wantCode: errors.CodeNotFound},
		{name: "missing product", wantCode: errors.CodeNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := EnsureProductVisible(ProductVisibilityInput{Product: tc.product, ViewerUserID: tc.viewer})
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected visible, got %v", err)
				}
				return
			}
			typed := errors.As(err)
			if typed == nil || typed.Code() != tc.wantCode {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestEnsureProductOwner(t *testing.T) {
	owner := uuid.New()
	product := &models.Product{UserID: owner}

	if err := EnsureProductOwner(product, owner); err != nil {
		t.Fatalf("owner should pass, got %v", err)
	}
	err := EnsureProductOwner(product, uuid.New())
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	err = EnsureProductOwner(nil, owner)
	if typed := errors.As(err); typed == nil || typed.Code() != errors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
