package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgcheckout "github.com/angelmondragon/farmfresh-backend/pkg/checkout"
	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

// Service manages a customer's address book. A non-empty book always has
// exactly one default address.
type Service interface {
	ListAddresses(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error)
	AddAddress(ctx context.Context, customerID uuid.UUID, input AddressInput, makeDefault bool) ([]AddressDTO, error)
	UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, input UpdateAddressInput) ([]AddressDTO, error)
	SetDefault(ctx context.Context, customerID, addressID uuid.UUID) ([]AddressDTO, error)
	DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) ([]AddressDTO, error)
	// Resolve returns the given address, or the default one when addressID is nil.
	Resolve(ctx context.Context, customerID uuid.UUID, addressID *uuid.UUID) (*AddressDTO, error)
}

type service struct {
	repo *Repository
	tx   db.TxRunner
}

func NewService(repo *Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListAddresses(ctx context.Context, customerID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list addresses")
	}
	return toDTOs(rows), nil
}

func (s *service) AddAddress(ctx context.Context, customerID uuid.UUID, input AddressInput, makeDefault bool) ([]AddressDTO, error) {
	input = trimInput(input)
	if err := pkgcheckout.ValidateAddressFields(input.Fields()); err != nil {
		return nil, asValidation(err)
	}

	return s.mutate(ctx, customerID, func(repo *Repository, existing []models.Address) error {
		isDefault := makeDefault || len(existing) == 0
		if isDefault && len(existing) > 0 {
			if err := repo.ClearDefault(ctx, customerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: demote addresses")
			}
		}
		position := 0
		for _, row := range existing {
			if row.Position >= position {
				position = row.Position + 1
			}
		}
		row := &models.Address{
			CustomerID: customerID,
			FullName:   input.FullName,
			Street:     input.Street,
			City:       input.City,
			State:      input.State,
			Zip:        input.Zip,
			Phone:      input.Phone,
			IsDefault:  isDefault,
			Position:   position,
		}
		if err := repo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert address")
		}
		return nil
	})
}

func (s *service) UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, input UpdateAddressInput) ([]AddressDTO, error) {
	fields := map[string]any{}
	details := map[string]string{}
	for column, value := range map[string]*string{
		"full_name": input.FullName,
		"street":    input.Street,
		"city":      input.City,
		"state":     input.State,
		"zip":       input.Zip,
		"phone":     input.Phone,
	} {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			details[column] = column + " cannot be empty"
			continue
		}
		fields[column] = trimmed
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid address").WithDetails(details)
	}

	return s.mutate(ctx, customerID, func(repo *Repository, existing []models.Address) error {
		if !containsAddress(existing, addressID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		if err := repo.UpdateFields(ctx, customerID, addressID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update address")
		}
		return nil
	})
}

func (s *service) SetDefault(ctx context.Context, customerID, addressID uuid.UUID) ([]AddressDTO, error) {
	return s.mutate(ctx, customerID, func(repo *Repository, existing []models.Address) error {
		if !containsAddress(existing, addressID) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		if err := repo.ClearDefault(ctx, customerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: demote addresses")
		}
		if err := repo.MarkDefault(ctx, customerID, addressID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote address")
		}
		return nil
	})
}

// DeleteAddress removes the address. When it was the default, the first
// remaining address in storage order is promoted.
func (s *service) DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) ([]AddressDTO, error) {
	return s.mutate(ctx, customerID, func(repo *Repository, existing []models.Address) error {
		var target *models.Address
		var successor *models.Address
		for i := range existing {
			if existing[i].ID == addressID {
				target = &existing[i]
			} else if successor == nil {
				successor = &existing[i]
			}
		}
		if target == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		if err := repo.Delete(ctx, customerID, addressID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete address")
		}
		if target.IsDefault && successor != nil {
			if err := repo.MarkDefault(ctx, customerID, successor.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote address")
			}
		}
		return nil
	})
}

func (s *service) Resolve(ctx context.Context, customerID uuid.UUID, addressID *uuid.UUID) (*AddressDTO, error) {
	if addressID != nil {
		row, err := s.repo.FindOwned(ctx, customerID, *addressID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load address")
		}
		dto := FromModel(*row)
		return &dto, nil
	}

	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list addresses")
	}
	for _, row := range rows {
		if row.IsDefault {
			dto := FromModel(row)
			return &dto, nil
		}
	}
	return nil, nil
}

// mutate runs fn against the locked address set and re-checks the default
// invariant before commit.
func (s *service) mutate(ctx context.Context, customerID uuid.UUID, fn func(repo *Repository, existing []models.Address) error) ([]AddressDTO, error) {
	var out []AddressDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.LockByCustomer(ctx, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock addresses")
		}
		if err := fn(repo, existing); err != nil {
			return err
		}
		after, err := repo.ListByCustomer(ctx, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload addresses")
		}
		if err := verifyDefaultInvariant(after); err != nil {
			return err
		}
		out = toDTOs(after)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func verifyDefaultInvariant(rows []models.Address) error {
	defaults := 0
	for _, row := range rows {
		if row.IsDefault {
			defaults++
		}
	}
	if len(rows) == 0 && defaults == 0 {
		return nil
	}
	if defaults != 1 {
		return pkgerrors.New(pkgerrors.CodeInternal, "address book default invariant violated").
			WithDetails(map[string]int{"addresses": len(rows), "defaults": defaults})
	}
	return nil
}

func containsAddress(rows []models.Address, id uuid.UUID) bool {
	for _, row := range rows {
		if row.ID == id {
			return true
		}
	}
	return false
}

func toDTOs(rows []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

func trimInput(in AddressInput) AddressInput {
	return AddressInput{
		FullName: strings.TrimSpace(in.FullName),
		Street:   strings.TrimSpace(in.Street),
		City:     strings.TrimSpace(in.City),
		State:    strings.TrimSpace(in.State),
		Zip:      strings.TrimSpace(in.Zip),
		Phone:    strings.TrimSpace(in.Phone),
	}
}

// asValidation reports a missing field on a saved address as a plain validation error.
func asValidation(err error) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete").WithDetails(typed.Details())
}
