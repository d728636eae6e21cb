package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/security"
)

// Service exposes profile reads and edits and the public farmer directory.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	ListFarmers(ctx context.Context) ([]FarmerDirectoryEntry, error)
}

type service struct {
	users   *Repository
	farmers *FarmerRepository
	tx      db.TxRunner
}

func NewService(users *Repository, farmers *FarmerRepository, tx db.TxRunner) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if farmers == nil {
		return nil, fmt.Errorf("farmer repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{users: users, farmers: farmers, tx: tx}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	return s.loadProfile(ctx, s.users, s.farmers, userID)
}

// UpdateProfile applies the non-empty supplied fields. Farm fields only apply to farmers.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	var out *ProfileDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		farmers := s.farmers.WithTx(tx)

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
		}

		userFields := map[string]any{}
		setIfPresent(userFields, "name", input.Name)
		setIfPresent(userFields, "phone", input.Phone)
		setIfPresent(userFields, "address", input.Address)
		if email := trimmed(input.Email); email != "" {
			email = security.NormalizeEmail(email)
			if email != user.Email {
				userFields["email"] = email
			}
		}
		if err := users.UpdateFields(ctx, userID, userFields); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
		}

		if user.IsFarmer() && input.touchesFarm() {
			farmFields := map[string]any{}
			setIfPresent(farmFields, "farm_name", input.FarmName)
			setIfPresent(farmFields, "farm_location", input.FarmLocation)
			setIfPresent(farmFields, "farm_description", input.FarmDescription)
			if err := farmers.UpdateFields(ctx, userID, farmFields); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update farmer profile")
			}
		}

		out, err = s.loadProfile(ctx, users, farmers, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ListFarmers(ctx context.Context) ([]FarmerDirectoryEntry, error) {
	rows, err := s.farmers.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list farmers")
	}
	out := make([]FarmerDirectoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, DirectoryEntryFromModel(row))
	}
	return out, nil
}

func (s *service) loadProfile(ctx context.Context, users *Repository, farmers *FarmerRepository, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	profile := &ProfileDTO{UserDTO: *FromModel(user)}
	if !user.IsFarmer() {
		return profile, nil
	}
	farm, err := farmers.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return profile, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load farmer profile")
	}
	profile.Farm = FarmFromModel(farm)
	return profile, nil
}

func setIfPresent(fields map[string]any, column string, value *string) {
	if v := trimmed(value); v != "" {
		fields[column] = v
	}
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
