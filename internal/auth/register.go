package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/internal/users"
	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/security"
)

// RegisterRequest contains the payload for a customer or farmer sign-up.
// Farm fields are required when UserType is farmer.
type RegisterRequest struct {
	Name            string         `json:"name" validate:"required"`
	Email           string         `json:"email" validate:"required,email"`
	Password        string         `json:"password" validate:"required"`
	Phone           *string        `json:"phone,omitempty"`
	Address         *string        `json:"address,omitempty"`
	UserType        enums.UserType `json:"user_type" validate:"required"`
	FarmName        string         `json:"farm_name,omitempty"`
	FarmLocation    string         `json:"farm_location,omitempty"`
	FarmDescription *string        `json:"farm_description,omitempty"`
}

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             db.TxRunner
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          db.TxRunner
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	if err := validateRegister(&req); err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		farmerRepo := users.NewFarmerRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, req.Email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        req.Email,
			PasswordHash: passwordHash,
			Name:         req.Name,
			Phone:        req.Phone,
			Address:      req.Address,
			UserType:     req.UserType,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if user.IsFarmer() {
			if _, err := farmerRepo.Create(ctx, users.CreateFarmerProfileDTO{
				UserID:          user.ID,
				FarmName:        req.FarmName,
				FarmLocation:    req.FarmLocation,
				FarmDescription: req.FarmDescription,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create farmer profile")
			}
		}

		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func validateRegister(req *RegisterRequest) error {
	req.Email = security.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.FarmName = strings.TrimSpace(req.FarmName)
	req.FarmLocation = strings.TrimSpace(req.FarmLocation)

	details := map[string]string{}
	if req.Email == "" {
		details["email"] = "email is required"
	}
	if req.Name == "" {
		details["name"] = "name is required"
	}
	if err := security.ValidatePassword(req.Password); err != nil {
		details["password"] = err.Error()
	}
	if !req.UserType.IsValid() {
		details["user_type"] = "must be customer or farmer"
	}
	if req.UserType == enums.UserTypeFarmer {
		if req.FarmName == "" {
			details["farm_name"] = "farm name is required"
		}
		if req.FarmLocation == "" {
			details["farm_location"] = "farm location is required"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid registration").WithDetails(details)
	}
	return nil
}
