package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/farmfresh-backend/pkg/db/types"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

// DefaultFarmDescription fills the directory entry of a farm without a description.
const DefaultFarmDescription = "Local farm providing fresh produce"

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Phone       *string        `json:"phone,omitempty"`
	Address     *string        `json:"address,omitempty"`
	UserType    enums.UserType `json:"user_type"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// FarmDTO carries the farm fields shown alongside a farmer's profile.
type FarmDTO struct {
	FarmerID        uuid.UUID `json:"farmer_id"`
	FarmName        string    `json:"farm_name"`
	FarmLocation    string    `json:"farm_location"`
	FarmDescription *string   `json:"farm_description,omitempty"`
}

// ProfileDTO is the signed-in user's profile. Farm is set only for farmers.
type ProfileDTO struct {
	UserDTO
	Farm *FarmDTO `json:"farm,omitempty"`
}

// FarmerDirectoryEntry is one farm in the public directory.
type FarmerDirectoryEntry struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone,omitempty"`
	FarmName        string    `json:"farm_name"`
	FarmLocation    string    `json:"farm_location"`
	FarmDescription string    `json:"farm_description"`
	ProductCount    int       `json:"product_count"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Address      *string
	UserType     enums.UserType
}

// CreateFarmerProfileDTO holds the farm fields captured at farmer registration.
type CreateFarmerProfileDTO struct {
	UserID          uuid.UUID
	FarmName        string
	FarmLocation    string
	FarmDescription *string
}

// UpdateProfileInput is a partial profile edit. Nil fields stay untouched.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	Phone           *string
	Address         *string
	FarmName        *string
	FarmLocation    *string
	FarmDescription *string
}

func (in UpdateProfileInput) touchesFarm() bool {
	return in.FarmName != nil || in.FarmLocation != nil || in.FarmDescription != nil
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Address:     u.Address,
		UserType:    u.UserType,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// FarmFromModel maps a farmer profile into its transport shape.
func FarmFromModel(p *models.FarmerProfile) *FarmDTO {
	if p == nil {
		return nil
	}
	return &FarmDTO{
		FarmerID:        p.ID,
		FarmName:        p.FarmName,
		FarmLocation:    p.FarmLocation,
		FarmDescription: p.FarmDescription,
	}
}

// DirectoryEntryFromModel flattens a profile and its user for the farmer directory.
func DirectoryEntryFromModel(p models.FarmerProfile) FarmerDirectoryEntry {
	entry := FarmerDirectoryEntry{
		ID:              p.ID,
		UserID:          p.UserID,
		FarmName:        p.FarmName,
		FarmLocation:    p.FarmLocation,
		FarmDescription: DefaultFarmDescription,
		ProductCount:    len(p.ProductIDs),
	}
	if p.FarmDescription != nil && *p.FarmDescription != "" {
		entry.FarmDescription = *p.FarmDescription
	}
	if p.User != nil {
		entry.Name = p.User.Name
		entry.Email = p.User.Email
		entry.Phone = p.User.Phone
	}
	return entry
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Phone:        c.Phone,
		Address:      c.Address,
		UserType:     c.UserType,
		IsActive:     true,
	}
}

func (c CreateFarmerProfileDTO) ToModel() *models.FarmerProfile {
	return &models.FarmerProfile{
		UserID:          c.UserID,
		FarmName:        c.FarmName,
		FarmLocation:    c.FarmLocation,
		FarmDescription: c.FarmDescription,
		ProductIDs:      dbtypes.UUIDArray{},
	}
}
