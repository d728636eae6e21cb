package auth

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/internal/users"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

// LoginRequest captures the credentials and the account type being signed into.
type LoginRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required"`
	UserType enums.UserType `json:"user_type" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
	FarmerID     *uuid.UUID     `json:"farmer_id,omitempty"`
}
