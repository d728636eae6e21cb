package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	UserType enums.UserType
	FarmerID *uuid.UUID
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. The verified
// user id and user type are the only identity the API trusts.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	UserType enums.UserType `json:"user_type"`
	FarmerID *uuid.UUID     `json:"farmer_id,omitempty"`
	jwt.RegisteredClaims
}
