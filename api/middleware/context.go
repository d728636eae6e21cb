package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxUserType contextKey = "user_type"
	ctxFarmerID contextKey = "farmer_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func UserTypeFromContext(ctx context.Context) enums.UserType {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserType).(enums.UserType); ok {
		return v
	}
	return ""
}

// FarmerIDFromContext returns the farmer profile id carried by a farmer's token.
func FarmerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxFarmerID).(string); ok {
		return v
	}
	return ""
}

// UserUUIDFromContext parses the authenticated user id.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	raw := UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithUserType injects the account type into the context.
func WithUserType(ctx context.Context, userType enums.UserType) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserType, userType)
}

func WithFarmerID(ctx context.Context, farmerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxFarmerID, farmerID)
}
