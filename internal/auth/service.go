package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmfresh-backend/internal/users"
	pkgauth "github.com/angelmondragon/farmfresh-backend/pkg/auth"
	"github.com/angelmondragon/farmfresh-backend/pkg/auth/session"
	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/security"
)

// badCredentials is the single answer for every credential failure so callers
// cannot probe for accounts.
func badCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

// Service signs users in. An account is identified by email plus user type,
// so the same email may hold a customer and a farmer account.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userRepository interface {
	FindByEmailAndType(ctx context.Context, email string, userType enums.UserType) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type farmerLookup interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string, owner session.Owner) (string, error)
}

type ServiceParams struct {
	UserRepo       userRepository
	FarmerRepo     farmerLookup
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

type service struct {
	users    userRepository
	farmers  farmerLookup
	sessions sessionManager
	jwt      config.JWTConfig
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.UserRepo == nil:
		return nil, errors.New("user repository is required")
	case params.FarmerRepo == nil:
		return nil, errors.New("farmer repository is required")
	case params.SessionManager == nil:
		return nil, errors.New("session manager is required")
	}
	return &service{
		users:    params.UserRepo,
		farmers:  params.FarmerRepo,
		sessions: params.SessionManager,
		jwt:      params.JWTConfig,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if !req.UserType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type")
	}

	user, err := s.checkCredentials(ctx, req)
	if err != nil {
		return nil, err
	}
	farmerID, err := s.farmerIDFor(ctx, user)
	if err != nil {
		return nil, err
	}

	signedInAt := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, signedInAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &signedInAt

	resp := &LoginResponse{User: users.FromModel(user), FarmerID: farmerID}
	if err := s.issueTokens(ctx, resp, user, signedInAt); err != nil {
		return nil, err
	}
	return resp, nil
}

// checkCredentials treats unknown accounts, wrong passwords and deactivated
// users identically.
func (s *service) checkCredentials(ctx context.Context, req LoginRequest) (*models.User, error) {
	email := security.NormalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, badCredentials()
	}

	user, err := s.users.FindByEmailAndType(ctx, email, req.UserType)
	if db.IsNotFound(err) {
		return nil, badCredentials()
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok || !user.IsActive {
		return nil, badCredentials()
	}
	return user, nil
}

// farmerIDFor returns nil for customers and for farmers whose profile row is missing.
func (s *service) farmerIDFor(ctx context.Context, user *models.User) (*uuid.UUID, error) {
	if !user.IsFarmer() {
		return nil, nil
	}
	profile, err := s.farmers.FindByUserID(ctx, user.ID)
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup farmer profile")
	}
	id := profile.ID
	return &id, nil
}

// issueTokens binds a fresh refresh session to the jti of the new access token.
func (s *service) issueTokens(ctx context.Context, resp *LoginResponse, user *models.User, at time.Time) error {
	jti := session.NewAccessID()
	access, err := pkgauth.MintAccessToken(s.jwt, at, pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		UserType: user.UserType,
		FarmerID: resp.FarmerID,
		JTI:      jti,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refresh, err := s.sessions.Generate(ctx, jti, session.Owner{UserID: user.ID, UserType: user.UserType})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	resp.AccessToken, resp.RefreshToken = access, refresh
	return nil
}
