package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/angelmondragon/farmfresh-backend/pkg/auth"
	"github.com/angelmondragon/farmfresh-backend/pkg/auth/session"
	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/security"
)

type stubUserRepository struct {
	user      *models.User
	lastLogin time.Time
}

func (s *stubUserRepository) FindByEmailAndType(ctx context.Context, email string, userType enums.UserType) (*models.User, error) {
	if s.user != nil && s.user.Email == email && s.user.UserType == userType {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = at
	return nil
}

type stubFarmerLookup struct {
	profile *models.FarmerProfile
	err     error
}

func (s stubFarmerLookup) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

type stubSessionManager struct {
	accessID string
	owner    session.Owner
	err      error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string, owner session.Owner) (string, error) {
	s.accessID = accessID
	s.owner = owner
	return "refresh-token", s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "farmfresh", ExpirationMinutes: 30}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestServiceLoginFarmerCarriesFarmerID(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "farmer@example.com",
		PasswordHash: mustHashPassword(t, "secret1"),
		Name:         "Farmer",
		UserType:     enums.UserTypeFarmer,
		IsActive:     true,
	}
	profile := &models.FarmerProfile{ID: uuid.New(), UserID: user.ID}
	users := &stubUserRepository{user: user}
	sessions := &stubSessionManager{}
	cfg := testJWTConfig()

	svc, err := NewService(ServiceParams{
		UserRepo:       users,
		FarmerRepo:     stubFarmerLookup{profile: profile},
		SessionManager: sessions,
		JWTConfig:      cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Farmer@Example.com ",
		Password: "secret1",
		UserType: enums.UserTypeFarmer,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserType != enums.UserTypeFarmer {
		t.Fatalf("expected farmer claim, got %s", claims.UserType)
	}
	if claims.FarmerID == nil || *claims.FarmerID != profile.ID {
		t.Fatalf("expected farmer id %s in claims, got %v", profile.ID, claims.FarmerID)
	}
	if claims.ID != sessions.accessID {
		t.Fatalf("expected jti %s to key the session, got %s", sessions.accessID, claims.ID)
	}
	if sessions.owner.UserID != user.ID || sessions.owner.UserType != enums.UserTypeFarmer {
		t.Fatalf("unexpected session owner %+v", sessions.owner)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token, got %q", resp.RefreshToken)
	}
	if users.lastLogin.IsZero() {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsWrongTypeOrPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "customer@example.com",
		PasswordHash: mustHashPassword(t, "secret1"),
		UserType:     enums.UserTypeCustomer,
		IsActive:     true,
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepository{user: user},
		FarmerRepo:     stubFarmerLookup{},
		SessionManager: &stubSessionManager{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	cases := []LoginRequest{
		{Email: user.Email, Password: "secret1", UserType: enums.UserTypeFarmer},
		{Email: user.Email, Password: "wrong-password", UserType: enums.UserTypeCustomer},
		{Email: "", Password: "secret1", UserType: enums.UserTypeCustomer},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized for %+v, got %v", req, err)
		}
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "secret1", UserType: "admin"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown user type, got %v", err)
	}
}

func TestServiceLoginSessionFailure(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "customer@example.com",
		PasswordHash: mustHashPassword(t, "secret1"),
		UserType:     enums.UserTypeCustomer,
		IsActive:     true,
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepository{user: user},
		FarmerRepo:     stubFarmerLookup{},
		SessionManager: &stubSessionManager{err: errors.New("redis down")},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "secret1", UserType: enums.UserTypeCustomer})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "dormant@example.com",
		PasswordHash: mustHashPassword(t, "secret1"),
		UserType:     enums.UserTypeCustomer,
		IsActive:     false,
	}
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepository{user: user},
		FarmerRepo:     stubFarmerLookup{},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	_, err = svc.Login(context.Background(), LoginRequest{Email: "  Dormant@Example.com", Password: "secret1", UserType: enums.UserTypeCustomer})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for inactive user, got %v", err)
	}
	if sessions.accessID != "" {
		t.Fatal("no session should be created for an inactive user")
	}
}
