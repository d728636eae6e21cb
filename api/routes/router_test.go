package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/farmfresh-backend/internal/checkout"
	"github.com/angelmondragon/farmfresh-backend/internal/dashboard"
	"github.com/angelmondragon/farmfresh-backend/internal/listings"
	"github.com/angelmondragon/farmfresh-backend/internal/orders"
	pkgAuth "github.com/angelmondragon/farmfresh-backend/pkg/auth"
	"github.com/angelmondragon/farmfresh-backend/pkg/auth/session"
	"github.com/angelmondragon/farmfresh-backend/pkg/config"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
	"github.com/angelmondragon/farmfresh-backend/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (session.Rotation, error) {
	return session.Rotation{}, session.ErrInvalidRefreshToken
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error { return nil }

type stubListings struct {
	listings.Service
}

func (stubListings) PublicCatalog(ctx context.Context, filter listings.CatalogFilter) ([]listings.CatalogProduct, error) {
	return []listings.CatalogProduct{{ID: uuid.New(), Name: "Tomatoes"}}, nil
}

type stubOrders struct {
	orders.Service
	lastActor orders.Actor
	lastNext  enums.OrderStatus
}

func (s *stubOrders) Transition(ctx context.Context, orderID uuid.UUID, actor orders.Actor, next enums.OrderStatus) (*orders.FarmerOrderView, error) {
	s.lastActor = actor
	s.lastNext = next
	return &orders.FarmerOrderView{ID: orderID, Status: next}, nil
}

type stubCheckout struct {
	checkout.Service
}

type stubDashboard struct{}

func (stubDashboard) Overview(ctx context.Context, farmerUserID uuid.UUID) (*dashboard.Overview, error) {
	return &dashboard.Overview{TotalProducts: 3}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "farmfresh-test", ExpirationMinutes: 30},
	}
}

func newTestRouter(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	if deps.Config == nil {
		deps.Config = testConfig()
	}
	deps.Logger = logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})
	deps.Sessions = stubSessionManager{}
	if deps.DB == nil {
		deps.DB = stubPinger{}
	}
	return NewRouter(deps)
}

func bearer(t *testing.T, cfg *config.Config, userType enums.UserType) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	payload := pkgAuth.AccessTokenPayload{UserID: userID, UserType: userType, JTI: session.NewAccessID()}
	if userType == enums.UserTypeFarmer {
		farmerID := uuid.New()
		payload.FarmerID = &farmerID
	}
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), payload)
	require.NoError(t, err)
	return "Bearer " + token, userID
}

func do(h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t, Dependencies{})
	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health/live", "", "").Code)
	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health/ready", "", "").Code)

	down := newTestRouter(t, Dependencies{DB: stubPinger{err: errors.New("connection refused")}})
	require.Equal(t, http.StatusServiceUnavailable, do(down, http.MethodGet, "/health/ready", "", "").Code)
}

func TestMetricsEndpointRecordsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newTestRouter(t, Dependencies{
		Gatherer: reg,
		Metrics:  metrics.NewHTTPMetrics(reg),
		Listings: stubListings{},
	})

	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/products?category=vegetables", "", "").Code)

	rec := do(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `route="/api/v1/products"`)
}

func TestPublicCatalogRejectsBadFilter(t *testing.T) {
	h := newTestRouter(t, Dependencies{Listings: stubListings{}})
	rec := do(h, http.MethodGet, "/api/v1/products?sort=sideways", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t, Dependencies{})
	for _, path := range []string{"/api/v1/me", "/api/v1/cart", "/api/v1/farmer/overview", "/api/v1/orders"} {
		require.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, path, "", "").Code, path)
	}
}

func TestUserTypeGates(t *testing.T) {
	cfg := testConfig()
	h := newTestRouter(t, Dependencies{Config: cfg, Dashboard: stubDashboard{}})
	customer, _ := bearer(t, cfg, enums.UserTypeCustomer)
	farmer, _ := bearer(t, cfg, enums.UserTypeFarmer)

	require.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/api/v1/farmer/overview", customer, "").Code)
	require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/farmer/overview", farmer, "").Code)
	require.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/api/v1/cart", farmer, "").Code)
	require.Equal(t, http.StatusForbidden, do(h, http.MethodPost, "/api/v1/products", customer, `{}`).Code)
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	h := newTestRouter(t, Dependencies{Config: cfg, Checkout: stubCheckout{}})
	customer, _ := bearer(t, cfg, enums.UserTypeCustomer)

	rec := do(h, http.MethodPost, "/api/v1/checkout", customer, `{"delivery_slot":"morning"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFarmerStatusChangeUsesTokenIdentity(t *testing.T) {
	cfg := testConfig()
	stub := &stubOrders{}
	h := newTestRouter(t, Dependencies{Config: cfg, Orders: stub})
	farmer, farmerUserID := bearer(t, cfg, enums.UserTypeFarmer)
	orderID := uuid.New()

	rec := do(h, http.MethodPut, "/api/v1/farmer/orders/"+orderID.String()+"/status", farmer, `{"status":"Processing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, farmerUserID, stub.lastActor.UserID)
	require.Equal(t, enums.UserTypeFarmer, stub.lastActor.Role)
	require.Equal(t, enums.OrderStatusProcessing, stub.lastNext)

	rec = do(h, http.MethodPut, "/api/v1/farmer/orders/"+orderID.String()+"/status", farmer, `{"status":"Lost"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRejectsUnknownRefreshToken(t *testing.T) {
	cfg := testConfig()
	h := newTestRouter(t, Dependencies{Config: cfg})
	customer, _ := bearer(t, cfg, enums.UserTypeCustomer)

	rec := do(h, http.MethodPost, "/api/v1/auth/refresh", customer, `{"refresh_token":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
