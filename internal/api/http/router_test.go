package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/grocery-service/internal/api/http/handlers"
	"github.com/spec-kit/grocery-service/internal/auth"
	"github.com/spec-kit/grocery-service/internal/domain"
	"github.com/spec-kit/grocery-service/internal/observability"
	"github.com/spec-kit/grocery-service/internal/repository"
	"github.com/spec-kit/grocery-service/internal/service"
)

type stubUsers map[string]*domain.User

func (s stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

type stubStaff map[string]*domain.StaffMember

func (s stubStaff) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	if m, ok := s[id]; ok {
		return m, nil
	}
	return nil, pgx.ErrNoRows
}

type stubPromos struct {
	repository.PromoRepository
}

func (stubPromos) GetByCode(_ context.Context, code string) (*domain.PromoCode, error) {
	if code == "SAVE5" {
		return &domain.PromoCode{Code: code, Value: decimal.NewFromInt(5), Active: true}, nil
	}
	return nil, pgx.ErrNoRows
}

type stubOrders struct {
	repository.OrderRepository
}

func (stubOrders) ListAll(context.Context) ([]domain.Order, error) {
	return []domain.Order{{ID: "o1", Amount: decimal.NewFromInt(45), Status: domain.OrderStatusPlaced}}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

const testSecret = "router-secret"

type testServer struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, readyErr error) *testServer {
	t.Helper()
	return newTestServerWith(t, readyErr, MiddlewareConfig{})
}

func newTestServerWith(t *testing.T, readyErr error, mwCfg MiddlewareConfig) *testServer {
	t.Helper()
	tokens := auth.NewTokenManager(testSecret, 60)
	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	promoSvc := service.NewPromoService(stubPromos{})
	orderSvc := service.NewOrderService(service.OrderDependencies{Promos: promoSvc})
	analyticsSvc := service.NewAnalyticsService(stubOrders{})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, mwCfg)
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("grocery-service", "test", map[string]handlers.Pinger{"postgres": pinger{err: readyErr}}, metrics),
		Users:     handlers.NewUsersHandler(nil),
		Staff:     handlers.NewStaffHandler(nil, nil),
		Cart:      handlers.NewCartHandler(nil),
		Orders:    handlers.NewOrdersHandler(orderSvc, nil),
		Promos:    handlers.NewPromosHandler(promoSvc),
		Analytics: handlers.NewAnalyticsHandler(analyticsSvc),
		Products:  handlers.NewProductsHandler(nil),
		AuthMiddleware: auth.NewAuthMiddleware(tokens,
			stubUsers{"user-1": {ID: "user-1", Status: domain.UserStatusActive}},
			stubStaff{
				"acct-1":  {ID: "acct-1", Role: domain.RoleAccountant, Active: true},
				"rider-1": {ID: "rider-1", Role: domain.RoleDeliveryman, Active: true},
			},
		),
	})
	return &testServer{app: app, tokens: tokens, metrics: metrics}
}

func (s *testServer) token(t *testing.T, id string, subject domain.SubjectType, role domain.Role) string {
	t.Helper()
	token, _, err := s.tokens.GenerateToken(id, subject, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	status, body := srv.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	down := newTestServer(t, errors.New("connection refused"))
	status, body = down.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, false, body["success"])
}

func TestPromoValidate_UnknownCodeIsSoftFalse(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodPost, "/promos/validate", `{"code":"BADCODE"}`, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["data"].(map[string]any)["valid"])

	_, body = srv.do(t, http.MethodPost, "/promos/validate", `{"code":"save5"}`, "")
	assert.Equal(t, true, body["data"].(map[string]any)["valid"])
}

func TestErrorEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.NotEmpty(t, body["message"])

	status, body = srv.do(t, http.MethodGet, "/no/such/route", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body = srv.do(t, http.MethodPost, "/promos/validate", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	assert.NotEmpty(t, srv.metrics.Snapshot().Errors)
}

func TestGuestCheckoutRequiresPhone(t *testing.T) {
	srv := newTestServer(t, nil)
	payload := `{"address":{"full_name":"Ada","line1":"1 Market St","city":"London"},"items":[{"product_id":"A","size":"M","quantity":1}]}`

	status, body := srv.do(t, http.MethodPost, "/orders", payload, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}

func TestDashboardPermissions(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodGet, "/analytics/dashboard", "", srv.token(t, "user-1", domain.SubjectTypeUser, domain.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = srv.do(t, http.MethodGet, "/analytics/dashboard", "", srv.token(t, "rider-1", domain.SubjectTypeStaff, domain.RoleDeliveryman))
	assert.Equal(t, http.StatusForbidden, status)

	status, body = srv.do(t, http.MethodGet, "/analytics/dashboard", "", srv.token(t, "acct-1", domain.SubjectTypeStaff, domain.RoleAccountant))
	require.Equal(t, http.StatusOK, status)
	totals := body["data"].(map[string]any)["totals"].(map[string]any)
	assert.Equal(t, float64(1), totals["orders"])
	assert.Equal(t, "45", totals["revenue"])
}

func TestStaffRoutesRejectCustomers(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.token(t, "user-1", domain.SubjectTypeUser, domain.RoleCustomer)

	status, body := srv.do(t, http.MethodPatch, "/orders/o1/status", `{"status":"PROCESSING"}`, token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, _ = srv.do(t, http.MethodGet, "/staff", "", token)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSoftFailErrors(t *testing.T) {
	srv := newTestServerWith(t, nil, MiddlewareConfig{SoftFail: true})

	status, body := srv.do(t, http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, body = srv.do(t, http.MethodPost, "/promos/validate", `{"code":"SAVE5"}`, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
}
