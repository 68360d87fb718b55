package requests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vidalink/telemed/pkg/logger"
	"github.com/vidalink/telemed/pkg/monitoring"
	"github.com/vidalink/telemed/pkg/types"
)

const testJWTSecret = "test-secret"

// MockRequestService is a mock implementation of RequestService
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) SubmitRequest(ctx context.Context, req *types.Request, actor *types.UserClaims) (*types.Request, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Request), args.Error(1)
}

func (m *MockRequestService) GetRequest(ctx context.Context, requestID string, actor *types.UserClaims) (*types.Request, error) {
	args := m.Called(ctx, requestID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Request), args.Error(1)
}

func (m *MockRequestService) ListRequests(ctx context.Context, filters *types.RequestFilters, actor *types.UserClaims) (*types.RequestPage, error) {
	args := m.Called(ctx, filters, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RequestPage), args.Error(1)
}

func (m *MockRequestService) TransitionStatus(ctx context.Context, requestID string, action types.TransitionAction, actor *types.UserClaims) (*types.Request, error) {
	args := m.Called(ctx, requestID, action, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Request), args.Error(1)
}

func (m *MockRequestService) GetRequestView(ctx context.Context, requestID string, actor *types.UserClaims) (*types.RequestUiModel, error) {
	args := m.Called(ctx, requestID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RequestUiModel), args.Error(1)
}

func (m *MockRequestService) PatientDashboard(ctx context.Context, actor *types.UserClaims) (*types.PatientDashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PatientDashboard), args.Error(1)
}

func (m *MockRequestService) DoctorDashboard(ctx context.Context, actor *types.UserClaims) (*types.DoctorDashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.DoctorDashboard), args.Error(1)
}

func setupTestServer(t *testing.T) (*Server, *MockRequestService, *mux.Router) {
	t.Helper()

	mockService := &MockRequestService{}
	server := &Server{
		service:   mockService,
		validator: NewTokenValidator(testJWTSecret),
		logger:    logger.New("debug"),
		health:    monitoring.NewHealthManager("request-service", "test"),
	}

	router := mux.NewRouter()
	server.setupRoutes(router)

	return server, mockService, router
}

func signTestToken(t *testing.T, userID string, role types.Role) string {
	t.Helper()

	claims := &JWTClaims{
		UserID:   userID,
		Username: "test-user",
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, _, router := setupTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/requests", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_BadScheme(t *testing.T) {
	_, _, router := setupTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/requests", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	_, _, router := setupTestServer(t)

	claims := &JWTClaims{UserID: "u1", Role: "patient"}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/requests", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListRequestsHandler(t *testing.T) {
	_, mockService, router := setupTestServer(t)

	page := &types.RequestPage{
		Items:      []*types.Request{{ID: "req-1", Status: "submitted", RequestType: types.KindPrescription}},
		TotalCount: 1,
	}
	mockService.On("ListRequests", mock.Anything, mock.AnythingOfType("*types.RequestFilters"), mock.MatchedBy(func(c *types.UserClaims) bool {
		return c.UserID == "patient-123" && c.Role == types.RolePatient
	})).Return(page, nil)

	req := httptest.NewRequest("GET", "/api/v1/requests?limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "patient-123", types.RolePatient))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got types.RequestPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 1, got.TotalCount)
	mockService.AssertExpectations(t)
}

func TestSubmitRequestHandler(t *testing.T) {
	_, mockService, router := setupTestServer(t)

	created := &types.Request{ID: "req-9", Status: "submitted", RequestType: types.KindPrescription}
	mockService.On("SubmitRequest", mock.Anything, mock.AnythingOfType("*types.Request"), mock.Anything).Return(created, nil)

	body := `{"request_type":"prescription","medications":["Dipirona 500mg"]}`
	req := httptest.NewRequest("POST", "/api/v1/requests", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "patient-123", types.RolePatient))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestTransitionHandler_Blocked(t *testing.T) {
	_, mockService, router := setupTestServer(t)

	mockService.On("TransitionStatus", mock.Anything, "req-1", types.ActionPay, mock.Anything).
		Return(nil, types.NewConflictError("ACTION_NOT_ALLOWED", "Esta ação não está disponível no momento"))

	req := httptest.NewRequest("POST", "/api/v1/requests/req-1/actions/pay", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "patient-123", types.RolePatient))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body["details"], "Esta ação não está disponível no momento")
}

func TestGetRequestHandler_NotFound(t *testing.T) {
	_, mockService, router := setupTestServer(t)

	mockService.On("GetRequest", mock.Anything, "missing", mock.Anything).
		Return(nil, types.NewNotFoundError("request", "missing"))

	req := httptest.NewRequest("GET", "/api/v1/requests/missing", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "patient-123", types.RolePatient))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRequestViewHandler(t *testing.T) {
	_, mockService, router := setupTestServer(t)

	view := &types.RequestUiModel{
		Phase: types.PhaseAwaitingPayment,
		Title: "Aguardando pagamento",
		Badge: types.UiBadge{Label: "Aguardando pagamento", ColorKey: types.ColorWaiting},
	}
	mockService.On("GetRequestView", mock.Anything, "req-1", mock.Anything).Return(view, nil)

	req := httptest.NewRequest("GET", "/api/v1/requests/req-1/view", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "patient-123", types.RolePatient))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got types.RequestUiModel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, types.PhaseAwaitingPayment, got.Phase)
}

func TestDashboardHandlers(t *testing.T) {
	_, mockService, router := setupTestServer(t)

	mockService.On("DoctorDashboard", mock.Anything, mock.MatchedBy(func(c *types.UserClaims) bool {
		return c.Role == types.RoleDoctor
	})).Return(&types.DoctorDashboard{
		Counters: types.DoctorCounterSet{NaFila: 2, PendentesTotal: 2},
	}, nil)

	req := httptest.NewRequest("GET", "/api/v1/dashboard/doctor", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "doctor-456", types.RoleDoctor))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got types.DoctorDashboard
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 2, got.Counters.NaFila)
}

func TestHealthEndpointSkipsAuth(t *testing.T) {
	_, _, router := setupTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	// No checkers registered, so the report is healthy
	assert.Equal(t, http.StatusOK, rec.Code)
}
