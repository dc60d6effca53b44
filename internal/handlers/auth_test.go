package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vmilosev/ledara-api/internal/apperr"
	"github.com/vmilosev/ledara-api/internal/middleware"
	"github.com/vmilosev/ledara-api/internal/models"
	"github.com/vmilosev/ledara-api/internal/oauth"
	"github.com/vmilosev/ledara-api/internal/services"
	"github.com/vmilosev/ledara-api/pkg/dto"
	"github.com/vmilosev/ledara-api/tests/testutil"
)

func setupAuthTest(t *testing.T) (*testutil.MockAuthService, *AuthHandler) {
	t.Helper()
	mockAuthService := new(testutil.MockAuthService)

	handler := &AuthHandler{
		authService: mockAuthService,
		providers:   make(map[string]oauth.Provider),
	}

	return mockAuthService, handler
}

func testJWTService() *services.JWTService {
	return services.NewJWTService("access-secret", "refresh-secret", 24*time.Hour, 720*time.Hour)
}

func authResultFixture(userUUID uuid.UUID) *services.AuthResult {
	return &services.AuthResult{
		User: &models.User{
			UUID:     userUUID,
			Email:    "test@example.com",
			Username: "testuser",
			Roles:    []string{models.RoleAppUser},
			Status:   models.StatusPending,
		},
		Tokens: &services.TokenPair{
			AccessToken:  "access-token-123",
			RefreshToken: "refresh-token-456",
			ExpiresIn:    86400,
		},
	}
}

func postJSON(t *testing.T, app http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	userUUID := uuid.New()
	result := authResultFixture(userUUID)

	mockAuthService.On("Register", mock.Anything, mock.MatchedBy(func(p services.CreateUserParams) bool {
		return p.Email == "test@example.com" && p.Username == "testuser"
	})).Return(result, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)

	rec := postJSON(t, app, "/auth/register", dto.RegisterRequest{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "s3cret-password",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "access-token-123", response.AccessToken)
	assert.Equal(t, "refresh-token-456", response.RefreshToken)
	assert.Equal(t, userUUID, response.User.UUID)

	mockAuthService.AssertExpectations(t)
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	_, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)

	testCases := []struct {
		name    string
		request dto.RegisterRequest
		message string
	}{
		{"bad email", dto.RegisterRequest{Email: "not-an-email", Username: "u", Password: "longenough"}, "a valid email is required"},
		{"missing username", dto.RegisterRequest{Email: "a@b.com", Password: "longenough"}, "username is required"},
		{"short password", dto.RegisterRequest{Email: "a@b.com", Username: "u", Password: "short"}, "password must be at least 8 characters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, app, "/auth/register", tc.request)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.message)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	mockAuthService.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperr.Validation("user with this email already exists"))

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/register", handler.Register)

	rec := postJSON(t, app, "/auth/register", dto.RegisterRequest{
		Email:    "taken@example.com",
		Username: "testuser",
		Password: "s3cret-password",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user with this email already exists")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	result := authResultFixture(uuid.New())
	mockAuthService.On("Login", mock.Anything, "test@example.com", "s3cret-password").Return(result, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/login", handler.Login)

	rec := postJSON(t, app, "/auth/login", dto.LoginRequest{
		Email:    "test@example.com",
		Password: "s3cret-password",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "access-token-123", response.AccessToken)

	mockAuthService.AssertExpectations(t)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	mockAuthService.On("Login", mock.Anything, "test@example.com", "wrong").
		Return(nil, apperr.Authentication("invalid credentials"))

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/login", handler.Login)

	rec := postJSON(t, app, "/auth/login", dto.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	_, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/login", handler.Login)

	rec := postJSON(t, app, "/auth/login", dto.LoginRequest{Email: "test@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password is required")
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	newPair := &services.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
		ExpiresIn:    86400,
	}
	mockAuthService.On("Refresh", mock.Anything, "old-refresh-token").Return(newPair, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	rec := postJSON(t, app, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "old-refresh-token"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "new-access-token", response.AccessToken)
	assert.Equal(t, "new-refresh-token", response.RefreshToken)

	mockAuthService.AssertExpectations(t)
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	_, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	rec := postJSON(t, app, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh_token is required")
}

func TestAuthHandler_RefreshToken_InvalidToken(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	mockAuthService.On("Refresh", mock.Anything, "spent-token").
		Return(nil, apperr.Authentication("invalid refresh token"))

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/auth/refresh", handler.RefreshToken)

	rec := postJSON(t, app, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "spent-token"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid refresh token")
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)
	jwtSvc := testJWTService()

	userUUID := uuid.New()
	mockAuthService.On("Logout", mock.Anything, userUUID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/auth/logout", handler.Logout)

	pair, err := jwtSvc.GenerateTokenPair(userUUID, "test@example.com", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "logged out")

	mockAuthService.AssertExpectations(t)
}

func TestAuthHandler_Logout_NotAuthenticated(t *testing.T) {
	_, handler := setupAuthTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testJWTService()))
	app.Post("/auth/logout", handler.Logout)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Me_Success(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)
	jwtSvc := testJWTService()

	userUUID := uuid.New()
	user := &models.User{
		UUID:     userUUID,
		Email:    "test@example.com",
		Username: "testuser",
		Roles:    []string{models.RoleAppUser},
		Status:   models.StatusActive,
	}
	mockAuthService.On("ValidateUser", mock.Anything, userUUID).Return(user, nil)

	app := drift.New()
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/auth/me", handler.Me)

	pair, err := jwtSvc.GenerateTokenPair(userUUID, user.Email, user.Roles)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, userUUID, response.UUID)
	assert.Equal(t, "test@example.com", response.Email)

	mockAuthService.AssertExpectations(t)
}

func TestAuthHandler_GetConsentURL_UnsupportedProvider(t *testing.T) {
	_, handler := setupAuthTest(t)

	app := drift.New()
	app.Get("/auth/:provider/consent", handler.GetConsentURL)

	req := httptest.NewRequest(http.MethodGet, "/auth/unsupported/consent", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported provider")
}

func TestAuthHandler_GetConsentURL_Success(t *testing.T) {
	_, handler := setupAuthTest(t)

	mockProvider := new(testutil.MockOAuthProvider)
	mockProvider.On("GetConsentURL", mock.AnythingOfType("string")).Return("https://accounts.google.com/o/oauth2/auth?state=abc")
	handler.providers["google"] = mockProvider

	app := drift.New()
	app.Get("/auth/:provider/consent", handler.GetConsentURL)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/consent", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.ConsentURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response.URL, "https://accounts.google.com")

	mockProvider.AssertExpectations(t)
}

func TestAuthHandler_Callback_UnsupportedProvider(t *testing.T) {
	_, handler := setupAuthTest(t)

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/unsupported/callback?code=abc&state=xyz", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported provider")
}

func TestAuthHandler_Callback_MissingState(t *testing.T) {
	_, handler := setupAuthTest(t)
	handler.providers["google"] = new(testutil.MockOAuthProvider)

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing state parameter")
}

func TestAuthHandler_Callback_InvalidState(t *testing.T) {
	_, handler := setupAuthTest(t)
	handler.providers["google"] = new(testutil.MockOAuthProvider)

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=never-issued", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired state")
}

func TestAuthHandler_Callback_ExpiredState(t *testing.T) {
	_, handler := setupAuthTest(t)
	handler.providers["google"] = new(testutil.MockOAuthProvider)

	state := "expired-state"
	handler.states.Store(state, stateData{expiresAt: time.Now().Add(-1 * time.Minute)})

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+state, nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "state expired")
}

func TestAuthHandler_Callback_StateIsSingleUse(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	mockProvider := new(testutil.MockOAuthProvider)
	userInfo := &oauth.UserInfo{ID: "12345", Email: "test@example.com", Name: "Test User", Provider: "google"}
	mockProvider.On("ExchangeCode", mock.Anything, "test-code").Return(userInfo, nil).Once()
	handler.providers["google"] = mockProvider

	mockAuthService.On("GoogleLogin", mock.Anything, userInfo).Return(authResultFixture(uuid.New()), nil).Once()

	state := "one-shot-state"
	handler.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=test-code&state="+state, nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Replaying the same state must fail.
	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=test-code&state="+state, nil)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Callback_MissingCode(t *testing.T) {
	_, handler := setupAuthTest(t)
	handler.providers["google"] = new(testutil.MockOAuthProvider)

	state := "valid-state"
	handler.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization code")
}

func TestAuthHandler_Callback_ExchangeCodeError(t *testing.T) {
	_, handler := setupAuthTest(t)

	mockProvider := new(testutil.MockOAuthProvider)
	mockProvider.On("ExchangeCode", mock.Anything, "test-code").Return(nil, errors.New("exchange failed"))
	handler.providers["google"] = mockProvider

	state := "valid-state"
	handler.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=test-code&state="+state, nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to exchange authorization code")

	mockProvider.AssertExpectations(t)
}

func TestAuthHandler_Callback_Success(t *testing.T) {
	mockAuthService, handler := setupAuthTest(t)

	mockProvider := new(testutil.MockOAuthProvider)
	userInfo := &oauth.UserInfo{ID: "12345", Email: "test@example.com", Name: "Test User", Provider: "google"}
	mockProvider.On("ExchangeCode", mock.Anything, "test-code").Return(userInfo, nil)
	handler.providers["google"] = mockProvider

	userUUID := uuid.New()
	mockAuthService.On("GoogleLogin", mock.Anything, userInfo).Return(authResultFixture(userUUID), nil)

	state := "valid-state"
	handler.states.Store(state, stateData{expiresAt: time.Now().Add(10 * time.Minute)})

	app := drift.New()
	app.Get("/auth/:provider/callback", handler.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=test-code&state="+state, nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, userUUID, response.User.UUID)
	assert.NotEmpty(t, response.AccessToken)

	mockProvider.AssertExpectations(t)
	mockAuthService.AssertExpectations(t)
}
