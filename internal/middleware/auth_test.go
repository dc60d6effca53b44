package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmilosev/ledara-api/internal/services"
)

func newTestJWTService() *services.JWTService {
	return services.NewJWTService("access-secret", "refresh-secret", 24*time.Hour, 720*time.Hour)
}

func generateTestToken(t *testing.T, jwtSvc *services.JWTService, userUUID uuid.UUID, email string, roles []string) string {
	t.Helper()
	pair, err := jwtSvc.GenerateTokenPair(userUUID, email, roles)
	require.NoError(t, err)
	return pair.AccessToken
}

func protectedApp(jwtSvc *services.JWTService, handler drift.HandlerFunc) http.Handler {
	app := drift.New()
	app.Use(Auth(jwtSvc))
	app.Get("/protected", handler)
	return app
}

func okHandler(c *drift.Context) {
	_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestAuth_MissingAuthorizationHeader(t *testing.T) {
	app := protectedApp(newTestJWTService(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestAuth_InvalidAuthorizationFormat(t *testing.T) {
	app := protectedApp(newTestJWTService(), okHandler)

	testCases := []struct {
		name   string
		header string
	}{
		{"wrong scheme", "Token some-token"},
		{"only bearer", "Bearer"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tc.header)
			rec := httptest.NewRecorder()

			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid authorization header format")
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	app := protectedApp(newTestJWTService(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestAuth_ExpiredToken(t *testing.T) {
	jwtSvc := services.NewJWTService("access-secret", "refresh-secret", 1*time.Millisecond, 720*time.Hour)
	token := generateTestToken(t, jwtSvc, uuid.New(), "test@example.com", nil)

	time.Sleep(10 * time.Millisecond)

	app := protectedApp(jwtSvc, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestAuth_RefreshTokenRejectedAsAccessToken(t *testing.T) {
	jwtSvc := newTestJWTService()
	pair, err := jwtSvc.GenerateTokenPair(uuid.New(), "test@example.com", nil)
	require.NoError(t, err)

	app := protectedApp(jwtSvc, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	jwtSvc := newTestJWTService()
	userUUID := uuid.New()
	email := "test@example.com"
	roles := []string{"AppUser", "Admin"}
	token := generateTestToken(t, jwtSvc, userUUID, email, roles)

	var extractedUUID uuid.UUID
	var extractedEmail string
	var extractedRoles []string

	app := protectedApp(jwtSvc, func(c *drift.Context) {
		extractedUUID = GetUserUUID(c)
		extractedEmail = GetUserEmail(c)
		extractedRoles = GetUserRoles(c)
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userUUID, extractedUUID)
	assert.Equal(t, email, extractedEmail)
	assert.Equal(t, roles, extractedRoles)
}

func TestAuth_BearerCaseInsensitive(t *testing.T) {
	jwtSvc := newTestJWTService()
	token := generateTestToken(t, jwtSvc, uuid.New(), "test@example.com", nil)
	app := protectedApp(jwtSvc, okHandler)

	testCases := []string{"bearer", "BEARER", "BeArEr"}

	for _, bearer := range testCases {
		t.Run(bearer, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", bearer+" "+token)
			rec := httptest.NewRecorder()

			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestGetUserUUID_NotSet(t *testing.T) {
	app := drift.New()

	var extractedUUID uuid.UUID
	app.Get("/test", func(c *drift.Context) {
		extractedUUID = GetUserUUID(c)
		_ = c.JSON(http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, uuid.Nil, extractedUUID)
}

func TestGetUserEmail_NotSet(t *testing.T) {
	app := drift.New()

	var extractedEmail string
	app.Get("/test", func(c *drift.Context) {
		extractedEmail = GetUserEmail(c)
		_ = c.JSON(http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, "", extractedEmail)
}
