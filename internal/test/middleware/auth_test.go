package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartwish-backend/internal/config"
	"smartwish-backend/internal/middleware"
)

const testSecret = "test-jwt-secret"

func testRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SupabaseJWTSecret: secret}

	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(middleware.UserIDKey),
			"email":   c.GetString(middleware.UserEmailKey),
		})
	})
	return r
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := testRouter(testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := testRouter(testSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid authorization header format")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := testRouter(testSecret)

	token := signToken(t, "some-other-secret", jwt.MapClaims{
		"sub": "4d3f6f5c-0000-0000-0000-000000000000",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r := testRouter(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "4d3f6f5c-0000-0000-0000-000000000000",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r := testRouter(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "4d3f6f5c-0000-0000-0000-000000000000",
		"email": "tester@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "4d3f6f5c-0000-0000-0000-000000000000")
	assert.Contains(t, w.Body.String(), "tester@example.com")
}

func TestAuthMiddleware_MissingSubClaim(t *testing.T) {
	r := testRouter(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing user id in token")
}
