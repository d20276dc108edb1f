package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bazario/marketplace-api/internal/config"
	"github.com/bazario/marketplace-api/internal/errs"
	"github.com/bazario/marketplace-api/internal/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Auth: config.AuthConfig{SecretKey: testSecret},
		},
		Logger: &logger,
	}
}

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func invokeAuth(t *testing.T, token string) (error, bool, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/Api/Product/AddProduct", nil)
	if token != "" {
		req.Header.Set(AuthTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	auth := NewAuthMiddleware(newAuthTestServer())

	invoked := false
	err := auth.RequireAuth(func(c echo.Context) error {
		invoked = true
		return nil
	})(c)

	return err, invoked, c
}

func TestRequireAuth_MissingToken(t *testing.T) {
	err, invoked, _ := invokeAuth(t, "")
	require.Error(t, err)
	assert.False(t, invoked)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Equal(t, "Authentication token is required", httpErr.Message)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	err, invoked, _ := invokeAuth(t, "not-a-jwt")
	require.Error(t, err)
	assert.False(t, invoked)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Equal(t, "Invalid or expired token", httpErr.Message)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "another-secret", "user-1", time.Now().Add(time.Hour))

	err, invoked, _ := invokeAuth(t, token)
	require.Error(t, err)
	assert.False(t, invoked)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, "user-1", time.Now().Add(-time.Hour))

	err, invoked, _ := invokeAuth(t, token)
	require.Error(t, err)
	assert.False(t, invoked)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Invalid or expired token", httpErr.Message)
}

func TestRequireAuth_MissingSubject(t *testing.T) {
	token := signToken(t, testSecret, "", time.Now().Add(time.Hour))

	err, invoked, _ := invokeAuth(t, token)
	require.Error(t, err)
	assert.False(t, invoked)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Invalid token claims", httpErr.Message)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, "user-42", time.Now().Add(time.Hour))

	err, invoked, c := invokeAuth(t, token)
	require.NoError(t, err)
	assert.True(t, invoked)
	assert.Equal(t, "user-42", GetUserID(c))
}

func TestGetUserID_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "", GetUserID(c))
}
