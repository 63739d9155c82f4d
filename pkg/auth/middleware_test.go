package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outboundhq/dialer/internal/config"
	"github.com/outboundhq/dialer/pkg/apperror"
	"github.com/outboundhq/dialer/pkg/logger"
)

const systemAdminID = "00000000-0000-0000-0000-00000000b40d"

func testKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	return key, string(pubPEM)
}

func signToken(t *testing.T, key *rsa.PrivateKey, acct string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"acct": acct,
		"sub":  "user-1",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func newTestMiddleware(t *testing.T, pubPEM string) *Middleware {
	t.Helper()
	cfg := &config.Config{Auth: config.AuthConfig{JWTPublicKey: pubPEM, SystemAdminAccountID: systemAdminID}}
	m, err := NewMiddleware(cfg, logger.NewLogger())
	require.NoError(t, err)
	return m
}

func TestMiddleware_RequireAuth(t *testing.T) {
	key, pubPEM := testKeyPair(t)
	m := newTestMiddleware(t, pubPEM)

	t.Run("valid token sets user", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, key, "tenant-a"))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := m.RequireAuth()(func(c echo.Context) error {
			user := GetUser(c)
			require.NotNil(t, user)
			assert.Equal(t, "tenant-a", user.AccountID)
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
	})

	t.Run("missing header rejected", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := m.RequireAuth()(func(c echo.Context) error { return nil })(c)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := m.RequireAuth()(func(c echo.Context) error { return nil })(c)
		_, ok := apperror.AsAppError(err)
		require.True(t, ok)
	})

	t.Run("wrong signing key rejected", func(t *testing.T) {
		otherKey, _ := testKeyPair(t)
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, otherKey, "tenant-a"))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := m.RequireAuth()(func(c echo.Context) error { return nil })(c)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "invalid_token", appErr.Code)
	})
}

func TestMiddleware_RequireTenant(t *testing.T) {
	_, pubPEM := testKeyPair(t)
	m := newTestMiddleware(t, pubPEM)

	run := func(t *testing.T, acct, tenantID string) error {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/tenants/"+tenantID, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("tenantId")
		c.SetParamValues(tenantID)
		c.Set(string(userContextKey), &AuthUser{AccountID: acct})

		return m.RequireTenant()(func(c echo.Context) error { return nil })(c)
	}

	t.Run("matching tenant passes", func(t *testing.T) {
		assert.NoError(t, run(t, "tenant-a", "tenant-a"))
	})

	t.Run("mismatched tenant returns not found, not forbidden", func(t *testing.T) {
		err := run(t, "tenant-a", "tenant-b")
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	})

	t.Run("system admin crosses tenants", func(t *testing.T) {
		assert.NoError(t, run(t, systemAdminID, "tenant-b"))
	})
}
