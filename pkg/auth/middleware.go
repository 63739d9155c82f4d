// Package auth verifies RS256 bearer tokens and enforces tenant scoping
// against the {tenantId} path parameter.
package auth

import (
	"crypto/rsa"
	"errors"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/internal/config"
	"github.com/outboundhq/dialer/pkg/apperror"
	"github.com/outboundhq/dialer/pkg/logger"
)

// AuthUser is the identity carried by a verified bearer token.
type AuthUser struct {
	// AccountID is the token's "acct" claim: the tenant id the caller
	// authenticates as, or the well-known system-admin id.
	AccountID string `json:"accountId"`
	Subject   string `json:"sub,omitempty"`
	Email     string `json:"email,omitempty"`
}

// IsSystemAdmin reports whether this user may cross tenant boundaries.
func (u *AuthUser) IsSystemAdmin(systemAdminID string) bool {
	return u.AccountID == systemAdminID
}

type contextKey string

const userContextKey contextKey = "auth_user"

// GetUser retrieves the authenticated user from the Echo context.
func GetUser(c echo.Context) *AuthUser {
	if user, ok := c.Get(string(userContextKey)).(*AuthUser); ok {
		return user
	}
	return nil
}

// Middleware verifies bearer tokens and enforces tenant scoping.
type Middleware struct {
	cfg        *config.Config
	log        *slog.Logger
	publicKey  *rsa.PublicKey
	debugToken string
}

// NewMiddleware builds a Middleware from the parsed JWT_PUBLIC_KEY. A blank
// key is tolerated only when Debug is set and AUTH_DEBUG_TOKEN is
// configured, for local development.
func NewMiddleware(cfg *config.Config, log *slog.Logger) (*Middleware, error) {
	m := &Middleware{cfg: cfg, log: log.With(logger.Scope("auth"))}

	if cfg.Auth.JWTPublicKey != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.Auth.JWTPublicKey))
		if err != nil {
			return nil, errors.New("auth: invalid JWT_PUBLIC_KEY: " + err.Error())
		}
		m.publicKey = key
	}

	if cfg.Debug && cfg.Auth.DebugToken != "" {
		m.debugToken = "Bearer " + cfg.Auth.DebugToken
	}

	if m.publicKey == nil && m.debugToken == "" {
		return nil, errors.New("auth: JWT_PUBLIC_KEY is required unless DEBUG and AUTH_DEBUG_TOKEN are set")
	}

	return m, nil
}

// RequireAuth verifies the Authorization header and stores the resulting
// AuthUser in the Echo context.
func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := m.authenticate(c)
			if err != nil {
				m.log.Warn("authentication failed", logger.Error(err))
				return err
			}
			c.Set(string(userContextKey), user)
			return next(c)
		}
	}
}

func (m *Middleware) authenticate(c echo.Context) (*AuthUser, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return nil, apperror.ErrUnauthorized
	}

	if m.debugToken != "" && header == m.debugToken {
		return &AuthUser{AccountID: m.cfg.Auth.SystemAdminAccountID, Subject: "debug"}, nil
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return nil, apperror.ErrUnauthorized.WithMessage("Authorization header must be a bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	if m.publicKey == nil {
		return nil, apperror.ErrInternal.WithMessage("JWT_PUBLIC_KEY not configured")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return m.publicKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.ErrInvalidToken.WithInternal(err)
	}

	acct, _ := claims["acct"].(string)
	if acct == "" {
		return nil, apperror.ErrInvalidToken.WithMessage("token missing acct claim")
	}

	user := &AuthUser{AccountID: acct}
	if sub, ok := claims["sub"].(string); ok {
		user.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	return user, nil
}

// RequireTenant returns middleware that enforces the authenticated user's
// account id against the {tenantId} path parameter: cross-tenant access by
// a non-admin token must look identical to a missing resource, so a
// mismatch returns NotFound rather than Forbidden.
func (m *Middleware) RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return apperror.ErrUnauthorized
			}

			tenantID := c.Param("tenantId")
			if tenantID == "" {
				return apperror.NewBadRequest("tenantId path parameter required")
			}

			if user.AccountID != tenantID && !user.IsSystemAdmin(m.cfg.Auth.SystemAdminAccountID) {
				return apperror.NewNotFound("tenant", tenantID)
			}

			return next(c)
		}
	}
}
