package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	AccountIDKey contextKey = "account_id"
	ClaimsKey    contextKey = "session_claims"
)

// Middleware validates the bearer session token and stores the account id on
// both the echo context (for downstream middleware) and the request context
// (for services). Requests without a valid, unrevoked token are rejected.
func Middleware(sessions *SessionManager, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := sessions.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			accountID, err := claims.AccountID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session subject")
			}

			c.Set("account_id", accountID)
			c.Set("session_claims", claims)

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, AccountIDKey, accountID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// PathSkipper exempts the given path prefixes from authentication
// (health checks and the auth endpoints themselves).
func PathSkipper(prefixes ...string) func(echo.Context) bool {
	return func(c echo.Context) bool {
		p := c.Request().URL.Path
		for _, prefix := range prefixes {
			if strings.HasPrefix(p, prefix) {
				return true
			}
		}
		return false
	}
}

// AccountFromContext retrieves the authenticated account id from context.
func AccountFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(AccountIDKey).(uuid.UUID)
	return id
}

// ClaimsFromContext retrieves the verified session claims from context.
func ClaimsFromContext(ctx context.Context) *SessionClaims {
	claims, _ := ctx.Value(ClaimsKey).(*SessionClaims)
	return claims
}
