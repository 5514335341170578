package db

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	OwnerIDKey contextKey = "owner_id"
	DBConnKey  contextKey = "db_conn"
)

// OwnerScopeMiddleware pins a connection to the request and sets the
// app.user_id session variable to the authenticated account id, so the
// row-level-security policies in the schema restrict every query to rows
// owned by that account. The connection rides the request context and is
// released when the request finishes.
//
// The auth middleware must run first; it stores the account id under
// "account_id" on the echo context.
func OwnerScopeMiddleware(pool *pgxpool.Pool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerID, ok := c.Get("account_id").(uuid.UUID)
			if !ok || ownerID == uuid.Nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "sessão inválida")
			}

			ctx := c.Request().Context()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			if _, err := conn.Exec(ctx, `SELECT set_config('app.user_id', $1, false)`, ownerID.String()); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "owner scope failed")
			}
			// Reset before the connection goes back to the pool.
			defer conn.Exec(context.Background(), `SELECT set_config('app.user_id', '', false)`)

			ctx = context.WithValue(ctx, OwnerIDKey, ownerID)
			ctx = context.WithValue(ctx, DBConnKey, conn)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ConnFromContext retrieves the owner-scoped database connection from context.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	conn, _ := ctx.Value(DBConnKey).(*pgxpool.Conn)
	return conn
}

// OwnerFromContext retrieves the owning account id from context.
func OwnerFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(OwnerIDKey).(uuid.UUID)
	return id
}

// WithOwner returns a context carrying the owning account id. Used by the
// CLI and by tests, where no HTTP middleware runs.
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}
