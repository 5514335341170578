package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// DBHealth is the /health/db payload. Pool counters come straight from
// pgxpool; PingLatency is measured fresh on every call.
type DBHealth struct {
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	PingLatency   string `json:"ping_latency,omitempty"`
	TotalConns    int32  `json:"total_conns"`
	IdleConns     int32  `json:"idle_conns"`
	AcquiredConns int32  `json:"acquired_conns"`
	MaxConns      int32  `json:"max_conns"`
	AcquireCount  int64  `json:"acquire_count"`
}

func snapshot(pool *pgxpool.Pool) DBHealth {
	st := pool.Stat()
	return DBHealth{
		TotalConns:    st.TotalConns(),
		IdleConns:     st.IdleConns(),
		AcquiredConns: st.AcquiredConns(),
		MaxConns:      st.MaxConns(),
		AcquireCount:  st.AcquireCount(),
	}
}

// HealthHandler pings the database with a short deadline and reports pool
// state. A failed ping answers 503 so load balancers stop routing here.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
		defer cancel()

		h := snapshot(pool)
		start := time.Now()
		if err := pool.Ping(ctx); err != nil {
			h.Status = "unhealthy"
			h.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, h)
		}
		h.Status = "healthy"
		h.PingLatency = time.Since(start).String()
		return c.JSON(http.StatusOK, h)
	}
}
