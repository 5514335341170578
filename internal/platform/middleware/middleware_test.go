package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_ExhaustedBurstAnswers429(t *testing.T) {
	e := newEcho()
	e.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2}))

	for i := 0; i < 2; i++ {
		if rec := get(e, "/ping"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := get(e, "/ping")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}

func TestRateLimit_AccountsDoNotShareBudget(t *testing.T) {
	e := echo.New()
	acctA, acctB := uuid.New(), uuid.New()
	current := acctA
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("account_id", current)
			return next(c)
		}
	})
	e.Use(RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1}))
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if rec := get(e, "/ping"); rec.Code != http.StatusOK {
		t.Fatalf("first caller: status = %d", rec.Code)
	}
	if rec := get(e, "/ping"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first caller over budget: status = %d", rec.Code)
	}

	// Same IP, different account: a fresh bucket.
	current = acctB
	if rec := get(e, "/ping"); rec.Code != http.StatusOK {
		t.Fatalf("second caller: status = %d", rec.Code)
	}
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)

	e := echo.New()
	e.Use(Recovery(logger))
	e.GET("/boom", func(c echo.Context) error {
		panic("kaput")
	})

	rec := get(e, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "kaput") {
		t.Fatal("panic detail leaked to the client")
	}
	if !strings.Contains(buf.String(), "kaput") || !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged: %s", buf.String())
	}
}

func TestLogger_IncludesAccountAndStatus(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	accountID := uuid.New()

	e := echo.New()
	e.Use(Logger(logger))
	e.GET("/ping", func(c echo.Context) error {
		c.Set("account_id", accountID)
		return c.String(http.StatusOK, "pong")
	})

	rec := get(e, "/ping")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	line := buf.String()
	if !strings.Contains(line, `"status":200`) || !strings.Contains(line, `"path":"/ping"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
	if !strings.Contains(line, accountID.String()) {
		t.Fatalf("account id missing from log line: %s", line)
	}
}
