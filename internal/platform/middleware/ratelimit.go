package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RateLimitConfig comes from RATE_LIMIT_RPS and RATE_LIMIT_BURST. The
// middleware trusts the values as given; config.Load supplies the defaults.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

// visitor is a token bucket for one caller. Tokens refill continuously at
// the configured rate up to the burst size.
type visitor struct {
	mu       sync.Mutex
	tokens   float64
	lastSeen time.Time
}

func (v *visitor) take(rate float64, burst float64) (bool, time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	v.tokens = math.Min(burst, v.tokens+now.Sub(v.lastSeen).Seconds()*rate)
	v.lastSeen = now

	if v.tokens >= 1 {
		v.tokens--
		return true, 0
	}
	wait := time.Duration((1 - v.tokens) / rate * float64(time.Second))
	return false, wait
}

const visitorIdleTTL = 10 * time.Minute

type visitorStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	burst    float64
}

func (s *visitorStore) get(key string) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.visitors) > 1024 {
		s.evictLocked()
	}
	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{tokens: s.burst, lastSeen: time.Now()}
		s.visitors[key] = v
	}
	return v
}

// evictLocked drops callers idle past the TTL so one-off IPs do not grow
// the map forever. Caller holds s.mu.
func (s *visitorStore) evictLocked() {
	cutoff := time.Now().Add(-visitorIdleTTL)
	for key, v := range s.visitors {
		v.mu.Lock()
		idle := v.lastSeen.Before(cutoff)
		v.mu.Unlock()
		if idle {
			delete(s.visitors, key)
		}
	}
}

// RateLimit throttles per caller. Authenticated requests are keyed by
// account id so clinics behind a shared NAT do not consume one another's
// budget; anonymous requests fall back to the client IP.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	store := &visitorStore{
		visitors: map[string]*visitor{},
		burst:    float64(cfg.BurstSize),
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if accountID, ok := c.Get("account_id").(uuid.UUID); ok {
				key = "acct:" + accountID.String()
			}

			ok, wait := store.get(key).take(cfg.RequestsPerSecond, store.burst)
			if !ok {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(wait.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, "limite de requisições excedido, tente novamente em instantes")
			}
			return next(c)
		}
	}
}
