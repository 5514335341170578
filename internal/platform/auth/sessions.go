package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the payload of a signed session token. The subject is the
// account id; JTI allows individual revocation on logout.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SessionManager issues and verifies HMAC-signed session tokens. It replaces
// the hosted auth provider's "session" concept: one token per login, carried
// as a bearer credential on every request.
type SessionManager struct {
	secret  []byte
	ttl     time.Duration
	revoked *TokenRevocationStore
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: NewTokenRevocationStore(),
	}
}

// Issue signs a new session token for the account.
func (m *SessionManager) Issue(accountID uuid.UUID, email string) (token string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(m.ttl)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "medagenda",
		},
		Email: email,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = tok.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses and validates a session token, rejecting revoked sessions.
func (m *SessionManager) Verify(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer("medagenda"), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	if m.revoked.IsRevoked(claims.ID) {
		return nil, fmt.Errorf("session revoked")
	}
	return claims, nil
}

// Revoke invalidates a single session (logout).
func (m *SessionManager) Revoke(claims *SessionClaims) {
	exp := time.Now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	m.revoked.RevokeForUser(claims.ID, claims.Subject, exp)
}

// AccountID extracts the account id from verified claims.
func (c *SessionClaims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Close releases the revocation store's cleanup goroutine.
func (m *SessionManager) Close() {
	m.revoked.Close()
}
