package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medagenda/medagenda/internal/platform/auth"
	"github.com/medagenda/medagenda/internal/platform/mailer"
)

// ErrInvalidCredentials is the single response to any login failure. An
// unknown email and a wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("Invalid login credentials")

// resetTokenTTL bounds how long a mailed reset link stays redeemable.
const resetTokenTTL = time.Hour

type Service struct {
	accounts AccountRepository
	profiles ProfileRepository
	resets   ResetTokenRepository
	sessions *auth.SessionManager
	mail     mailer.Mailer
	siteURL  string
	logger   zerolog.Logger
}

func NewService(
	accounts AccountRepository,
	profiles ProfileRepository,
	resets ResetTokenRepository,
	sessions *auth.SessionManager,
	mail mailer.Mailer,
	siteURL string,
	logger zerolog.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		profiles: profiles,
		resets:   resets,
		sessions: sessions,
		mail:     mail,
		siteURL:  strings.TrimRight(siteURL, "/"),
		logger:   logger.With().Str("component", "identity").Logger(),
	}
}

// Signup creates the account and its profile row in one step. The profile
// starts with the registration name and email; the rest is filled in later
// on the settings page.
func (s *Service) Signup(ctx context.Context, email, password, fullName string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email inválido")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	a := &Account{Email: email, PasswordHash: hash}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	p := &Profile{ID: a.ID, Nome: strings.TrimSpace(fullName), Email: email}
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return a, nil
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	a, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	ok, err := auth.VerifyPassword(a.PasswordHash, password)
	if err != nil {
		return "", time.Time{}, err
	}
	if !ok {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.sessions.Issue(a.ID, a.Email)
}

// Logout revokes the presented session token.
func (s *Service) Logout(claims *auth.SessionClaims) {
	s.sessions.Revoke(claims)
}

// RequestReset mails a single-use reset link. An unknown email is treated
// exactly like a known one so the endpoint does not leak which addresses
// have accounts.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	a, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Info().Msg("reset requested for unknown email")
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	t := &ResetToken{
		TokenHash: hashToken(token),
		AccountID: a.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resets.Create(ctx, t); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := s.siteURL + "/redefinir-senha?token=" + token
	if err := s.mail.SendPasswordReset(ctx, a.Email, resetURL); err != nil {
		s.logger.Error().Err(err).Msg("failed to send reset mail")
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// Reset consumes the mailed token and replaces the account's password.
func (s *Service) Reset(ctx context.Context, token, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	accountID, err := s.resets.Consume(ctx, hashToken(token))
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, accountID, hash)
}

// UpdatePassword replaces the password of an authenticated account.
func (s *Service) UpdatePassword(ctx context.Context, accountID uuid.UUID, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, accountID, hash)
}

func (s *Service) GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	return s.profiles.GetByID(ctx, accountID)
}

func (s *Service) UpdateProfile(ctx context.Context, accountID uuid.UUID, p *Profile) error {
	if strings.TrimSpace(p.Nome) == "" {
		return fmt.Errorf("Informe o nome")
	}
	if strings.TrimSpace(p.Email) == "" || !strings.Contains(p.Email, "@") {
		return fmt.Errorf("email inválido")
	}
	p.ID = accountID
	return s.profiles.Update(ctx, p)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
