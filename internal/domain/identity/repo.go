package identity

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository is the storage port for login identities. Accounts are
// not owner-scoped; the account itself is the owner boundary.
type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ProfileRepository stores the professional's settings-page details.
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}

// ResetTokenRepository stores hashed single-use reset grants. Consume marks
// a token used and returns the owning account atomically; a second Consume
// of the same hash fails.
type ResetTokenRepository interface {
	Create(ctx context.Context, t *ResetToken) error
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
