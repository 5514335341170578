package identity

import (
	"time"

	"github.com/google/uuid"
)

// Account is a login identity. There is one account per clinic
// professional; everything else in the system hangs off its id.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Profile carries the professional's public details, shown on the settings
// page. Its id equals the owning account's id.
type Profile struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Specialty *string   `db:"specialty" json:"specialty,omitempty"`
	CRM       *string   `db:"crm" json:"crm,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ResetToken is a single-use password reset grant. Only the SHA-256 of the
// mailed token is stored; UsedAt marks consumption.
type ResetToken struct {
	TokenHash string     `db:"token_hash"`
	AccountID uuid.UUID  `db:"account_id"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
}
