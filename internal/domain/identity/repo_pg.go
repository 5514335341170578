package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medagenda/medagenda/internal/platform/db"
)

var (
	// ErrNotFound is returned when no account or profile row matches.
	ErrNotFound = errors.New("conta não encontrada")
	// ErrDuplicateEmail is returned when the unique email index rejects
	// an insert.
	ErrDuplicateEmail = errors.New("User already registered")
	// ErrTokenInvalid covers unknown, expired and already-used reset
	// tokens alike; callers never learn which.
	ErrTokenInvalid = errors.New("token inválido ou expirado")
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type accountRepoPG struct{ pool *pgxpool.Pool }

func NewAccountRepoPG(pool *pgxpool.Pool) AccountRepository { return &accountRepoPG{pool: pool} }

func (r *accountRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *accountRepoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash) VALUES ($1,$2,$3)`,
		a.ID, strings.ToLower(a.Email), a.PasswordHash)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *accountRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE id = $1`, id))
}

func (r *accountRepoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`,
		strings.ToLower(email)))
}

func (r *accountRepoPG) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE accounts SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository { return &profileRepoPG{pool: pool} }

func (r *profileRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const profileCols = `id, nome, email, phone, specialty, crm, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Nome, &p.Email, &p.Phone, &p.Specialty, &p.CRM,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO profiles (id, nome, email, phone, specialty, crm)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Nome, strings.ToLower(p.Email), p.Phone, p.Specialty, p.CRM)
	return err
}

func (r *profileRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileCols+` FROM profiles WHERE id = $1`, id))
}

func (r *profileRepoPG) Update(ctx context.Context, p *Profile) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE profiles SET nome=$2, email=$3, phone=$4, specialty=$5, crm=$6,
			updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Nome, strings.ToLower(p.Email), p.Phone, p.Specialty, p.CRM)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type resetTokenRepoPG struct{ pool *pgxpool.Pool }

func NewResetTokenRepoPG(pool *pgxpool.Pool) ResetTokenRepository {
	return &resetTokenRepoPG{pool: pool}
}

func (r *resetTokenRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *resetTokenRepoPG) Create(ctx context.Context, t *ResetToken) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO password_reset_tokens (token_hash, account_id, expires_at)
		 VALUES ($1,$2,$3)`,
		t.TokenHash, t.AccountID, t.ExpiresAt)
	return err
}

// Consume marks the token used in the same statement that checks it, so two
// concurrent redemptions cannot both succeed.
func (r *resetTokenRepoPG) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var accountID uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE password_reset_tokens SET used_at = NOW()
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > NOW()
		RETURNING account_id`,
		tokenHash).Scan(&accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrTokenInvalid
	}
	return accountID, err
}

func (r *resetTokenRepoPG) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
