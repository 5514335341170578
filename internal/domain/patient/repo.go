package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the patient directory. Every operation is scoped to the
// owning account taken from the context; a row belonging to another account
// behaves as if it did not exist.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error)
	// SearchByName performs a case-insensitive substring match on nome,
	// bounded by limit. Backs the autocomplete.
	SearchByName(ctx context.Context, query string, limit int) ([]*Suggestion, error)
	// FindByExactName returns the single patient whose nome matches exactly.
	// Zero or multiple matches both return ErrNotFound so a colliding name
	// can never silently pick a row.
	FindByExactName(ctx context.Context, nome string) (*Patient, error)
}
