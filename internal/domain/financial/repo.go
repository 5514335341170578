package financial

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage port for the financial ledger.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filters, limit, offset int) ([]*Record, int, error)
	Summary(ctx context.Context) (*Summary, error)
}
