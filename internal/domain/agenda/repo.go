package agenda

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage port for appointments. Every read returns rows
// joined with the owning patient's name; every method is scoped to the
// authenticated account through the connection carried by ctx. There is no
// delete: appointments leave the agenda by being cancelled.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, f Filters, limit, offset int) ([]*Appointment, int, error)
}
