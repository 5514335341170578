package financial

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	records Repository
}

func NewService(records Repository) *Service {
	return &Service{records: records}
}

// Create writes a new ledger entry. Status defaults to Pendente when the
// payload leaves it blank.
func (s *Service) Create(ctx context.Context, rec *Record) error {
	if rec.Status == "" {
		rec.Status = StatusPendente
	}
	if err := validate(rec); err != nil {
		return err
	}
	return s.records.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, rec *Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	return s.records.Update(ctx, rec)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.records.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, limit, offset int) ([]*Record, int, error) {
	return s.records.List(ctx, f, limit, offset)
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.records.Summary(ctx)
}

func validate(rec *Record) error {
	if strings.TrimSpace(rec.Descricao) == "" {
		return fmt.Errorf("Informe a descrição")
	}
	if rec.Valor <= 0 {
		return fmt.Errorf("Informe um valor válido")
	}
	if strings.TrimSpace(rec.Data) == "" {
		return fmt.Errorf("Informe a data")
	}
	if _, err := time.Parse("2006-01-02", rec.Data); err != nil {
		return fmt.Errorf("data inválida: %s", rec.Data)
	}
	if !validFormas[rec.FormaPagamento] {
		return fmt.Errorf("forma de pagamento inválida: %s", rec.FormaPagamento)
	}
	if !validTipos[rec.Tipo] {
		return fmt.Errorf("tipo inválido: %s", rec.Tipo)
	}
	if !validStatuses[rec.Status] {
		return fmt.Errorf("status inválido: %s", rec.Status)
	}
	return nil
}
