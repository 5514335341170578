package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SuggestionLimit bounds how many rows the autocomplete search returns.
const SuggestionLimit = 10

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// Create registers a new patient. The registration form requires the six
// identity fields; optional address fields pass through as given.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validateRequired(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validateRequired(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, search, limit, offset)
}

// Suggest backs the autocomplete. An empty query returns an empty list
// without touching the store.
func (s *Service) Suggest(ctx context.Context, query string) ([]*Suggestion, error) {
	if strings.TrimSpace(query) == "" {
		return []*Suggestion{}, nil
	}
	return s.patients.SearchByName(ctx, query, SuggestionLimit)
}

// ResolveByName maps an exact patient name to its row. Used by the
// appointment edit path; ambiguity counts as a miss.
func (s *Service) ResolveByName(ctx context.Context, nome string) (*Patient, error) {
	return s.patients.FindByExactName(ctx, strings.TrimSpace(nome))
}

func validateRequired(p *Patient) error {
	required := []struct {
		value string
		field string
	}{
		{p.Nome, "nome"},
		{p.Email, "email"},
		{p.Telefone, "telefone"},
		{p.DataNascimento, "data_nascimento"},
		{p.CPF, "cpf"},
		{p.Genero, "genero"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("Por favor, preencha todos os campos obrigatórios (%s)", f.field)
		}
	}
	if _, err := time.Parse("2006-01-02", p.DataNascimento); err != nil {
		return fmt.Errorf("data de nascimento inválida: %s", p.DataNascimento)
	}
	return nil
}
