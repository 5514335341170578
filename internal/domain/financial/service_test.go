package financial

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	store       map[uuid.UUID]*Record
	createCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: map[uuid.UUID]*Record{}}
}

func (m *mockRepo) Create(_ context.Context, rec *Record) error {
	m.createCalls++
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	m.store[rec.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	rec, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, rec *Record) error {
	if _, ok := m.store[rec.ID]; !ok {
		return ErrNotFound
	}
	cp := *rec
	m.store[rec.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filters, _, _ int) ([]*Record, int, error) {
	var out []*Record
	for _, rec := range m.store {
		if f.Tipo != "" && rec.Tipo != f.Tipo {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) Summary(_ context.Context) (*Summary, error) {
	var s Summary
	for _, rec := range m.store {
		if rec.Status != StatusPago {
			continue
		}
		switch rec.Tipo {
		case TipoReceita:
			s.ReceitaTotal += rec.Valor
			s.ConsultasPagas++
		case TipoDespesa:
			s.Despesas += rec.Valor
		}
	}
	s.Lucro = s.ReceitaTotal - s.Despesas
	return &s, nil
}

func validRecord() *Record {
	return &Record{
		Descricao:      "Consulta particular",
		Valor:          250,
		Data:           "2026-02-15",
		FormaPagamento: FormaPix,
		Tipo:           TipoReceita,
	}
}

func TestCreate_DefaultsToPendente(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	rec := validRecord()
	if err := svc.Create(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.store[rec.ID].Status != StatusPendente {
		t.Fatalf("expected default status %q, got %q", StatusPendente, repo.store[rec.ID].Status)
	}
}

func TestCreate_RejectsInvalidEnums(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"empty descricao", func(r *Record) { r.Descricao = "  " }},
		{"zero valor", func(r *Record) { r.Valor = 0 }},
		{"negative valor", func(r *Record) { r.Valor = -5 }},
		{"missing data", func(r *Record) { r.Data = "" }},
		{"bad data", func(r *Record) { r.Data = "15/02/2026" }},
		{"unknown forma", func(r *Record) { r.FormaPagamento = "Cheque" }},
		{"unknown tipo", func(r *Record) { r.Tipo = "Investimento" }},
		{"unknown status", func(r *Record) { r.Status = "Estornado" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := NewService(repo)

			rec := validRecord()
			tc.mutate(rec)

			if err := svc.Create(context.Background(), rec); err == nil {
				t.Fatal("expected validation error")
			}
			if repo.createCalls != 0 {
				t.Fatal("invalid record must not reach the store")
			}
		})
	}
}

func TestSummary_OnlyPaidRowsCount(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	seed := []*Record{
		{Descricao: "Consulta", Valor: 300, Data: "2026-02-01", FormaPagamento: FormaPix, Tipo: TipoReceita, Status: StatusPago},
		{Descricao: "Retorno", Valor: 150, Data: "2026-02-02", FormaPagamento: FormaDinheiro, Tipo: TipoReceita, Status: StatusPago},
		{Descricao: "Aluguel", Valor: 200, Data: "2026-02-03", FormaPagamento: FormaCartaoDebito, Tipo: TipoDespesa, Status: StatusPago},
		{Descricao: "Pendente", Valor: 999, Data: "2026-02-04", FormaPagamento: FormaPix, Tipo: TipoReceita, Status: StatusPendente},
	}
	for _, rec := range seed {
		if err := svc.Create(context.Background(), rec); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	s, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ReceitaTotal != 450 {
		t.Fatalf("receita_total = %v, want 450", s.ReceitaTotal)
	}
	if s.Despesas != 200 {
		t.Fatalf("despesas = %v, want 200", s.Despesas)
	}
	if s.Lucro != 250 {
		t.Fatalf("lucro = %v, want 250", s.Lucro)
	}
	if s.ConsultasPagas != 2 {
		t.Fatalf("consultas_pagas = %d, want 2", s.ConsultasPagas)
	}
}
