package patient

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// ---------- Mock ----------

type mockRepo struct {
	store       map[uuid.UUID]*Patient
	createCalls int
	searchCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: map[uuid.UUID]*Patient{}}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	m.createCalls++
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, _ string, _, _ int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) SearchByName(_ context.Context, query string, limit int) ([]*Suggestion, error) {
	m.searchCalls++
	var out []*Suggestion
	for _, p := range m.store {
		if strings.Contains(strings.ToLower(p.Nome), strings.ToLower(query)) {
			out = append(out, &Suggestion{ID: p.ID, Nome: p.Nome})
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockRepo) FindByExactName(_ context.Context, nome string) (*Patient, error) {
	var matches []*Patient
	for _, p := range m.store {
		if p.Nome == nome {
			matches = append(matches, p)
		}
	}
	if len(matches) != 1 {
		return nil, ErrNotFound
	}
	cp := *matches[0]
	return &cp, nil
}

func validPatient() *Patient {
	return &Patient{
		Nome:           "Maria Souza",
		Email:          "maria@example.com",
		Telefone:       "(11) 99999-0000",
		DataNascimento: "1990-05-20",
		CPF:            "123.456.789-00",
		Genero:         "Feminino",
	}
}

// ---------- Create ----------

func TestCreate_MissingRequiredField(t *testing.T) {
	mutations := map[string]func(*Patient){
		"nome":            func(p *Patient) { p.Nome = "" },
		"email":           func(p *Patient) { p.Email = "" },
		"telefone":        func(p *Patient) { p.Telefone = "   " },
		"data_nascimento": func(p *Patient) { p.DataNascimento = "" },
		"cpf":             func(p *Patient) { p.CPF = "" },
		"genero":          func(p *Patient) { p.Genero = "" },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			repo := newMockRepo()
			svc := NewService(repo)

			p := validPatient()
			mutate(p)

			err := svc.Create(context.Background(), p)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), "Por favor, preencha todos os campos obrigatórios") {
				t.Fatalf("unexpected message: %q", err.Error())
			}
			if repo.createCalls != 0 {
				t.Fatal("invalid patient must not reach the store")
			}
		})
	}
}

func TestCreate_OptionalFieldsPassThrough(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	cidade := "São Paulo"
	p := validPatient()
	p.Cidade = &cidade

	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.store[p.ID]
	if stored.Cidade == nil || *stored.Cidade != cidade {
		t.Fatal("optional field lost on create")
	}
}

func TestCreate_RejectsBadBirthDate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := validPatient()
	p.DataNascimento = "20/05/1990"
	if err := svc.Create(context.Background(), p); err == nil {
		t.Fatal("expected error for non-ISO birth date")
	}
	if repo.createCalls != 0 {
		t.Fatal("invalid date must not reach the store")
	}
}

// ---------- Suggest ----------

func TestSuggest_EmptyQuerySkipsStore(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	for _, q := range []string{"", "   "} {
		items, err := svc.Suggest(context.Background(), q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected empty suggestions for %q", q)
		}
	}
	if repo.searchCalls != 0 {
		t.Fatalf("empty query must not hit the store, got %d calls", repo.searchCalls)
	}
}

func TestSuggest_QueriesStore(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	if err := svc.Create(context.Background(), validPatient()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, err := svc.Suggest(context.Background(), "mar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Nome != "Maria Souza" {
		t.Fatalf("unexpected suggestions: %+v", items)
	}
	if repo.searchCalls != 1 {
		t.Fatalf("expected one store call, got %d", repo.searchCalls)
	}
}

// ---------- ResolveByName ----------

func TestResolveByName_AmbiguousIsMiss(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	for i := 0; i < 2; i++ {
		p := validPatient()
		p.Nome = "João Silva"
		p.CPF = uuid.NewString()
		if err := svc.Create(context.Background(), p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if _, err := svc.ResolveByName(context.Background(), "João Silva"); err == nil {
		t.Fatal("two patients with the same name must not resolve")
	}
}

func TestResolveByName_TrimsInput(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := validPatient()
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.ResolveByName(context.Background(), "  Maria Souza ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("resolved wrong patient: %s", got.ID)
	}
}
