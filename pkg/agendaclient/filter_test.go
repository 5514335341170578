package agendaclient

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func sampleRows() []Appointment {
	return []Appointment{
		{ID: uuid.New(), PacienteNome: "Maria Souza", Data: "2026-03-10", Status: "Agendado"},
		{ID: uuid.New(), PacienteNome: "João Silva", Data: "2026-03-10", Status: "Confirmado"},
		{ID: uuid.New(), PacienteNome: "Mariana Costa", Data: "2026-03-11", Status: "Agendado"},
		{ID: uuid.New(), PacienteNome: "Pedro Alves", Data: "2026-03-12", Status: "Cancelado"},
	}
}

func names(rows []Appointment) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.PacienteNome
	}
	return out
}

func TestFilter_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := ListFilter{Search: "mari"}.Apply(sampleRows())
	want := []string{"Maria Souza", "Mariana Costa"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("got %v, want %v", names(got), want)
	}
}

func TestFilter_CombinesWithAND(t *testing.T) {
	f := ListFilter{Search: "mari", Status: "Agendado", Date: "2026-03-11"}
	got := f.Apply(sampleRows())
	if len(got) != 1 || got[0].PacienteNome != "Mariana Costa" {
		t.Fatalf("got %v", names(got))
	}
}

func TestFilter_EmptyFieldsMatchEverything(t *testing.T) {
	rows := sampleRows()
	got := ListFilter{}.Apply(rows)
	if !reflect.DeepEqual(names(got), names(rows)) {
		t.Fatal("empty filter must return all rows in order")
	}
}

func TestFilter_ApplyIsIdempotent(t *testing.T) {
	f := ListFilter{Status: "Agendado"}
	rows := sampleRows()

	once := f.Apply(rows)
	twice := f.Apply(once)
	if !reflect.DeepEqual(names(once), names(twice)) {
		t.Fatalf("second application changed the result: %v vs %v", names(once), names(twice))
	}
}

func TestFilter_PredicatesCommute(t *testing.T) {
	rows := sampleRows()
	combined := ListFilter{Search: "a", Status: "Agendado", Date: "2026-03-10"}.Apply(rows)

	// Applying the predicates one at a time, in any order, must agree with
	// the combined filter.
	orders := [][]ListFilter{
		{{Search: "a"}, {Status: "Agendado"}, {Date: "2026-03-10"}},
		{{Date: "2026-03-10"}, {Search: "a"}, {Status: "Agendado"}},
		{{Status: "Agendado"}, {Date: "2026-03-10"}, {Search: "a"}},
	}
	for i, chain := range orders {
		got := rows
		for _, f := range chain {
			got = f.Apply(got)
		}
		if !reflect.DeepEqual(names(got), names(combined)) {
			t.Fatalf("order %d: got %v, want %v", i, names(got), names(combined))
		}
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	rows := sampleRows()
	before := names(rows)
	ListFilter{Status: "Agendado"}.Apply(rows)
	if !reflect.DeepEqual(names(rows), before) {
		t.Fatal("Apply mutated its input")
	}
}
