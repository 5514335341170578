package agendaclient

import "strings"

// ListFilter narrows a fetched appointment list locally. The three fields
// are independent predicates combined with AND; empty fields match
// everything. Apply is pure: calling it twice, or with the field order of
// the predicates swapped, cannot change the result.
type ListFilter struct {
	Search string // case-insensitive substring of paciente_nome
	Status string // exact status
	Date   string // exact "YYYY-MM-DD" date
}

// Apply returns the rows matching every set predicate. The input slice is
// never modified and row order is preserved.
func (f ListFilter) Apply(rows []Appointment) []Appointment {
	out := make([]Appointment, 0, len(rows))
	for _, row := range rows {
		if f.matches(row) {
			out = append(out, row)
		}
	}
	return out
}

func (f ListFilter) matches(a Appointment) bool {
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(a.PacienteNome), strings.ToLower(f.Search)) {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Date != "" && a.Data != f.Date {
		return false
	}
	return true
}
