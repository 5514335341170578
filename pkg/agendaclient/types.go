// Package agendaclient is a typed Go client for the medagenda API. Besides
// plain endpoint calls it carries the interactive scheduling workflows: a
// debounced patient autocomplete with selection pinning, appointment form
// controllers, and local filtering over a fetched list.
package agendaclient

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is one autocomplete row.
type Suggestion struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}

// Appointment mirrors the API's appointment representation. Data is
// "YYYY-MM-DD", Hora is "HH:MM".
type Appointment struct {
	ID           uuid.UUID `json:"id"`
	PacienteID   uuid.UUID `json:"paciente_id"`
	PacienteNome string    `json:"paciente_nome"`
	Data         string    `json:"data"`
	Hora         string    `json:"hora"`
	TipoConsulta string    `json:"tipo_consulta"`
	Observacoes  *string   `json:"observacoes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AppointmentInput is the create/update payload. PacienteNome is only sent
// on updates where no patient id is pinned; the server resolves it.
type AppointmentInput struct {
	PacienteID   uuid.UUID `json:"paciente_id"`
	PacienteNome string    `json:"paciente_nome,omitempty"`
	Data         string    `json:"data"`
	Hora         string    `json:"hora"`
	TipoConsulta string    `json:"tipo_consulta"`
	Observacoes  *string   `json:"observacoes,omitempty"`
	Status       string    `json:"status,omitempty"`
}

// ListPage is one page of the appointment list.
type ListPage struct {
	Data    []Appointment `json:"data"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}
