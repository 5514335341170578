package agenda

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Agendado is the only status a new appointment can
// carry; Cancelado is set exclusively by the cancel action. There is no
// transition guard on edits: the status field is an unrestricted member of
// the set, so "backward" moves are accepted.
const (
	StatusAgendado   = "Agendado"
	StatusConfirmado = "Confirmado"
	StatusConcluido  = "Concluído"
	StatusCancelado  = "Cancelado"
)

// Appointment types.
const (
	TipoConsulta   = "Consulta"
	TipoRetorno    = "Retorno"
	TipoExame      = "Exame"
	TipoEmergencia = "Emergência"
)

var validStatuses = map[string]bool{
	StatusAgendado: true, StatusConfirmado: true,
	StatusConcluido: true, StatusCancelado: true,
}

var validTipos = map[string]bool{
	TipoConsulta: true, TipoRetorno: true,
	TipoExame: true, TipoEmergencia: true,
}

// Appointment maps to the appointments table, joined with the patient's
// display name on every read. Data is "YYYY-MM-DD", Hora is "HH:MM".
type Appointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"-"`
	PacienteID   uuid.UUID `db:"paciente_id" json:"paciente_id"`
	PacienteNome string    `db:"paciente_nome" json:"paciente_nome"`
	Data         string    `db:"data" json:"data"`
	Hora         string    `db:"hora" json:"hora"`
	TipoConsulta string    `db:"tipo_consulta" json:"tipo_consulta"`
	Observacoes  *string   `db:"observacoes" json:"observacoes,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateInput is the edit-dialog payload. The patient may come as an id or,
// when the dialog's autocomplete pin was cleared, as a typed name that must
// resolve to exactly one patient before anything is written.
type UpdateInput struct {
	PacienteID   uuid.UUID `json:"paciente_id"`
	PacienteNome string    `json:"paciente_nome"`
	Data         string    `json:"data"`
	Hora         string    `json:"hora"`
	TipoConsulta string    `json:"tipo_consulta"`
	Observacoes  *string   `json:"observacoes"`
	Status       string    `json:"status"`
}

// Filters narrows the appointment list. Zero values mean "no restriction";
// the three filters combine with AND.
type Filters struct {
	Search string // substring of paciente_nome, case-insensitive
	Status string // exact status match
	Date   string // exact date match, "YYYY-MM-DD"
}
