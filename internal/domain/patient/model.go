package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. Dates ride as "YYYY-MM-DD" strings to
// mirror the form fields they come from; the column itself is a DATE.
type Patient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"-"`
	Nome           string    `db:"nome" json:"nome"`
	Email          string    `db:"email" json:"email"`
	Telefone       string    `db:"telefone" json:"telefone"`
	DataNascimento string    `db:"data_nascimento" json:"data_nascimento"`
	CPF            string    `db:"cpf" json:"cpf"`
	Genero         string    `db:"genero" json:"genero"`
	Endereco       *string   `db:"endereco" json:"endereco,omitempty"`
	Cidade         *string   `db:"cidade" json:"cidade,omitempty"`
	Estado         *string   `db:"estado" json:"estado,omitempty"`
	CEP            *string   `db:"cep" json:"cep,omitempty"`
	Observacoes    *string   `db:"observacoes" json:"observacoes,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Suggestion is the trimmed shape served to the autocomplete: just enough to
// render and pin a selection.
type Suggestion struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}
