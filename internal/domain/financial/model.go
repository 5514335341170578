package financial

import (
	"time"

	"github.com/google/uuid"
)

// Record statuses.
const (
	StatusPago     = "Pago"
	StatusPendente = "Pendente"
)

// Record kinds.
const (
	TipoReceita = "Receita"
	TipoDespesa = "Despesa"
)

// Payment methods.
const (
	FormaDinheiro      = "Dinheiro"
	FormaPix           = "PIX"
	FormaCartaoCredito = "Cartão de Crédito"
	FormaCartaoDebito  = "Cartão de Débito"
)

var validStatuses = map[string]bool{StatusPago: true, StatusPendente: true}

var validTipos = map[string]bool{TipoReceita: true, TipoDespesa: true}

var validFormas = map[string]bool{
	FormaDinheiro: true, FormaPix: true,
	FormaCartaoCredito: true, FormaCartaoDebito: true,
}

// Record maps to the financial_records table. The patient link is optional;
// when present, reads carry the patient's name along. Valor is reais with
// two decimal places; Data is "YYYY-MM-DD".
type Record struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"-"`
	PacienteID     *uuid.UUID `db:"paciente_id" json:"paciente_id,omitempty"`
	PacienteNome   *string    `db:"paciente_nome" json:"paciente_nome,omitempty"`
	Descricao      string     `db:"descricao" json:"descricao"`
	Valor          float64    `db:"valor" json:"valor"`
	Data           string     `db:"data" json:"data"`
	FormaPagamento string     `db:"forma_pagamento" json:"forma_pagamento"`
	Tipo           string     `db:"tipo" json:"tipo"`
	Status         string     `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Summary aggregates the paid rows for the dashboard cards. Lucro is
// receita minus despesas; ConsultasPagas counts paid revenue entries.
type Summary struct {
	ReceitaTotal   float64 `json:"receita_total"`
	Despesas       float64 `json:"despesas"`
	Lucro          float64 `json:"lucro"`
	ConsultasPagas int     `json:"consultas_pagas"`
}

// Filters narrows the ledger list; zero values mean "no restriction".
type Filters struct {
	Tipo   string
	Status string
}
