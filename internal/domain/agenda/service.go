package agenda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medagenda/medagenda/internal/domain/patient"
)

// Per-field validation messages shown by the scheduling form. Each maps to
// exactly one input so the form can highlight the offending control.
var (
	ErrPatientRequired = errors.New("Selecione um paciente válido")
	ErrDateRequired    = errors.New("Informe a data")
	ErrTimeRequired    = errors.New("Informe o horário")
	ErrTipoRequired    = errors.New("Informe o tipo de consulta")

	// ErrPatientUnknown rejects any reference to a patient the account does
	// not have: an unresolvable typed name on the edit path, or an id that
	// is not one of the caller's own patients.
	ErrPatientUnknown = errors.New("Paciente não encontrado. Cadastre o paciente antes.")
)

// PatientResolver checks patient references against the caller's own
// directory. The patient service satisfies it; both lookups are owner
// scoped, so another account's patient counts as missing.
type PatientResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	ResolveByName(ctx context.Context, nome string) (*patient.Patient, error)
}

type Service struct {
	appts    Repository
	patients PatientResolver
}

func NewService(appts Repository, patients PatientResolver) *Service {
	return &Service{appts: appts, patients: patients}
}

// Create schedules a new appointment. The referenced patient must exist in
// the caller's directory, and the caller cannot choose the initial status:
// whatever the payload carried, the row is written as Agendado.
func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if err := validateFields(a.PacienteID, a.Data, a.Hora, a.TipoConsulta); err != nil {
		return err
	}
	if _, err := s.patients.Get(ctx, a.PacienteID); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return ErrPatientUnknown
		}
		return err
	}
	a.Status = StatusAgendado
	return s.appts.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// Update applies the edit dialog. The patient may arrive as an id or, when
// the autocomplete pin was cleared, as a typed name; either reference must
// land on one of the caller's own patients or the edit aborts before any
// write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	current, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.PacienteID == uuid.Nil {
		nome := strings.TrimSpace(in.PacienteNome)
		if nome == "" {
			return nil, ErrPatientRequired
		}
		p, err := s.patients.ResolveByName(ctx, nome)
		if err != nil {
			if errors.Is(err, patient.ErrNotFound) {
				return nil, ErrPatientUnknown
			}
			return nil, err
		}
		in.PacienteID = p.ID
	} else if in.PacienteID != current.PacienteID {
		if _, err := s.patients.Get(ctx, in.PacienteID); err != nil {
			if errors.Is(err, patient.ErrNotFound) {
				return nil, ErrPatientUnknown
			}
			return nil, err
		}
	}

	if err := validateFields(in.PacienteID, in.Data, in.Hora, in.TipoConsulta); err != nil {
		return nil, err
	}
	// The edit dialog does not carry status; an omitted value keeps the
	// stored one so an edit never walks a Confirmado back to Agendado.
	status := in.Status
	if status == "" {
		status = current.Status
	}
	if !validStatuses[status] {
		return nil, fmt.Errorf("status inválido: %s", in.Status)
	}

	a := &Appointment{
		ID:           id,
		PacienteID:   in.PacienteID,
		Data:         in.Data,
		Hora:         in.Hora,
		TipoConsulta: in.TipoConsulta,
		Observacoes:  in.Observacoes,
		Status:       status,
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.appts.GetByID(ctx, id)
}

// Cancel flips the status to Cancelado and nothing else. Date, time, type
// and notes keep their stored values; the row itself is never removed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if err := s.appts.UpdateStatus(ctx, id, StatusCancelado); err != nil {
		return nil, err
	}
	return s.appts.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, f, limit, offset)
}

func validateFields(pacienteID uuid.UUID, data, hora, tipo string) error {
	if pacienteID == uuid.Nil {
		return ErrPatientRequired
	}
	if strings.TrimSpace(data) == "" {
		return ErrDateRequired
	}
	if _, err := time.Parse("2006-01-02", data); err != nil {
		return fmt.Errorf("data inválida: %s", data)
	}
	if strings.TrimSpace(hora) == "" {
		return ErrTimeRequired
	}
	if _, err := time.Parse("15:04", hora); err != nil {
		return fmt.Errorf("horário inválido: %s", hora)
	}
	if strings.TrimSpace(tipo) == "" {
		return ErrTipoRequired
	}
	if !validTipos[tipo] {
		return fmt.Errorf("tipo de consulta inválido: %s", tipo)
	}
	return nil
}
