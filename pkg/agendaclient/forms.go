package agendaclient

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Validation messages mirror the server's per-field responses so the form
// shows the same text whether a check fails locally or remotely.
var (
	ErrSelectPatient = errors.New("Selecione um paciente válido")
	ErrInformDate    = errors.New("Informe a data")
	ErrInformTime    = errors.New("Informe o horário")
	ErrInformTipo    = errors.New("Informe o tipo de consulta")
)

// editCloseDelay is how long a successful edit stays visible before the
// dialog marks itself closed.
const editCloseDelay = 1500 * time.Millisecond

// AppointmentAPI is the slice of Client the form controllers need.
type AppointmentAPI interface {
	CreateAppointment(ctx context.Context, in AppointmentInput) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, in AppointmentInput) (*Appointment, error)
}

// AppointmentForm drives the scheduling dialog. A submit needs a pinned
// patient from the picker; the status is always Agendado no matter what the
// form state says. On failure the fields keep their values so the user can
// correct and retry.
type AppointmentForm struct {
	Picker       *PatientPicker
	Data         string
	Hora         string
	TipoConsulta string
	Observacoes  string

	api AppointmentAPI
}

func NewAppointmentForm(api AppointmentAPI, searcher Searcher, logger zerolog.Logger) *AppointmentForm {
	return &AppointmentForm{
		Picker: NewPatientPicker(searcher, logger),
		api:    api,
	}
}

// Validate returns the first failing field's message, in form order.
func (f *AppointmentForm) Validate() error {
	if f.Picker.Selected() == nil {
		return ErrSelectPatient
	}
	if strings.TrimSpace(f.Data) == "" {
		return ErrInformDate
	}
	if strings.TrimSpace(f.Hora) == "" {
		return ErrInformTime
	}
	if strings.TrimSpace(f.TipoConsulta) == "" {
		return ErrInformTipo
	}
	return nil
}

// Submit validates, creates the appointment and resets the form. Any error,
// local or remote, leaves the form state untouched and is returned verbatim.
func (f *AppointmentForm) Submit(ctx context.Context) (*Appointment, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	sel := f.Picker.Selected()

	in := AppointmentInput{
		PacienteID:   sel.ID,
		Data:         f.Data,
		Hora:         f.Hora,
		TipoConsulta: f.TipoConsulta,
		Status:       "Agendado",
	}
	if obs := strings.TrimSpace(f.Observacoes); obs != "" {
		in.Observacoes = &obs
	}

	created, err := f.api.CreateAppointment(ctx, in)
	if err != nil {
		return nil, err
	}

	f.Data, f.Hora, f.TipoConsulta, f.Observacoes = "", "", "", ""
	f.Picker.SetQuery("")
	return created, nil
}

// EditForm drives the edit dialog, pre-populated from an existing
// appointment. The picker starts pinned to the current patient; if the user
// clears the pin and types a name the server resolves it, rejecting the
// whole edit when no unique patient matches. A successful submit keeps the
// dialog visible briefly and then marks it closed.
type EditForm struct {
	Picker       *PatientPicker
	Data         string
	Hora         string
	TipoConsulta string
	Observacoes  string
	Status       string

	api        AppointmentAPI
	id         uuid.UUID
	closeDelay time.Duration

	mu     sync.Mutex
	closed bool
	timer  *time.Timer
}

func NewEditForm(api AppointmentAPI, searcher Searcher, logger zerolog.Logger, appt Appointment) *EditForm {
	picker := NewPatientPicker(searcher, logger)
	picker.Select(Suggestion{ID: appt.PacienteID, Nome: appt.PacienteNome})

	f := &EditForm{
		Picker:       picker,
		Data:         appt.Data,
		Hora:         appt.Hora,
		TipoConsulta: appt.TipoConsulta,
		Status:       appt.Status,
		api:          api,
		id:           appt.ID,
		closeDelay:   editCloseDelay,
	}
	if appt.Observacoes != nil {
		f.Observacoes = *appt.Observacoes
	}
	return f
}

func (f *EditForm) Validate() error {
	if f.Picker.Selected() == nil && strings.TrimSpace(f.Picker.Query()) == "" {
		return ErrSelectPatient
	}
	if strings.TrimSpace(f.Data) == "" {
		return ErrInformDate
	}
	if strings.TrimSpace(f.Hora) == "" {
		return ErrInformTime
	}
	if strings.TrimSpace(f.TipoConsulta) == "" {
		return ErrInformTipo
	}
	return nil
}

// Submit sends the edit. With a pinned patient the id goes up as-is; with a
// typed name the name goes up for the server to resolve. Errors keep the
// dialog open with state intact.
func (f *EditForm) Submit(ctx context.Context) (*Appointment, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	in := AppointmentInput{
		Data:         f.Data,
		Hora:         f.Hora,
		TipoConsulta: f.TipoConsulta,
		Status:       f.Status,
	}
	if sel := f.Picker.Selected(); sel != nil {
		in.PacienteID = sel.ID
	} else {
		in.PacienteNome = strings.TrimSpace(f.Picker.Query())
	}
	if obs := strings.TrimSpace(f.Observacoes); obs != "" {
		in.Observacoes = &obs
	}

	updated, err := f.api.UpdateAppointment(ctx, f.id, in)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.timer = time.AfterFunc(f.closeDelay, func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
	})
	f.mu.Unlock()
	return updated, nil
}

// Closed reports whether the post-submit delay has elapsed.
func (f *EditForm) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Close cancels the pending auto-close, for dialogs torn down early.
func (f *EditForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.Picker.Close()
}
