package agendaclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockAPI struct {
	createIn  []AppointmentInput
	updateIn  []AppointmentInput
	updateIDs []uuid.UUID
	err       error
}

func (m *mockAPI) CreateAppointment(_ context.Context, in AppointmentInput) (*Appointment, error) {
	m.createIn = append(m.createIn, in)
	if m.err != nil {
		return nil, m.err
	}
	return &Appointment{
		ID:           uuid.New(),
		PacienteID:   in.PacienteID,
		Data:         in.Data,
		Hora:         in.Hora,
		TipoConsulta: in.TipoConsulta,
		Status:       "Agendado",
	}, nil
}

func (m *mockAPI) UpdateAppointment(_ context.Context, id uuid.UUID, in AppointmentInput) (*Appointment, error) {
	m.updateIDs = append(m.updateIDs, id)
	m.updateIn = append(m.updateIn, in)
	if m.err != nil {
		return nil, m.err
	}
	return &Appointment{
		ID:           id,
		PacienteID:   in.PacienteID,
		Data:         in.Data,
		Hora:         in.Hora,
		TipoConsulta: in.TipoConsulta,
		Status:       in.Status,
	}, nil
}

func newTestForm(api *mockAPI) *AppointmentForm {
	return NewAppointmentForm(api, &mockSearcher{}, zerolog.Nop())
}

func fillForm(f *AppointmentForm) {
	f.Picker.Select(Suggestion{ID: uuid.New(), Nome: "Maria Souza"})
	f.Data = "2026-03-10"
	f.Hora = "14:30"
	f.TipoConsulta = "Consulta"
}

// ---------- AppointmentForm ----------

func TestForm_ValidateReturnsFirstFieldMessage(t *testing.T) {
	f := newTestForm(&mockAPI{})

	if err := f.Validate(); !errors.Is(err, ErrSelectPatient) {
		t.Fatalf("expected %v, got %v", ErrSelectPatient, err)
	}

	f.Picker.Select(Suggestion{ID: uuid.New(), Nome: "Maria Souza"})
	if err := f.Validate(); !errors.Is(err, ErrInformDate) {
		t.Fatalf("expected %v, got %v", ErrInformDate, err)
	}

	f.Data = "2026-03-10"
	if err := f.Validate(); !errors.Is(err, ErrInformTime) {
		t.Fatalf("expected %v, got %v", ErrInformTime, err)
	}

	f.Hora = "14:30"
	if err := f.Validate(); !errors.Is(err, ErrInformTipo) {
		t.Fatalf("expected %v, got %v", ErrInformTipo, err)
	}

	f.TipoConsulta = "Consulta"
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestForm_SubmitForcesAgendado(t *testing.T) {
	api := &mockAPI{}
	f := newTestForm(api)
	fillForm(f)

	created, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.createIn) != 1 {
		t.Fatalf("expected one create call, got %d", len(api.createIn))
	}
	if api.createIn[0].Status != "Agendado" {
		t.Fatalf("submitted status = %q, want Agendado", api.createIn[0].Status)
	}
	if created.Status != "Agendado" {
		t.Fatalf("created status = %q", created.Status)
	}
}

func TestForm_SubmitResetsFieldsOnSuccess(t *testing.T) {
	f := newTestForm(&mockAPI{})
	fillForm(f)
	f.Observacoes = "trazer exames"

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Data != "" || f.Hora != "" || f.TipoConsulta != "" || f.Observacoes != "" {
		t.Fatal("fields must reset after a successful submit")
	}
	if f.Picker.Selected() != nil {
		t.Fatal("picker pin must clear after a successful submit")
	}
}

func TestForm_SubmitKeepsStateOnFailure(t *testing.T) {
	api := &mockAPI{err: errors.New("Selecione um paciente válido")}
	f := newTestForm(api)
	fillForm(f)

	_, err := f.Submit(context.Background())
	if err == nil {
		t.Fatal("expected the remote error")
	}
	if err.Error() != "Selecione um paciente válido" {
		t.Fatalf("error must surface verbatim, got %q", err.Error())
	}
	if f.Data != "2026-03-10" || f.Hora != "14:30" || f.TipoConsulta != "Consulta" {
		t.Fatal("fields must survive a failed submit")
	}
	if f.Picker.Selected() == nil {
		t.Fatal("pin must survive a failed submit")
	}
}

func TestForm_LocalValidationSkipsAPI(t *testing.T) {
	api := &mockAPI{}
	f := newTestForm(api)
	// No patient pinned.
	f.Data = "2026-03-10"
	f.Hora = "14:30"
	f.TipoConsulta = "Consulta"

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrSelectPatient) {
		t.Fatalf("expected %v, got %v", ErrSelectPatient, err)
	}
	if len(api.createIn) != 0 {
		t.Fatal("invalid form must not reach the API")
	}
}

// ---------- EditForm ----------

func sampleEditAppointment() Appointment {
	return Appointment{
		ID:           uuid.New(),
		PacienteID:   uuid.New(),
		PacienteNome: "Maria Souza",
		Data:         "2026-03-10",
		Hora:         "14:30",
		TipoConsulta: "Consulta",
		Status:       "Agendado",
	}
}

func newTestEditForm(api *mockAPI, appt Appointment) *EditForm {
	f := NewEditForm(api, &mockSearcher{}, zerolog.Nop(), appt)
	f.closeDelay = time.Millisecond
	return f
}

func TestEditForm_PrePopulatedAndPinned(t *testing.T) {
	appt := sampleEditAppointment()
	f := newTestEditForm(&mockAPI{}, appt)
	defer f.Close()

	if f.Data != appt.Data || f.Hora != appt.Hora || f.Status != appt.Status {
		t.Fatal("form must start from the appointment's values")
	}
	sel := f.Picker.Selected()
	if sel == nil || sel.ID != appt.PacienteID {
		t.Fatal("picker must start pinned to the current patient")
	}
}

func TestEditForm_PinnedSubmitSendsID(t *testing.T) {
	api := &mockAPI{}
	appt := sampleEditAppointment()
	f := newTestEditForm(api, appt)
	defer f.Close()

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := api.updateIn[0]
	if in.PacienteID != appt.PacienteID {
		t.Fatalf("expected pinned id %s, got %s", appt.PacienteID, in.PacienteID)
	}
	if in.PacienteNome != "" {
		t.Fatal("no name should be sent when a patient is pinned")
	}
	if api.updateIDs[0] != appt.ID {
		t.Fatal("update addressed the wrong appointment")
	}
}

func TestEditForm_TypedNameSubmitSendsName(t *testing.T) {
	api := &mockAPI{}
	f := newTestEditForm(api, sampleEditAppointment())
	defer f.Close()

	// Clearing the pin by typing a different name.
	f.Picker.SetQuery("Mariana Costa")

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in := api.updateIn[0]
	if in.PacienteID != uuid.Nil {
		t.Fatal("no id should be sent when the pin was cleared")
	}
	if in.PacienteNome != "Mariana Costa" {
		t.Fatalf("typed name not forwarded, got %q", in.PacienteNome)
	}
}

func TestEditForm_ClosesAfterDelayOnSuccess(t *testing.T) {
	f := newTestEditForm(&mockAPI{}, sampleEditAppointment())
	defer f.Close()

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Closed() {
		t.Fatal("form must stay open immediately after submit")
	}

	deadline := time.Now().Add(time.Second)
	for !f.Closed() {
		if time.Now().After(deadline) {
			t.Fatal("form never closed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEditForm_StaysOpenOnFailure(t *testing.T) {
	api := &mockAPI{err: errors.New("Paciente não encontrado. Cadastre o paciente antes.")}
	f := newTestEditForm(api, sampleEditAppointment())
	defer f.Close()

	_, err := f.Submit(context.Background())
	if err == nil || err.Error() != "Paciente não encontrado. Cadastre o paciente antes." {
		t.Fatalf("error must surface verbatim, got %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if f.Closed() {
		t.Fatal("form must not close after a failed submit")
	}
	if f.Data == "" {
		t.Fatal("state must survive a failed submit")
	}
}
