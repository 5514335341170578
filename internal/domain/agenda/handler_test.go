package agenda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medagenda/medagenda/internal/domain/patient"
)

func newTestServer(repo *mockRepo, resolver *mockResolver) *echo.Echo {
	e := echo.New()
	h := NewHandler(NewService(repo, resolver))
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateForcesAgendado(t *testing.T) {
	repo := newMockRepo()
	maria := &patient.Patient{ID: uuid.New(), Nome: "Maria Souza"}
	e := newTestServer(repo, newMockResolver(maria))

	body := `{"paciente_id":"` + maria.ID.String() + `","data":"2026-03-10","hora":"14:30","tipo_consulta":"Consulta","status":"Concluído"}`
	rec := doJSON(e, http.MethodPost, "/api/v1/appointments", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusAgendado {
		t.Fatalf("created status = %q, want Agendado", got.Status)
	}
}

func TestHandler_CreateUnknownPatientIs400(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo, newMockResolver())

	body := `{"paciente_id":"` + uuid.NewString() + `","data":"2026-03-10","hora":"14:30","tipo_consulta":"Consulta"}`
	rec := doJSON(e, http.MethodPost, "/api/v1/appointments", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "não encontrado") {
		t.Fatalf("expected patient rejection message, got %s", rec.Body.String())
	}
	if len(repo.store) != 0 {
		t.Fatal("unknown patient must not write")
	}
}

func TestHandler_CreateMissingFieldMessage(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo, newMockResolver())

	body := `{"paciente_id":"` + uuid.NewString() + `","data":"2026-03-10","tipo_consulta":"Consulta"}`
	rec := doJSON(e, http.MethodPost, "/api/v1/appointments", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Informe o horário") {
		t.Fatalf("expected per-field message, got %s", rec.Body.String())
	}
	if len(repo.store) != 0 {
		t.Fatal("invalid request must not write")
	}
}

func TestHandler_CancelEndpoint(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo, newMockResolver())

	a := validAppointment(uuid.New())
	a.Status = StatusConfirmado
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/appointments/"+a.ID.String()+"/cancel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusCancelado {
		t.Fatalf("status = %q, want Cancelado", got.Status)
	}
	if got.Data != a.Data || got.Hora != a.Hora {
		t.Fatal("cancel changed more than the status")
	}
}

func TestHandler_UpdateUnknownNameIs400(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo, newMockResolver())

	a := validAppointment(uuid.New())
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"paciente_nome":"Desconhecido","data":"2026-03-11","hora":"09:00","tipo_consulta":"Consulta","status":"Agendado"}`
	rec := doJSON(e, http.MethodPut, "/api/v1/appointments/"+a.ID.String(), body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Paciente não encontrado. Cadastre o paciente antes.") {
		t.Fatalf("missing rejection message: %s", rec.Body.String())
	}
}

func TestHandler_NoDeleteRoute(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(repo, newMockResolver())

	a := validAppointment(uuid.New())
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(e, http.MethodDelete, "/api/v1/appointments/"+a.ID.String(), "")
	if rec.Code != http.StatusMethodNotAllowed && rec.Code != http.StatusNotFound {
		t.Fatalf("delete must not be routed, got %d", rec.Code)
	}
	if _, ok := repo.store[a.ID]; !ok {
		t.Fatal("appointment removed through an unrouted method")
	}
}
