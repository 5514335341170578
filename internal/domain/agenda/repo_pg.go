package agenda

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medagenda/medagenda/internal/platform/db"
)

// ErrNotFound is returned when no appointment row is visible for the id.
var ErrNotFound = errors.New("agendamento não encontrado")

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `a.id, a.user_id, a.paciente_id, p.nome, to_char(a.data, 'YYYY-MM-DD'),
	a.hora, a.tipo_consulta, a.observacoes, a.status, a.created_at, a.updated_at`

const apptFrom = ` FROM appointments a JOIN patients p ON p.id = a.paciente_id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.PacienteID, &a.PacienteNome, &a.Data,
		&a.Hora, &a.TipoConsulta, &a.Observacoes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.UserID = db.OwnerFromContext(ctx)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, user_id, paciente_id, data, hora,
			tipo_consulta, observacoes, status)
		VALUES ($1,$2,$3,$4::date,$5,$6,$7,$8)`,
		a.ID, a.UserID, a.PacienteID, a.Data, a.Hora,
		a.TipoConsulta, a.Observacoes, a.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+apptFrom+` WHERE a.id = $1 AND a.user_id = $2`,
		id, db.OwnerFromContext(ctx)))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET paciente_id=$3, data=$4::date, hora=$5,
			tipo_consulta=$6, observacoes=$7, status=$8, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`,
		a.ID, db.OwnerFromContext(ctx), a.PacienteID, a.Data, a.Hora,
		a.TipoConsulta, a.Observacoes, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus touches only the status column; every other field keeps its
// stored value.
func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status=$3, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`,
		id, db.OwnerFromContext(ctx), status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filters, limit, offset int) ([]*Appointment, int, error) {
	owner := db.OwnerFromContext(ctx)
	where := ` WHERE a.user_id = $1`
	args := []interface{}{owner}
	idx := 2

	if f.Search != "" {
		where += fmt.Sprintf(` AND p.nome ILIKE $%d`, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Date != "" {
		where += fmt.Sprintf(` AND a.data = $%d::date`, idx)
		args = append(args, f.Date)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*)`+apptFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + apptFrom + where +
		fmt.Sprintf(` ORDER BY a.data DESC, a.hora ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
