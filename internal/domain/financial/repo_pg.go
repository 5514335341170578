package financial

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

// ErrNotFound is returned when no ledger row is visible for the id.
var ErrNotFound = errors.New("registro financeiro não encontrado")

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

const recordCols = `f.id, f.user_id, f.paciente_id, p.nome, f.descricao, f.valor,
	to_char(f.data, 'YYYY-MM-DD'), f.forma_pagamento, f.tipo, f.status,
	f.created_at, f.updated_at`

const recordFrom = ` FROM financial_records f LEFT JOIN patients p ON p.id = f.paciente_id`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.UserID, &rec.PacienteID, &rec.PacienteNome,
		&rec.Descricao, &rec.Valor, &rec.Data, &rec.FormaPagamento, &rec.Tipo,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	rec.UserID = db.OwnerFromContext(ctx)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO financial_records (id, user_id, paciente_id, descricao,
			valor, data, forma_pagamento, tipo, status)
		VALUES ($1,$2,$3,$4,$5,$6::date,$7,$8,$9)`,
		rec.ID, rec.UserID, rec.PacienteID, rec.Descricao,
		rec.Valor, rec.Data, rec.FormaPagamento, rec.Tipo, rec.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+recordFrom+` WHERE f.id = $1 AND f.user_id = $2`,
		id, db.OwnerFromContext(ctx)))
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE financial_records SET paciente_id=$3, descricao=$4, valor=$5,
			data=$6::date, forma_pagamento=$7, tipo=$8, status=$9, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`,
		rec.ID, db.OwnerFromContext(ctx), rec.PacienteID, rec.Descricao, rec.Valor,
		rec.Data, rec.FormaPagamento, rec.Tipo, rec.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM financial_records WHERE id = $1 AND user_id = $2`,
		id, db.OwnerFromContext(ctx))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filters, limit, offset int) ([]*Record, int, error) {
	owner := db.OwnerFromContext(ctx)
	where := ` WHERE f.user_id = $1`
	args := []interface{}{owner}
	idx := 2

	if f.Tipo != "" {
		where += fmt.Sprintf(` AND f.tipo = $%d`, idx)
		args = append(args, f.Tipo)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(` AND f.status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*)`+recordFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recordCols + recordFrom + where +
		fmt.Sprintf(` ORDER BY f.data DESC, f.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

// Summary aggregates paid rows only. Pending entries never move the
// dashboard numbers.
func (r *repoPG) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COALESCE(SUM(valor) FILTER (WHERE tipo = 'Receita'), 0),
			COALESCE(SUM(valor) FILTER (WHERE tipo = 'Despesa'), 0),
			COALESCE(COUNT(*) FILTER (WHERE tipo = 'Receita'), 0)
		FROM financial_records
		WHERE user_id = $1 AND status = 'Pago'`,
		db.OwnerFromContext(ctx)).Scan(&s.ReceitaTotal, &s.Despesas, &s.ConsultasPagas)
	if err != nil {
		return nil, err
	}
	s.Lucro = s.ReceitaTotal - s.Despesas
	return &s, nil
}
