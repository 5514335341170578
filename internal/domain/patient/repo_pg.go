package patient

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

// ErrNotFound is returned when no patient row is visible for the id or name.
var ErrNotFound = errors.New("paciente não encontrado")

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

const patientCols = `id, user_id, nome, email, telefone, to_char(data_nascimento, 'YYYY-MM-DD'),
	cpf, genero, endereco, cidade, estado, cep, observacoes, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.Nome, &p.Email, &p.Telefone, &p.DataNascimento,
		&p.CPF, &p.Genero, &p.Endereco, &p.Cidade, &p.Estado, &p.CEP, &p.Observacoes,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.UserID = db.OwnerFromContext(ctx)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (id, user_id, nome, email, telefone, data_nascimento,
			cpf, genero, endereco, cidade, estado, cep, observacoes)
		VALUES ($1,$2,$3,$4,$5,$6::date,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.UserID, p.Nome, p.Email, p.Telefone, p.DataNascimento,
		p.CPF, p.Genero, p.Endereco, p.Cidade, p.Estado, p.CEP, p.Observacoes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1 AND user_id = $2`,
		id, db.OwnerFromContext(ctx)))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET nome=$3, email=$4, telefone=$5, data_nascimento=$6::date,
			cpf=$7, genero=$8, endereco=$9, cidade=$10, estado=$11, cep=$12,
			observacoes=$13, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`,
		p.ID, db.OwnerFromContext(ctx), p.Nome, p.Email, p.Telefone, p.DataNascimento,
		p.CPF, p.Genero, p.Endereco, p.Cidade, p.Estado, p.CEP, p.Observacoes)
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
		`DELETE FROM patients WHERE id = $1 AND user_id = $2`,
		id, db.OwnerFromContext(ctx))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	owner := db.OwnerFromContext(ctx)
	where := ` WHERE user_id = $1`
	args := []interface{}{owner}
	idx := 2

	if search != "" {
		where += fmt.Sprintf(` AND nome ILIKE $%d`, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + patientCols + ` FROM patients` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) SearchByName(ctx context.Context, query string, limit int) ([]*Suggestion, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, nome FROM patients
		WHERE user_id = $1 AND nome ILIKE $2
		ORDER BY nome ASC LIMIT $3`,
		db.OwnerFromContext(ctx), "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.Nome); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *repoPG) FindByExactName(ctx context.Context, nome string) (*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients WHERE user_id = $1 AND nome = $2 LIMIT 2`,
		db.OwnerFromContext(ctx), nome)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Ambiguous names are treated the same as missing ones.
	if len(matches) != 1 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}
