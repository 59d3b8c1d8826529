package repository

import (
	"context"

	"capability-sync/internal/database"
	"capability-sync/internal/domain/person"

	"github.com/google/uuid"
)

type PersonRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (person.Person, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]person.Person, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostgresPersonRepository struct {
	db database.DB
}

func NewPostgresPersonRepository(db database.DB) *PostgresPersonRepository {
	return &PostgresPersonRepository{db: db}
}

const personColumns = `id, given_name, family_name, organization_id, created_at`

func scanPerson(row database.Row) (person.Person, error) {
	var p person.Person
	err := row.Scan(&p.ID, &p.GivenName, &p.FamilyName, &p.OrganizationID, &p.CreatedAt)
	return p, err
}

func (r *PostgresPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (person.Person, error) {
	p, err := scanPerson(r.db.QueryRow(ctx, `SELECT `+personColumns+` FROM persons WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return person.Person{}, ErrNotFound
		}
		return person.Person{}, err
	}
	return p, nil
}

func (r *PostgresPersonRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]person.Person, error) {
	if len(ids) == 0 {
		return []person.Person{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+personColumns+` FROM persons WHERE id = ANY($1::uuid[]) ORDER BY family_name, given_name, id`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]person.Person, 0, len(ids))
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPersonRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM persons WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
