package repository

import (
	"context"

	"capability-sync/internal/database"
	"capability-sync/internal/domain/role"

	"github.com/google/uuid"
)

// RoleRepository is the read-only role directory.
type RoleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (role.Role, error)
	IsActiveAndVacant(ctx context.Context, id uuid.UUID) (bool, error)
	ListActiveVacantByIDs(ctx context.Context, ids []uuid.UUID) ([]role.Role, error)
}

type PostgresRoleRepository struct {
	db database.DB
}

func NewPostgresRoleRepository(db database.DB) *PostgresRoleRepository {
	return &PostgresRoleRepository{db: db}
}

const roleColumns = `id, person_id, team_id, title_en, title_fr, active, created_at, updated_at`

func scanRole(row database.Row) (role.Role, error) {
	var r role.Role
	err := row.Scan(&r.ID, &r.PersonID, &r.TeamID, &r.TitleEn, &r.TitleFr, &r.Active, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *PostgresRoleRepository) GetByID(ctx context.Context, id uuid.UUID) (role.Role, error) {
	ro, err := scanRole(r.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return role.Role{}, ErrNotFound
		}
		return role.Role{}, err
	}
	return ro, nil
}

func (r *PostgresRoleRepository) IsActiveAndVacant(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1 AND active AND person_id IS NULL)`,
		id,
	).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *PostgresRoleRepository) ListActiveVacantByIDs(ctx context.Context, ids []uuid.UUID) ([]role.Role, error) {
	if len(ids) == 0 {
		return []role.Role{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+roleColumns+` FROM roles
		 WHERE id = ANY($1::uuid[]) AND active AND person_id IS NULL
		 ORDER BY title_en, id`,
		uuidStrings(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]role.Role, 0, len(ids))
	for rows.Next() {
		ro, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
