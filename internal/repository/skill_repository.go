package repository

import (
	"context"
	"strings"

	"capability-sync/internal/database"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

// SkillRepository is the read side of the skill catalog.
type SkillRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	List(ctx context.Context) ([]skill.Skill, error)
	ListByDomain(ctx context.Context, domain skill.Domain) ([]skill.Skill, error)
	FindTopIDByName(ctx context.Context, name string) (uuid.UUID, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `id, name_en, name_fr, description_en, description_fr, domain, created_at, updated_at, retired_at`

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	var domain string
	if err := row.Scan(&s.ID, &s.NameEn, &s.NameFr, &s.DescriptionEn, &s.DescriptionFr, &domain, &s.CreatedAt, &s.UpdatedAt, &s.RetiredAt); err != nil {
		return skill.Skill{}, err
	}
	s.Domain = skill.Domain(domain)
	return s, nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	s, err := scanSkill(r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return skill.Skill{}, ErrNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) List(ctx context.Context) ([]skill.Skill, error) {
	return r.list(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY name_en ASC`)
}

func (r *PostgresSkillRepository) ListByDomain(ctx context.Context, domain skill.Domain) ([]skill.Skill, error) {
	return r.list(ctx, `SELECT `+skillColumns+` FROM skills WHERE domain = $1 ORDER BY name_en ASC`, string(domain))
}

func (r *PostgresSkillRepository) list(ctx context.Context, query string, args ...any) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindTopIDByName matches either language name case-insensitively.
func (r *PostgresSkillRepository) FindTopIDByName(ctx context.Context, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT id FROM skills
		 WHERE lower(name_en) = lower($1) OR lower(name_fr) = lower($1)
		 ORDER BY retired_at IS NOT NULL, name_en ASC
		 LIMIT 1`,
		name,
	).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}
