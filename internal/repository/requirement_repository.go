package repository

import (
	"context"
	"fmt"
	"strings"

	"capability-sync/internal/database"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

type RequirementRepository interface {
	Create(ctx context.Context, r requirement.Requirement) (requirement.Requirement, error)
	CreateOrGet(ctx context.Context, r requirement.Requirement) (requirement.Requirement, bool, error)
	BatchCreate(ctx context.Context, rs []requirement.Requirement) ([]requirement.Requirement, error)
	GetByID(ctx context.Context, id uuid.UUID) (requirement.Requirement, error)
	ListByRoleID(ctx context.Context, roleID uuid.UUID) ([]requirement.Requirement, error)
	// ListBySkillAndMaxLevel returns requirements on skillID that a validated
	// level of maxLevel would satisfy.
	ListBySkillAndMaxLevel(ctx context.Context, skillID uuid.UUID, maxLevel proficiency.Level) ([]requirement.Requirement, error)
	ListByDomain(ctx context.Context, domain skill.Domain, maxLevel *proficiency.Level) ([]requirement.Requirement, error)
	SearchByName(ctx context.Context, query string) ([]requirement.Requirement, error)
	Update(ctx context.Context, r requirement.Requirement) (requirement.Requirement, error)
	CountLevelsBySkill(ctx context.Context, skillID uuid.UUID) ([]requirement.LevelCount, error)
	CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]requirement.LevelCount, error)
}

type PostgresRequirementRepository struct {
	db        database.DB
	chunkSize int
}

func NewPostgresRequirementRepository(db database.DB, chunkSize int) *PostgresRequirementRepository {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &PostgresRequirementRepository{db: db, chunkSize: chunkSize}
}

const requirementColumns = `id, role_id, skill_id, name_en, name_fr, domain, required_level, created_at, updated_at, retired_at`

const requirementFieldCount = 10

func scanRequirement(row database.Row) (requirement.Requirement, error) {
	var (
		r      requirement.Requirement
		domain string
		level  string
	)
	err := row.Scan(&r.ID, &r.RoleID, &r.SkillID, &r.NameEn, &r.NameFr, &domain, &level, &r.CreatedAt, &r.UpdatedAt, &r.RetiredAt)
	if err != nil {
		return requirement.Requirement{}, err
	}
	r.Domain = skill.Domain(domain)
	if r.RequiredLevel, err = parseLevel(level); err != nil {
		return requirement.Requirement{}, err
	}
	return r, nil
}

func requirementArgs(r requirement.Requirement) []any {
	return []any{
		r.ID, r.RoleID, r.SkillID, r.NameEn, r.NameFr, string(r.Domain),
		r.RequiredLevel.String(), r.CreatedAt, r.UpdatedAt, r.RetiredAt,
	}
}

func (p *PostgresRequirementRepository) Create(ctx context.Context, r requirement.Requirement) (requirement.Requirement, error) {
	created, err := scanRequirement(p.db.QueryRow(ctx,
		`INSERT INTO requirements (`+requirementColumns+`) VALUES `+placeholders(0, requirementFieldCount)+`
		 RETURNING `+requirementColumns,
		requirementArgs(r)...,
	))
	if err != nil {
		return requirement.Requirement{}, mapWriteErr(err)
	}
	return created, nil
}

func (p *PostgresRequirementRepository) CreateOrGet(ctx context.Context, r requirement.Requirement) (requirement.Requirement, bool, error) {
	created, err := scanRequirement(p.db.QueryRow(ctx,
		`INSERT INTO requirements (`+requirementColumns+`) VALUES `+placeholders(0, requirementFieldCount)+`
		 ON CONFLICT (role_id, skill_id) DO NOTHING
		 RETURNING `+requirementColumns,
		requirementArgs(r)...,
	))
	if err == nil {
		return created, true, nil
	}
	if !isNoRows(err) {
		return requirement.Requirement{}, false, mapWriteErr(err)
	}

	existing, err := scanRequirement(p.db.QueryRow(ctx,
		`SELECT `+requirementColumns+` FROM requirements WHERE role_id = $1 AND skill_id = $2`,
		r.RoleID, r.SkillID,
	))
	if err != nil {
		if isNoRows(err) {
			return requirement.Requirement{}, false, ErrNotFound
		}
		return requirement.Requirement{}, false, err
	}
	return existing, false, nil
}

func (p *PostgresRequirementRepository) BatchCreate(ctx context.Context, rs []requirement.Requirement) ([]requirement.Requirement, error) {
	if len(rs) == 0 {
		return []requirement.Requirement{}, nil
	}

	err := database.WithTx(ctx, p.db, func(tx database.Tx) error {
		for _, ch := range chunks(len(rs), p.chunkSize) {
			part := rs[ch[0]:ch[1]]
			values := make([]string, 0, len(part))
			args := make([]any, 0, len(part)*requirementFieldCount)
			for i, r := range part {
				values = append(values, placeholders(i, requirementFieldCount))
				args = append(args, requirementArgs(r)...)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO requirements (`+requirementColumns+`) VALUES `+strings.Join(values, ", "),
				args...,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}

	out := make([]requirement.Requirement, len(rs))
	copy(out, rs)
	return out, nil
}

func (p *PostgresRequirementRepository) GetByID(ctx context.Context, id uuid.UUID) (requirement.Requirement, error) {
	r, err := scanRequirement(p.db.QueryRow(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return requirement.Requirement{}, ErrNotFound
		}
		return requirement.Requirement{}, err
	}
	return r, nil
}

func (p *PostgresRequirementRepository) ListByRoleID(ctx context.Context, roleID uuid.UUID) ([]requirement.Requirement, error) {
	return p.list(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE role_id = $1 ORDER BY name_en, id`, roleID)
}

func (p *PostgresRequirementRepository) ListBySkillAndMaxLevel(ctx context.Context, skillID uuid.UUID, maxLevel proficiency.Level) ([]requirement.Requirement, error) {
	return p.list(ctx,
		`SELECT `+requirementColumns+` FROM requirements
		 WHERE skill_id = $1
		   AND `+fmt.Sprintf(levelRank, "required_level")+` <= `+fmt.Sprintf(levelRank, "$2")+`
		 ORDER BY role_id, id`,
		skillID, maxLevel.String(),
	)
}

func (p *PostgresRequirementRepository) ListByDomain(ctx context.Context, domain skill.Domain, maxLevel *proficiency.Level) ([]requirement.Requirement, error) {
	if maxLevel == nil {
		return p.list(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE domain = $1 ORDER BY name_en, id`, string(domain))
	}
	return p.list(ctx,
		`SELECT `+requirementColumns+` FROM requirements
		 WHERE domain = $1
		   AND `+fmt.Sprintf(levelRank, "required_level")+` <= `+fmt.Sprintf(levelRank, "$2")+`
		 ORDER BY name_en, id`,
		string(domain), maxLevel.String(),
	)
}

func (p *PostgresRequirementRepository) SearchByName(ctx context.Context, query string) ([]requirement.Requirement, error) {
	return p.list(ctx,
		`SELECT `+requirementColumns+` FROM requirements
		 WHERE name_en ILIKE '%' || $1 || '%' OR name_fr ILIKE '%' || $1 || '%'
		 ORDER BY name_en, id`,
		strings.TrimSpace(query),
	)
}

func (p *PostgresRequirementRepository) Update(ctx context.Context, r requirement.Requirement) (requirement.Requirement, error) {
	updated, err := scanRequirement(p.db.QueryRow(ctx,
		`UPDATE requirements
		 SET required_level = $2, retired_at = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING `+requirementColumns,
		r.ID, r.RequiredLevel.String(), r.RetiredAt, r.UpdatedAt,
	))
	if err != nil {
		if isNoRows(err) {
			return requirement.Requirement{}, ErrNotFound
		}
		return requirement.Requirement{}, err
	}
	return updated, nil
}

func (p *PostgresRequirementRepository) CountLevelsBySkill(ctx context.Context, skillID uuid.UUID) ([]requirement.LevelCount, error) {
	return p.countLevels(ctx, `skill_id = $1`, skillID)
}

func (p *PostgresRequirementRepository) CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]requirement.LevelCount, error) {
	return p.countLevels(ctx, `domain = $1`, string(domain))
}

func (p *PostgresRequirementRepository) countLevels(ctx context.Context, where string, arg any) ([]requirement.LevelCount, error) {
	rows, err := p.db.Query(ctx,
		`SELECT name_en, domain, required_level, count(*)
		 FROM requirements
		 WHERE retired_at IS NULL AND `+where+`
		 GROUP BY name_en, domain, required_level
		 ORDER BY name_en, `+fmt.Sprintf(levelRank, "required_level"),
		arg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]requirement.LevelCount, 0)
	for rows.Next() {
		var (
			lc     requirement.LevelCount
			domain string
			level  string
		)
		if err := rows.Scan(&lc.Name, &domain, &level, &lc.Count); err != nil {
			return nil, err
		}
		lc.Domain = skill.Domain(domain)
		if lc.Level, err = parseLevel(level); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PostgresRequirementRepository) list(ctx context.Context, query string, args ...any) ([]requirement.Requirement, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]requirement.Requirement, 0)
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
