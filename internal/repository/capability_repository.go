package repository

import (
	"context"
	"fmt"
	"strings"

	"capability-sync/internal/database"
	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

type CapabilityRepository interface {
	Create(ctx context.Context, c capability.Capability) (capability.Capability, error)
	// CreateOrGet returns the stored record for (person, skill) and whether
	// this call inserted it.
	CreateOrGet(ctx context.Context, c capability.Capability) (capability.Capability, bool, error)
	BatchCreate(ctx context.Context, cs []capability.Capability) ([]capability.Capability, error)
	GetByID(ctx context.Context, id uuid.UUID) (capability.Capability, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]capability.Capability, error)
	ListByPersonID(ctx context.Context, personID uuid.UUID) ([]capability.Capability, error)
	// ListBySkillID keeps validated levels at or above minLevel when it is set.
	ListBySkillID(ctx context.Context, skillID uuid.UUID, minLevel *proficiency.Level) ([]capability.Capability, error)
	ListByDomain(ctx context.Context, domain skill.Domain, minLevel *proficiency.Level) ([]capability.Capability, error)
	SearchByName(ctx context.Context, query string) ([]capability.Capability, error)
	// Update writes the owner-editable fields only.
	Update(ctx context.Context, c capability.Capability) (capability.Capability, error)
	CountLevelsBySkill(ctx context.Context, skillID uuid.UUID) ([]capability.LevelCount, error)
	CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]capability.LevelCount, error)
}

type PostgresCapabilityRepository struct {
	db        database.DB
	chunkSize int
}

func NewPostgresCapabilityRepository(db database.DB, chunkSize int) *PostgresCapabilityRepository {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &PostgresCapabilityRepository{db: db, chunkSize: chunkSize}
}

const capabilityColumns = `id, person_id, skill_id, organization_id, name_en, name_fr, domain, self_identified_level, validated_level, validation_values, created_at, updated_at, retired_at`

const capabilityFieldCount = 13

func scanCapability(row database.Row) (capability.Capability, error) {
	var (
		c         capability.Capability
		domain    string
		self      string
		validated *string
	)
	err := row.Scan(
		&c.ID, &c.PersonID, &c.SkillID, &c.OrganizationID,
		&c.NameEn, &c.NameFr, &domain,
		&self, &validated, &c.ValidationValues,
		&c.CreatedAt, &c.UpdatedAt, &c.RetiredAt,
	)
	if err != nil {
		return capability.Capability{}, err
	}
	c.Domain = skill.Domain(domain)
	if c.SelfIdentifiedLevel, err = parseLevel(self); err != nil {
		return capability.Capability{}, err
	}
	if c.ValidatedLevel, err = parseOptionalLevel(validated); err != nil {
		return capability.Capability{}, err
	}
	return c, nil
}

func capabilityArgs(c capability.Capability) []any {
	return []any{
		c.ID, c.PersonID, c.SkillID, c.OrganizationID,
		c.NameEn, c.NameFr, string(c.Domain),
		c.SelfIdentifiedLevel.String(), optionalLevelText(c.ValidatedLevel), c.ValidationValues,
		c.CreatedAt, c.UpdatedAt, c.RetiredAt,
	}
}

func placeholders(row, width int) string {
	parts := make([]string, width)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", row*width+i+1)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (r *PostgresCapabilityRepository) Create(ctx context.Context, c capability.Capability) (capability.Capability, error) {
	created, err := scanCapability(r.db.QueryRow(ctx,
		`INSERT INTO capabilities (`+capabilityColumns+`) VALUES `+placeholders(0, capabilityFieldCount)+`
		 RETURNING `+capabilityColumns,
		capabilityArgs(c)...,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return capability.Capability{}, ErrConflict
		case isForeignKeyViolation(err):
			return capability.Capability{}, ErrNotFound
		}
		return capability.Capability{}, err
	}
	return created, nil
}

func (r *PostgresCapabilityRepository) CreateOrGet(ctx context.Context, c capability.Capability) (capability.Capability, bool, error) {
	created, err := scanCapability(r.db.QueryRow(ctx,
		`INSERT INTO capabilities (`+capabilityColumns+`) VALUES `+placeholders(0, capabilityFieldCount)+`
		 ON CONFLICT (person_id, skill_id) DO NOTHING
		 RETURNING `+capabilityColumns,
		capabilityArgs(c)...,
	))
	if err == nil {
		return created, true, nil
	}
	if !isNoRows(err) {
		if isForeignKeyViolation(err) {
			return capability.Capability{}, false, ErrNotFound
		}
		return capability.Capability{}, false, err
	}

	existing, err := scanCapability(r.db.QueryRow(ctx,
		`SELECT `+capabilityColumns+` FROM capabilities WHERE person_id = $1 AND skill_id = $2`,
		c.PersonID, c.SkillID,
	))
	if err != nil {
		if isNoRows(err) {
			return capability.Capability{}, false, ErrNotFound
		}
		return capability.Capability{}, false, err
	}
	return existing, false, nil
}

func (r *PostgresCapabilityRepository) BatchCreate(ctx context.Context, cs []capability.Capability) ([]capability.Capability, error) {
	if len(cs) == 0 {
		return []capability.Capability{}, nil
	}

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, ch := range chunks(len(cs), r.chunkSize) {
			part := cs[ch[0]:ch[1]]
			values := make([]string, 0, len(part))
			args := make([]any, 0, len(part)*capabilityFieldCount)
			for i, c := range part {
				values = append(values, placeholders(i, capabilityFieldCount))
				args = append(args, capabilityArgs(c)...)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO capabilities (`+capabilityColumns+`) VALUES `+strings.Join(values, ", "),
				args...,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrConflict
		case isForeignKeyViolation(err):
			return nil, ErrNotFound
		}
		return nil, err
	}

	out := make([]capability.Capability, len(cs))
	copy(out, cs)
	return out, nil
}

func (r *PostgresCapabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (capability.Capability, error) {
	c, err := scanCapability(r.db.QueryRow(ctx, `SELECT `+capabilityColumns+` FROM capabilities WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return capability.Capability{}, ErrNotFound
		}
		return capability.Capability{}, err
	}
	return c, nil
}

func (r *PostgresCapabilityRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]capability.Capability, error) {
	if len(ids) == 0 {
		return []capability.Capability{}, nil
	}
	return listCapabilities(ctx, r.db,
		`SELECT `+capabilityColumns+` FROM capabilities WHERE id = ANY($1::uuid[]) ORDER BY id`,
		uuidStrings(ids),
	)
}

func (r *PostgresCapabilityRepository) ListByPersonID(ctx context.Context, personID uuid.UUID) ([]capability.Capability, error) {
	return listCapabilities(ctx, r.db,
		`SELECT `+capabilityColumns+` FROM capabilities WHERE person_id = $1 ORDER BY name_en, id`,
		personID,
	)
}

func (r *PostgresCapabilityRepository) ListBySkillID(ctx context.Context, skillID uuid.UUID, minLevel *proficiency.Level) ([]capability.Capability, error) {
	if minLevel == nil {
		return listCapabilities(ctx, r.db,
			`SELECT `+capabilityColumns+` FROM capabilities WHERE skill_id = $1 ORDER BY id`,
			skillID,
		)
	}
	return listCapabilities(ctx, r.db,
		`SELECT `+capabilityColumns+` FROM capabilities
		 WHERE skill_id = $1 AND validated_level IS NOT NULL
		   AND `+fmt.Sprintf(levelRank, "validated_level")+` >= `+fmt.Sprintf(levelRank, "$2")+`
		 ORDER BY id`,
		skillID, minLevel.String(),
	)
}

func (r *PostgresCapabilityRepository) ListByDomain(ctx context.Context, domain skill.Domain, minLevel *proficiency.Level) ([]capability.Capability, error) {
	if minLevel == nil {
		return listCapabilities(ctx, r.db,
			`SELECT `+capabilityColumns+` FROM capabilities WHERE domain = $1 ORDER BY name_en, id`,
			string(domain),
		)
	}
	return listCapabilities(ctx, r.db,
		`SELECT `+capabilityColumns+` FROM capabilities
		 WHERE domain = $1 AND validated_level IS NOT NULL
		   AND `+fmt.Sprintf(levelRank, "validated_level")+` >= `+fmt.Sprintf(levelRank, "$2")+`
		 ORDER BY name_en, id`,
		string(domain), minLevel.String(),
	)
}

func (r *PostgresCapabilityRepository) SearchByName(ctx context.Context, query string) ([]capability.Capability, error) {
	return listCapabilities(ctx, r.db,
		`SELECT `+capabilityColumns+` FROM capabilities
		 WHERE name_en ILIKE '%' || $1 || '%' OR name_fr ILIKE '%' || $1 || '%'
		 ORDER BY name_en, id`,
		strings.TrimSpace(query),
	)
}

func (r *PostgresCapabilityRepository) Update(ctx context.Context, c capability.Capability) (capability.Capability, error) {
	updated, err := scanCapability(r.db.QueryRow(ctx,
		`UPDATE capabilities
		 SET self_identified_level = $2, retired_at = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING `+capabilityColumns,
		c.ID, c.SelfIdentifiedLevel.String(), c.RetiredAt, c.UpdatedAt,
	))
	if err != nil {
		if isNoRows(err) {
			return capability.Capability{}, ErrNotFound
		}
		return capability.Capability{}, err
	}
	return updated, nil
}

func (r *PostgresCapabilityRepository) CountLevelsBySkill(ctx context.Context, skillID uuid.UUID) ([]capability.LevelCount, error) {
	return r.countLevels(ctx, `skill_id = $1`, skillID)
}

func (r *PostgresCapabilityRepository) CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]capability.LevelCount, error) {
	return r.countLevels(ctx, `domain = $1`, string(domain))
}

func (r *PostgresCapabilityRepository) countLevels(ctx context.Context, where string, arg any) ([]capability.LevelCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name_en, domain, validated_level, count(*)
		 FROM capabilities
		 WHERE retired_at IS NULL AND `+where+`
		 GROUP BY name_en, domain, validated_level
		 ORDER BY name_en, `+fmt.Sprintf(levelRank, "validated_level")+` NULLS FIRST`,
		arg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]capability.LevelCount, 0)
	for rows.Next() {
		var (
			lc     capability.LevelCount
			domain string
			level  *string
		)
		if err := rows.Scan(&lc.Name, &domain, &level, &lc.Count); err != nil {
			return nil, err
		}
		lc.Domain = skill.Domain(domain)
		if lc.Level, err = parseOptionalLevel(level); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func listCapabilities(ctx context.Context, q database.Querier, query string, args ...any) ([]capability.Capability, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]capability.Capability, 0)
	for rows.Next() {
		c, err := scanCapability(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lockCapability reads a capability row under FOR UPDATE so consensus writes
// on the same capability serialize.
func lockCapability(ctx context.Context, tx database.Tx, id uuid.UUID) (capability.Capability, error) {
	c, err := scanCapability(tx.QueryRow(ctx,
		`SELECT `+capabilityColumns+` FROM capabilities WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		if isNoRows(err) {
			return capability.Capability{}, ErrNotFound
		}
		return capability.Capability{}, err
	}
	return c, nil
}

func saveConsensus(ctx context.Context, tx database.Tx, c capability.Capability) (capability.Capability, error) {
	return scanCapability(tx.QueryRow(ctx,
		`UPDATE capabilities
		 SET validated_level = $2, validation_values = $3, updated_at = $4
		 WHERE id = $1
		 RETURNING `+capabilityColumns,
		c.ID, optionalLevelText(c.ValidatedLevel), c.ValidationValues, c.UpdatedAt,
	))
}
