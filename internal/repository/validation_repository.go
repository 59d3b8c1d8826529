package repository

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"time"

	"capability-sync/internal/database"
	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/validation"

	"github.com/google/uuid"
)

// ValidationRepository persists peer validations. Every write also applies
// the validation to its capability's consensus in the same transaction.
type ValidationRepository interface {
	Create(ctx context.Context, v validation.Validation) (validation.Validation, capability.Capability, error)
	BatchCreate(ctx context.Context, vs []validation.Validation) ([]validation.Validation, []capability.Capability, error)
	// Update re-assesses a validation. The new score is appended to the
	// capability's history; earlier scores are kept.
	Update(ctx context.Context, id uuid.UUID, level proficiency.Level, now time.Time) (validation.Validation, capability.Capability, error)
	GetByID(ctx context.Context, id uuid.UUID) (validation.Validation, error)
	ListByCapabilityID(ctx context.Context, capabilityID uuid.UUID) ([]validation.Validation, error)
	ListByValidatorID(ctx context.Context, validatorID uuid.UUID) ([]validation.Validation, error)
}

type PostgresValidationRepository struct {
	db        database.DB
	chunkSize int
}

func NewPostgresValidationRepository(db database.DB, chunkSize int) *PostgresValidationRepository {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &PostgresValidationRepository{db: db, chunkSize: chunkSize}
}

const validationColumns = `id, validator_id, capability_id, validated_level, created_at, updated_at`

const validationFieldCount = 6

func scanValidation(row database.Row) (validation.Validation, error) {
	var (
		v     validation.Validation
		level string
	)
	if err := row.Scan(&v.ID, &v.ValidatorID, &v.CapabilityID, &level, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return validation.Validation{}, err
	}
	l, err := parseLevel(level)
	if err != nil {
		return validation.Validation{}, err
	}
	v.ValidatedLevel = l
	return v, nil
}

func validationArgs(v validation.Validation) []any {
	return []any{v.ID, v.ValidatorID, v.CapabilityID, v.ValidatedLevel.String(), v.CreatedAt, v.UpdatedAt}
}

func (r *PostgresValidationRepository) Create(ctx context.Context, v validation.Validation) (validation.Validation, capability.Capability, error) {
	var updated capability.Capability
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		c, err := lockCapability(ctx, tx, v.CapabilityID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO validations (`+validationColumns+`) VALUES `+placeholders(0, validationFieldCount),
			validationArgs(v)...,
		); err != nil {
			return err
		}
		c.ApplyValidations(v.CreatedAt, v.ValidatedLevel)
		updated, err = saveConsensus(ctx, tx, c)
		return err
	})
	if err != nil {
		return validation.Validation{}, capability.Capability{}, mapWriteErr(err)
	}
	return v, updated, nil
}

func (r *PostgresValidationRepository) BatchCreate(ctx context.Context, vs []validation.Validation) ([]validation.Validation, []capability.Capability, error) {
	if len(vs) == 0 {
		return []validation.Validation{}, []capability.Capability{}, nil
	}

	levels, ids := validation.GroupByCapability(vs)
	// Fixed lock order keeps overlapping batches from deadlocking.
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	now := latest(vs)
	updated := make([]capability.Capability, 0, len(ids))
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		locked := make([]capability.Capability, 0, len(ids))
		for _, id := range ids {
			c, err := lockCapability(ctx, tx, id)
			if err != nil {
				return err
			}
			locked = append(locked, c)
		}

		for _, ch := range chunks(len(vs), r.chunkSize) {
			part := vs[ch[0]:ch[1]]
			values := make([]string, 0, len(part))
			args := make([]any, 0, len(part)*validationFieldCount)
			for i, v := range part {
				values = append(values, placeholders(i, validationFieldCount))
				args = append(args, validationArgs(v)...)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO validations (`+validationColumns+`) VALUES `+strings.Join(values, ", "),
				args...,
			); err != nil {
				return err
			}
		}

		for _, c := range locked {
			c.ApplyValidations(now, levels[c.ID]...)
			saved, err := saveConsensus(ctx, tx, c)
			if err != nil {
				return err
			}
			updated = append(updated, saved)
		}
		return nil
	})
	if err != nil {
		return nil, nil, mapWriteErr(err)
	}

	out := make([]validation.Validation, len(vs))
	copy(out, vs)
	return out, updated, nil
}

func (r *PostgresValidationRepository) Update(ctx context.Context, id uuid.UUID, level proficiency.Level, now time.Time) (validation.Validation, capability.Capability, error) {
	var (
		saved   validation.Validation
		updated capability.Capability
	)
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var capID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT capability_id FROM validations WHERE id = $1 FOR UPDATE`, id).Scan(&capID); err != nil {
			if isNoRows(err) {
				return ErrNotFound
			}
			return err
		}

		c, err := lockCapability(ctx, tx, capID)
		if err != nil {
			return err
		}

		saved, err = scanValidation(tx.QueryRow(ctx,
			`UPDATE validations SET validated_level = $2, updated_at = $3 WHERE id = $1 RETURNING `+validationColumns,
			id, level.String(), now,
		))
		if err != nil {
			return err
		}

		c.ApplyValidations(now, level)
		updated, err = saveConsensus(ctx, tx, c)
		return err
	})
	if err != nil {
		return validation.Validation{}, capability.Capability{}, mapWriteErr(err)
	}
	return saved, updated, nil
}

func (r *PostgresValidationRepository) GetByID(ctx context.Context, id uuid.UUID) (validation.Validation, error) {
	v, err := scanValidation(r.db.QueryRow(ctx, `SELECT `+validationColumns+` FROM validations WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return validation.Validation{}, ErrNotFound
		}
		return validation.Validation{}, err
	}
	return v, nil
}

func (r *PostgresValidationRepository) ListByCapabilityID(ctx context.Context, capabilityID uuid.UUID) ([]validation.Validation, error) {
	return r.list(ctx, `SELECT `+validationColumns+` FROM validations WHERE capability_id = $1 ORDER BY created_at, id`, capabilityID)
}

func (r *PostgresValidationRepository) ListByValidatorID(ctx context.Context, validatorID uuid.UUID) ([]validation.Validation, error) {
	return r.list(ctx, `SELECT `+validationColumns+` FROM validations WHERE validator_id = $1 ORDER BY created_at, id`, validatorID)
}

func (r *PostgresValidationRepository) list(ctx context.Context, query string, args ...any) ([]validation.Validation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]validation.Validation, 0)
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func latest(vs []validation.Validation) time.Time {
	var t time.Time
	for _, v := range vs {
		if v.CreatedAt.After(t) {
			t = v.CreatedAt
		}
	}
	return t
}

func mapWriteErr(err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrConflict
	case isForeignKeyViolation(err):
		return ErrNotFound
	}
	return err
}
