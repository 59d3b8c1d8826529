package memory

import (
	"context"
	"slices"
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/validation"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

type validationRepo struct{ s *Store }

// apply appends levels to one capability and recomputes its consensus inside
// a single Compute call.
func (r validationRepo) apply(id uuid.UUID, now time.Time, levels ...proficiency.Level) (capability.Capability, bool) {
	updated, ok := r.s.capabilities.Compute(id, func(old capability.Capability, loaded bool) (capability.Capability, xsync.ComputeOp) {
		if !loaded {
			return old, xsync.CancelOp
		}
		old = cloneCapability(old)
		old.ApplyValidations(now, levels...)
		return old, xsync.UpdateOp
	})
	return cloneCapability(updated), ok
}

func (r validationRepo) Create(_ context.Context, v validation.Validation) (validation.Validation, capability.Capability, error) {
	c, ok := r.apply(v.CapabilityID, v.CreatedAt, v.ValidatedLevel)
	if !ok {
		return validation.Validation{}, capability.Capability{}, repository.ErrNotFound
	}
	r.s.validations.Store(v.ID, v)
	return v, c, nil
}

func (r validationRepo) BatchCreate(_ context.Context, vs []validation.Validation) ([]validation.Validation, []capability.Capability, error) {
	levels, ids := validation.GroupByCapability(vs)
	for _, id := range ids {
		if _, ok := r.s.capabilities.Load(id); !ok {
			return nil, nil, repository.ErrNotFound
		}
	}

	now := time.Time{}
	for _, v := range vs {
		if v.CreatedAt.After(now) {
			now = v.CreatedAt
		}
	}

	slices.SortFunc(ids, byID)
	updated := make([]capability.Capability, 0, len(ids))
	for _, id := range ids {
		c, ok := r.apply(id, now, levels[id]...)
		if !ok {
			return nil, nil, repository.ErrNotFound
		}
		updated = append(updated, c)
	}
	for _, v := range vs {
		r.s.validations.Store(v.ID, v)
	}

	out := make([]validation.Validation, len(vs))
	copy(out, vs)
	return out, updated, nil
}

func (r validationRepo) Update(_ context.Context, id uuid.UUID, level proficiency.Level, now time.Time) (validation.Validation, capability.Capability, error) {
	saved, ok := r.s.validations.Compute(id, func(old validation.Validation, loaded bool) (validation.Validation, xsync.ComputeOp) {
		if !loaded {
			return old, xsync.CancelOp
		}
		old.ValidatedLevel = level
		old.UpdatedAt = now
		return old, xsync.UpdateOp
	})
	if !ok {
		return validation.Validation{}, capability.Capability{}, repository.ErrNotFound
	}

	c, ok := r.apply(saved.CapabilityID, now, level)
	if !ok {
		return validation.Validation{}, capability.Capability{}, repository.ErrNotFound
	}
	return saved, c, nil
}

func (r validationRepo) GetByID(_ context.Context, id uuid.UUID) (validation.Validation, error) {
	v, ok := r.s.validations.Load(id)
	if !ok {
		return validation.Validation{}, repository.ErrNotFound
	}
	return v, nil
}

func (r validationRepo) ListByCapabilityID(_ context.Context, capabilityID uuid.UUID) ([]validation.Validation, error) {
	return r.list(func(v validation.Validation) bool { return v.CapabilityID == capabilityID }), nil
}

func (r validationRepo) ListByValidatorID(_ context.Context, validatorID uuid.UUID) ([]validation.Validation, error) {
	return r.list(func(v validation.Validation) bool { return v.ValidatorID == validatorID }), nil
}

func (r validationRepo) list(keep func(validation.Validation) bool) []validation.Validation {
	out := collect(r.s.validations, keep)
	slices.SortFunc(out, func(a, b validation.Validation) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return byID(a.ID, b.ID)
	})
	return out
}
