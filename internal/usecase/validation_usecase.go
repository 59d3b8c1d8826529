package usecase

import (
	"context"
	"fmt"
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/validation"
	"capability-sync/internal/pkg/metrics"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateValidationInput struct {
	ValidatorID    uuid.UUID
	CapabilityID   uuid.UUID
	ValidatedLevel proficiency.Level
}

// ValidationResult pairs a stored validation with the capability consensus
// it produced.
type ValidationResult struct {
	Validation validation.Validation
	Capability capability.Capability
}

type ValidationUsecase interface {
	Create(ctx context.Context, in CreateValidationInput) (ValidationResult, error)
	BatchCreate(ctx context.Context, in []CreateValidationInput) ([]validation.Validation, []capability.Capability, error)
	// Update re-assesses a validation. Only its author may do so when
	// validatorID is set.
	Update(ctx context.Context, validatorID, id uuid.UUID, level proficiency.Level) (ValidationResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (validation.Validation, error)
	ListByCapability(ctx context.Context, capabilityID uuid.UUID) ([]validation.Validation, error)
	ListByValidator(ctx context.Context, validatorID uuid.UUID) ([]validation.Validation, error)
}

type ValidationDeps struct {
	Validations  repository.ValidationRepository
	Capabilities repository.CapabilityRepository
	Cache        MatchCache
	Notifier     Notifier
	Metrics      *metrics.Recorder
	Logger       *zap.Logger
}

type Validation struct {
	validations repository.ValidationRepository
	caps        repository.CapabilityRepository
	cache       MatchCache
	notifier    Notifier
	metrics     *metrics.Recorder
	logger      *zap.Logger
	now         func() time.Time
}

func NewValidationUsecase(d ValidationDeps) *Validation {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Validation{
		validations: d.Validations,
		caps:        d.Capabilities,
		cache:       d.Cache,
		notifier:    d.Notifier,
		metrics:     d.Metrics,
		logger:      d.Logger,
		now:         time.Now,
	}
}

func checkValidationInput(in CreateValidationInput) error {
	if in.ValidatorID == uuid.Nil || in.CapabilityID == uuid.Nil {
		return ErrInvalidInput
	}
	if !in.ValidatedLevel.Valid() {
		return ErrInvalidLevel
	}
	return nil
}

func (u *Validation) Create(ctx context.Context, in CreateValidationInput) (ValidationResult, error) {
	if err := checkValidationInput(in); err != nil {
		return ValidationResult{}, err
	}

	c, err := u.caps.GetByID(ctx, in.CapabilityID)
	if err != nil {
		return ValidationResult{}, fromRepo(err, ErrCapabilityNotFound, nil)
	}
	if c.PersonID == in.ValidatorID {
		return ValidationResult{}, ErrSelfValidation
	}

	v := validation.New(in.ValidatorID, in.CapabilityID, in.ValidatedLevel, u.now().UTC())
	saved, updated, err := u.validations.Create(ctx, v)
	if err != nil {
		return ValidationResult{}, fromRepo(err, ErrCapabilityNotFound, nil)
	}

	u.applied(ctx, "single", 1, []capability.Capability{updated})
	return ValidationResult{Validation: saved, Capability: updated}, nil
}

func (u *Validation) BatchCreate(ctx context.Context, in []CreateValidationInput) ([]validation.Validation, []capability.Capability, error) {
	if len(in) == 0 {
		return []validation.Validation{}, []capability.Capability{}, nil
	}

	ids := make([]uuid.UUID, 0, len(in))
	seen := make(map[uuid.UUID]struct{}, len(in))
	for i, it := range in {
		if err := checkValidationInput(it); err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, ok := seen[it.CapabilityID]; !ok {
			seen[it.CapabilityID] = struct{}{}
			ids = append(ids, it.CapabilityID)
		}
	}

	caps, err := u.caps.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, unavailable(err)
	}
	owners := make(map[uuid.UUID]uuid.UUID, len(caps))
	for _, c := range caps {
		owners[c.ID] = c.PersonID
	}

	now := u.now().UTC()
	vs := make([]validation.Validation, 0, len(in))
	for i, it := range in {
		owner, ok := owners[it.CapabilityID]
		if !ok {
			return nil, nil, fmt.Errorf("item %d: %w", i, ErrCapabilityNotFound)
		}
		if owner == it.ValidatorID {
			return nil, nil, fmt.Errorf("item %d: %w", i, ErrSelfValidation)
		}
		vs = append(vs, validation.New(it.ValidatorID, it.CapabilityID, it.ValidatedLevel, now))
	}

	saved, updated, err := u.validations.BatchCreate(ctx, vs)
	if err != nil {
		return nil, nil, fromRepo(err, ErrCapabilityNotFound, nil)
	}

	u.applied(ctx, "batch", len(saved), updated)
	return saved, updated, nil
}

func (u *Validation) Update(ctx context.Context, validatorID, id uuid.UUID, level proficiency.Level) (ValidationResult, error) {
	if id == uuid.Nil {
		return ValidationResult{}, ErrInvalidInput
	}
	if !level.Valid() {
		return ValidationResult{}, ErrInvalidLevel
	}

	current, err := u.validations.GetByID(ctx, id)
	if err != nil {
		return ValidationResult{}, fromRepo(err, ErrValidationNotFound, nil)
	}
	if validatorID != uuid.Nil && current.ValidatorID != validatorID {
		return ValidationResult{}, ErrForbidden
	}

	saved, updated, err := u.validations.Update(ctx, id, level, u.now().UTC())
	if err != nil {
		return ValidationResult{}, fromRepo(err, ErrValidationNotFound, nil)
	}

	u.applied(ctx, "reassessment", 1, []capability.Capability{updated})
	return ValidationResult{Validation: saved, Capability: updated}, nil
}

func (u *Validation) GetByID(ctx context.Context, id uuid.UUID) (validation.Validation, error) {
	v, err := u.validations.GetByID(ctx, id)
	if err != nil {
		return validation.Validation{}, fromRepo(err, ErrValidationNotFound, nil)
	}
	return v, nil
}

func (u *Validation) ListByCapability(ctx context.Context, capabilityID uuid.UUID) ([]validation.Validation, error) {
	if capabilityID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.validations.ListByCapabilityID(ctx, capabilityID)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Validation) ListByValidator(ctx context.Context, validatorID uuid.UUID) ([]validation.Validation, error) {
	if validatorID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.validations.ListByValidatorID(ctx, validatorID)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Validation) applied(ctx context.Context, mode string, n int, caps []capability.Capability) {
	u.metrics.ValidationsApplied(mode, n)
	invalidateMatches(ctx, u.cache, u.logger)

	for _, c := range caps {
		level := "none"
		if c.ValidatedLevel != nil {
			level = c.ValidatedLevel.String()
		}
		u.metrics.ConsensusRecomputed(level)
		u.logger.Debug("consensus recomputed",
			zap.String("capability_id", c.ID.String()),
			zap.String("validated_level", level),
			zap.Int("values", len(c.ValidationValues)),
		)
		if u.notifier != nil {
			u.notifier.CapabilityValidated(c)
		}
	}
}
