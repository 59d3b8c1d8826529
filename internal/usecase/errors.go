package usecase

import (
	"errors"
	"fmt"

	"capability-sync/internal/repository"
)

// Error kinds. Every error returned by this package matches exactly one of
// them under errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrSkillNotFound       = fmt.Errorf("skill %w", ErrNotFound)
	ErrCapabilityNotFound  = fmt.Errorf("capability %w", ErrNotFound)
	ErrValidationNotFound  = fmt.Errorf("validation %w", ErrNotFound)
	ErrRequirementNotFound = fmt.Errorf("requirement %w", ErrNotFound)
	ErrRoleNotFound        = fmt.Errorf("role %w", ErrNotFound)
	ErrPersonNotFound      = fmt.Errorf("person %w", ErrNotFound)

	ErrCapabilityExists  = fmt.Errorf("capability for person and skill: %w", ErrConflict)
	ErrRequirementExists = fmt.Errorf("requirement for role and skill: %w", ErrConflict)

	ErrInvalidLevel   = fmt.Errorf("%w: proficiency level", ErrInvalidInput)
	ErrInvalidDomain  = fmt.Errorf("%w: skill domain", ErrInvalidInput)
	ErrSelfValidation = fmt.Errorf("%w: validator owns the capability", ErrInvalidInput)
)

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// fromRepo maps repository errors onto the kinds above. notFound and conflict
// name the entity involved.
func fromRepo(err, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrConflict):
		if conflict == nil {
			return ErrConflict
		}
		return conflict
	default:
		return unavailable(err)
	}
}
