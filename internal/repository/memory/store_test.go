package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/role"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/domain/validation"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoles_ActiveAndVacant(t *testing.T) {
	s := New()
	occupant := uuid.New()
	open := role.Role{ID: uuid.New(), Active: true}
	filled := role.Role{ID: uuid.New(), Active: true, PersonID: &occupant}
	closed := role.Role{ID: uuid.New(), Active: false}
	for _, r := range []role.Role{open, filled, closed} {
		s.PutRole(r)
	}

	ctx := context.Background()
	ok, err := s.Roles().IsActiveAndVacant(ctx, open.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Roles().IsActiveAndVacant(ctx, filled.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Roles().ListActiveVacantByIDs(ctx, []uuid.UUID{open.ID, filled.ID, closed.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
}

func TestCapabilities_DuplicatePair(t *testing.T) {
	s := New()
	sk := skill.Skill{ID: uuid.New(), NameEn: "Triage", NameFr: "Triage_FR", Domain: skill.DomainMedical}
	s.PutSkill(sk)
	owner := uuid.New()

	ctx := context.Background()
	_, err := s.Capabilities().Create(ctx, capability.New(owner, uuid.New(), sk, proficiency.Novice, time.Now()))
	require.NoError(t, err)
	_, err = s.Capabilities().Create(ctx, capability.New(owner, uuid.New(), sk, proficiency.Expert, time.Now()))
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestValidations_ConcurrentAppend(t *testing.T) {
	s := New()
	sk := skill.Skill{ID: uuid.New(), NameEn: "Triage", Domain: skill.DomainMedical}
	s.PutSkill(sk)

	ctx := context.Background()
	c, err := s.Capabilities().Create(ctx, capability.New(uuid.New(), uuid.New(), sk, proficiency.Novice, time.Now()))
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Validations().Create(ctx, validation.New(uuid.New(), c.ID, proficiency.Novice, time.Now()))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Capabilities().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, got.ValidationValues, writers+1)
	require.NotNil(t, got.ValidatedLevel)
	assert.Equal(t, proficiency.Novice, *got.ValidatedLevel)

	listed, err := s.Validations().ListByCapabilityID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, listed, writers)
}

func TestValidations_UnknownCapability(t *testing.T) {
	s := New()
	_, _, err := s.Validations().Create(context.Background(), validation.New(uuid.New(), uuid.New(), proficiency.Expert, time.Now()))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
