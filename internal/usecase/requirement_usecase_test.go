package usecase

import (
	"context"
	"testing"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirement_Create_UnknownRole(t *testing.T) {
	e := newEnv(t)
	sk := e.skill("Gunnery", skill.DomainCombat)

	_, err := e.reqs.Create(context.Background(), CreateRequirementInput{RoleID: uuid.New(), SkillID: sk.ID, RequiredLevel: proficiency.Novice})
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequirement_CreateOrGet(t *testing.T) {
	e := newEnv(t)
	r := e.role("Gunner", true, nil)
	sk := e.skill("Gunnery", skill.DomainCombat)
	in := CreateRequirementInput{RoleID: r.ID, SkillID: sk.ID, RequiredLevel: proficiency.Experienced}

	first, created, err := e.reqs.CreateOrGet(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, sk.NameEn, first.NameEn)

	again, created, err := e.reqs.CreateOrGet(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, err = e.reqs.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrRequirementExists)
}

func TestRequirement_ListBySkillAndMaxLevel(t *testing.T) {
	e := newEnv(t)
	sk := e.skill("Gunnery", skill.DomainCombat)
	low, high := e.role("Low", true, nil), e.role("High", true, nil)
	lowID := e.requirement(t, low, sk, proficiency.Novice)
	e.requirement(t, high, sk, proficiency.Specialist)

	got, err := e.reqs.ListBySkillAndMaxLevel(context.Background(), sk.ID, proficiency.Expert)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lowID, got[0].ID)
}

func TestRequirement_Update_RetireAndLevel(t *testing.T) {
	e := newEnv(t)
	r := e.role("Gunner", true, nil)
	id := e.requirement(t, r, e.skill("Gunnery", skill.DomainCombat), proficiency.Novice)
	lvl := proficiency.Expert

	got, err := e.reqs.Update(context.Background(), id, requirement.Changes{RequiredLevel: &lvl, Retire: true})
	require.NoError(t, err)
	assert.Equal(t, proficiency.Expert, got.RequiredLevel)
	assert.True(t, got.Retired())

	got, err = e.reqs.Update(context.Background(), id, requirement.Changes{Unretire: true})
	require.NoError(t, err)
	assert.False(t, got.Retired())

	_, err = e.reqs.Update(context.Background(), uuid.New(), requirement.Changes{Retire: true})
	assert.ErrorIs(t, err, ErrRequirementNotFound)
}

func TestRequirement_BatchCreate(t *testing.T) {
	e := newEnv(t)
	r := e.role("Gunner", true, nil)
	a, b := e.skill("Alpha", skill.DomainCombat), e.skill("Bravo", skill.DomainCombat)

	out, err := e.reqs.BatchCreate(context.Background(), []CreateRequirementInput{
		{RoleID: r.ID, SkillID: a.ID, RequiredLevel: proficiency.Novice},
		{RoleID: r.ID, SkillID: b.ID, RequiredLevel: proficiency.Expert},
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	listed, err := e.reqs.ListByRole(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	counts, err := e.reqs.CountLevelsByDomain(context.Background(), skill.DomainCombat)
	require.NoError(t, err)
	assert.Len(t, counts, 2)
}
