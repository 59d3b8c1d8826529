package usecase

import (
	"context"
	"testing"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatching_PeopleMatchingRole_AfterConsensus(t *testing.T) {
	e := newEnv(t)
	owner := e.person("Ada")
	sk := e.skill("Cyber Operations", skill.DomainInformationTechnology)
	capID := e.capability(t, owner, sk, proficiency.Novice)

	r := e.role("Cyber Lead", true, nil)
	e.requirement(t, r, sk, proficiency.Expert)

	got, err := e.matching.PeopleMatchingRole(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	for range 3 {
		e.validate(t, capID, proficiency.Specialist)
	}

	got, err = e.matching.PeopleMatchingRole(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, owner.ID, got[0].Person.ID)
	assert.Equal(t, 1, got[0].Satisfied)
	assert.Equal(t, 1, got[0].Required)
}

func TestMatching_PeopleMatchingRole_NeedsEveryRequirement(t *testing.T) {
	e := newEnv(t)
	a, b := e.skill("Alpha", skill.DomainEngineering), e.skill("Bravo", skill.DomainEngineering)
	full, partial := e.person("Full"), e.person("Partial")

	for _, sk := range []skill.Skill{a, b} {
		e.validate(t, e.capability(t, full, sk, proficiency.Expert), proficiency.Expert)
	}
	e.validate(t, e.capability(t, partial, a, proficiency.Expert), proficiency.Expert)

	r := e.role("Engineer", true, nil)
	e.requirement(t, r, a, proficiency.Experienced)
	e.requirement(t, r, b, proficiency.Experienced)

	got, err := e.matching.PeopleMatchingRole(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, full.ID, got[0].Person.ID)
}

func TestMatching_PeopleMatchingRole_UnknownRole(t *testing.T) {
	e := newEnv(t)
	_, err := e.matching.PeopleMatchingRole(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestMatching_RolesMatchingPerson_OnlyOpenRolesOverThreshold(t *testing.T) {
	e := newEnv(t)
	p := e.person("Ada")
	occupant := uuid.New()

	skills := make([]skill.Skill, 0, 3)
	for _, name := range []string{"Tactics", "Command", "Doctrine"} {
		sk := e.skill(name, skill.DomainLeadership)
		skills = append(skills, sk)
		e.validate(t, e.capability(t, p, sk, proficiency.Expert), proficiency.Expert)
	}

	open := e.role("Open", true, nil)
	occupied := e.role("Occupied", true, &occupant)
	inactive := e.role("Inactive", false, nil)
	short := e.role("Short", true, nil)
	tooHigh := e.role("Too High", true, nil)

	for _, r := range []struct {
		id    uuid.UUID
		level proficiency.Level
		n     int
	}{
		{open.ID, proficiency.Experienced, 3},
		{occupied.ID, proficiency.Experienced, 3},
		{inactive.ID, proficiency.Experienced, 3},
		{short.ID, proficiency.Experienced, 2},
		{tooHigh.ID, proficiency.Specialist, 3},
	} {
		for _, sk := range skills[:r.n] {
			_, err := e.reqs.Create(context.Background(), CreateRequirementInput{RoleID: r.id, SkillID: sk.ID, RequiredLevel: r.level})
			require.NoError(t, err)
		}
	}

	got, err := e.matching.RolesMatchingPerson(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].Role.ID)
	assert.Equal(t, 3, got[0].Satisfied)
}

func TestMatching_RolesMatchingPerson_IgnoresRetiredCapabilities(t *testing.T) {
	e := newEnv(t)
	p := e.person("Ada")
	r := e.role("Open", true, nil)

	var last uuid.UUID
	for _, name := range []string{"One", "Two", "Three"} {
		sk := e.skill(name, skill.DomainManagement)
		last = e.capability(t, p, sk, proficiency.Expert)
		e.validate(t, last, proficiency.Expert)
		e.requirement(t, r, sk, proficiency.Novice)
	}

	got, err := e.matching.RolesMatchingPerson(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = e.caps.Update(context.Background(), p.ID, last, capability.Changes{Retire: true})
	require.NoError(t, err)

	got, err = e.matching.RolesMatchingPerson(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatching_RolesMatchingPerson_UnknownPerson(t *testing.T) {
	e := newEnv(t)
	_, err := e.matching.RolesMatchingPerson(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestMatching_ResultsAreCachedUntilValidation(t *testing.T) {
	e := newEnv(t)
	owner := e.person("Ada")
	sk := e.skill("Medic", skill.DomainMedical)
	capID := e.capability(t, owner, sk, proficiency.Expert)
	r := e.role("Medic", true, nil)
	e.requirement(t, r, sk, proficiency.Expert)

	got, err := e.matching.PeopleMatchingRole(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, e.cache.size())

	e.validate(t, capID, proficiency.Expert)

	got, err = e.matching.PeopleMatchingRole(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMatching_RolesMatchingPerson_CachedHitsStillFilterVacancy(t *testing.T) {
	e := newEnv(t)
	p := e.person("Ada")
	r := e.role("Open", true, nil)
	for _, name := range []string{"One", "Two", "Three"} {
		sk := e.skill(name, skill.DomainManagement)
		e.validate(t, e.capability(t, p, sk, proficiency.Expert), proficiency.Expert)
		e.requirement(t, r, sk, proficiency.Novice)
	}

	got, err := e.matching.RolesMatchingPerson(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, e.cache.size())

	occupant := uuid.New()
	filled := r
	filled.PersonID = &occupant
	e.store.PutRole(filled)

	got, err = e.matching.RolesMatchingPerson(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	closed := r
	closed.Active = false
	e.store.PutRole(closed)

	got, err = e.matching.RolesMatchingPerson(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	e.store.PutRole(r)

	got, err = e.matching.RolesMatchingPerson(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].Role.ID)
}

func TestMatching_InvalidationDuringFillIsNotServed(t *testing.T) {
	e := newEnv(t)
	owner := e.person("Ada")
	sk := e.skill("Medic", skill.DomainMedical)
	capID := e.capability(t, owner, sk, proficiency.Expert)
	r := e.role("Medic", true, nil)
	e.requirement(t, r, sk, proficiency.Expert)

	// The validation commits after the match was computed but before its
	// result reaches the cache.
	e.cache.beforeSet = func() { e.validate(t, capID, proficiency.Expert) }

	got, err := e.matching.PeopleMatchingRole(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, e.cache.size())

	got, err = e.matching.PeopleMatchingRole(context.Background(), r.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, owner.ID, got[0].Person.ID)
}

func TestMatching_PeopleMatchingRole_IgnoresVacancy(t *testing.T) {
	e := newEnv(t)
	p := e.person("Ada")
	sk := e.skill("Logistics", skill.DomainManagement)
	e.validate(t, e.capability(t, p, sk, proficiency.Expert), proficiency.Expert)

	occupant := uuid.New()
	for _, r := range []struct {
		title    string
		active   bool
		occupant *uuid.UUID
	}{
		{"Occupied", true, &occupant},
		{"Inactive", false, nil},
		{"Inactive and occupied", false, &occupant},
	} {
		t.Run(r.title, func(t *testing.T) {
			target := e.role(r.title, r.active, r.occupant)
			e.requirement(t, target, sk, proficiency.Experienced)

			got, err := e.matching.PeopleMatchingRole(context.Background(), target.ID)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, p.ID, got[0].Person.ID)
			assert.Equal(t, 1, got[0].Satisfied)
		})
	}
}
