package matching

import (
	"testing"
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSkill(name string) skill.Skill {
	return skill.Skill{ID: uuid.New(), NameEn: name, NameFr: name, Domain: skill.DomainEngineering}
}

func validatedCap(personID uuid.UUID, sk skill.Skill, lvl proficiency.Level) capability.Capability {
	c := capability.New(personID, uuid.New(), sk, lvl, time.Now())
	c.ApplyValidations(time.Now(), lvl)
	return c
}

func TestRolesForPerson_ThresholdOfThree(t *testing.T) {
	a, b, c, d := newSkill("a"), newSkill("b"), newSkill("c"), newSkill("d")
	person := uuid.New()
	caps := []capability.Capability{
		validatedCap(person, a, proficiency.Expert),
		validatedCap(person, b, proficiency.Expert),
		validatedCap(person, c, proficiency.Expert),
	}

	three := uuid.New()
	two := uuid.New()
	reqs := []requirement.Requirement{
		requirement.New(three, a, proficiency.Expert, time.Now()),
		requirement.New(three, b, proficiency.Novice, time.Now()),
		requirement.New(three, c, proficiency.Experienced, time.Now()),
		requirement.New(three, d, proficiency.Novice, time.Now()),
		requirement.New(two, a, proficiency.Novice, time.Now()),
		requirement.New(two, b, proficiency.Novice, time.Now()),
	}

	hits := RolesForPerson(caps, reqs, DefaultThresholds())

	require.Len(t, hits, 1)
	assert.Equal(t, three, hits[0].RoleID)
	assert.Equal(t, 3, hits[0].Satisfied)
}

func TestRolesForPerson_LevelBelowRequirementDoesNotCount(t *testing.T) {
	a, b, c := newSkill("a"), newSkill("b"), newSkill("c")
	person := uuid.New()
	caps := []capability.Capability{
		validatedCap(person, a, proficiency.Expert),
		validatedCap(person, b, proficiency.Expert),
		validatedCap(person, c, proficiency.Novice),
	}
	roleID := uuid.New()
	reqs := []requirement.Requirement{
		requirement.New(roleID, a, proficiency.Expert, time.Now()),
		requirement.New(roleID, b, proficiency.Expert, time.Now()),
		requirement.New(roleID, c, proficiency.Expert, time.Now()),
	}

	assert.Empty(t, RolesForPerson(caps, reqs, DefaultThresholds()))
}

func TestRolesForPerson_DuplicateRequirementRowsCountOnce(t *testing.T) {
	a, b := newSkill("a"), newSkill("b")
	person := uuid.New()
	caps := []capability.Capability{
		validatedCap(person, a, proficiency.Specialist),
		validatedCap(person, b, proficiency.Specialist),
	}
	roleID := uuid.New()
	ra := requirement.New(roleID, a, proficiency.Novice, time.Now())
	rb := requirement.New(roleID, b, proficiency.Novice, time.Now())

	assert.Empty(t, RolesForPerson(caps, []requirement.Requirement{ra, rb, ra, rb}, DefaultThresholds()))
}

func TestRolesForPerson_UnvalidatedAndRetiredIgnored(t *testing.T) {
	a, b, c := newSkill("a"), newSkill("b"), newSkill("c")
	person := uuid.New()

	unvalidated := capability.New(person, uuid.New(), c, proficiency.Specialist, time.Now())
	retired := validatedCap(person, b, proficiency.Specialist)
	now := time.Now()
	retired.RetiredAt = &now

	caps := []capability.Capability{validatedCap(person, a, proficiency.Specialist), retired, unvalidated}
	roleID := uuid.New()
	reqs := []requirement.Requirement{
		requirement.New(roleID, a, proficiency.Novice, time.Now()),
		requirement.New(roleID, b, proficiency.Novice, time.Now()),
		requirement.New(roleID, c, proficiency.Desired, time.Now()),
	}

	assert.Empty(t, RolesForPerson(caps, reqs, DefaultThresholds()))
	assert.Len(t, RolesForPerson(caps, reqs, Thresholds{PersonRoleMin: 1}), 1)
}

func TestPeopleForRole_RequiresEveryRequirement(t *testing.T) {
	a, b, c := newSkill("a"), newSkill("b"), newSkill("c")
	roleID := uuid.New()
	reqs := []requirement.Requirement{
		requirement.New(roleID, a, proficiency.Expert, time.Now()),
		requirement.New(roleID, b, proficiency.Experienced, time.Now()),
		requirement.New(roleID, c, proficiency.Novice, time.Now()),
	}

	full := uuid.New()
	partial := uuid.New()
	caps := []capability.Capability{
		validatedCap(full, a, proficiency.Specialist),
		validatedCap(full, b, proficiency.Experienced),
		validatedCap(full, c, proficiency.Novice),
		validatedCap(partial, a, proficiency.Expert),
		validatedCap(partial, b, proficiency.Expert),
		validatedCap(partial, c, proficiency.Desired),
	}

	hits := PeopleForRole(reqs, caps, DefaultThresholds())

	require.Len(t, hits, 1)
	assert.Equal(t, full, hits[0].PersonID)
	assert.Equal(t, 3, hits[0].Satisfied)
	assert.Equal(t, 3, hits[0].Required)
}

func TestPeopleForRole_ConfigurableMinimum(t *testing.T) {
	a, b, c := newSkill("a"), newSkill("b"), newSkill("c")
	roleID := uuid.New()
	reqs := []requirement.Requirement{
		requirement.New(roleID, a, proficiency.Novice, time.Now()),
		requirement.New(roleID, b, proficiency.Novice, time.Now()),
		requirement.New(roleID, c, proficiency.Novice, time.Now()),
	}
	person := uuid.New()
	caps := []capability.Capability{
		validatedCap(person, a, proficiency.Novice),
		validatedCap(person, b, proficiency.Novice),
	}

	assert.Empty(t, PeopleForRole(reqs, caps, DefaultThresholds()))
	assert.Equal(t, []uuid.UUID{person}, PersonIDs(PeopleForRole(reqs, caps, Thresholds{RolePeopleMin: 2})))
}

func TestPeopleForRole_NoRequirementsMatchesNobody(t *testing.T) {
	a := newSkill("a")
	caps := []capability.Capability{validatedCap(uuid.New(), a, proficiency.Specialist)}

	assert.Empty(t, PeopleForRole(nil, caps, DefaultThresholds()))
}

func TestPeopleForRole_RetiredRequirementNotRequired(t *testing.T) {
	a, b := newSkill("a"), newSkill("b")
	roleID := uuid.New()
	retired := requirement.New(roleID, b, proficiency.Specialist, time.Now())
	now := time.Now()
	retired.RetiredAt = &now
	reqs := []requirement.Requirement{requirement.New(roleID, a, proficiency.Novice, time.Now()), retired}

	person := uuid.New()
	caps := []capability.Capability{validatedCap(person, a, proficiency.Novice)}

	hits := PeopleForRole(reqs, caps, DefaultThresholds())
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Required)
}

func TestRoleIDs_PreservesOrder(t *testing.T) {
	x, y := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{x, y}, RoleIDs([]RoleHit{{RoleID: x}, {RoleID: y}}))
}
