package seeder

import (
	"testing"

	"capability-sync/internal/domain/person"
	"capability-sync/internal/domain/role"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSkills_StableAndUnique(t *testing.T) {
	a, b := DefaultSkills(), DefaultSkills()
	require.Equal(t, len(a), len(b))

	names := map[string]struct{}{}
	domains := map[skill.Domain]struct{}{}
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		_, dup := names[a[i].NameEn]
		assert.False(t, dup, a[i].NameEn)
		names[a[i].NameEn] = struct{}{}
		domains[a[i].Domain] = struct{}{}
		assert.NotEmpty(t, a[i].NameFr)
	}
	assert.Len(t, domains, len(skill.Domains()))
}

type sink struct {
	skills  []skill.Skill
	persons []person.Person
	roles   []role.Role
}

func (s *sink) PutSkill(sk skill.Skill)   { s.skills = append(s.skills, sk) }
func (s *sink) PutPerson(p person.Person) { s.persons = append(s.persons, p) }
func (s *sink) PutRole(r role.Role)       { s.roles = append(s.roles, r) }

func TestInto_LoadsDirectory(t *testing.T) {
	var s sink
	Into(&s)

	assert.Len(t, s.skills, len(DefaultSkills()))
	assert.Len(t, s.persons, len(devPeople))

	open := 0
	for _, r := range s.roles {
		assert.NotEqual(t, uuid.Nil, r.TeamID)
		if r.Open() {
			open++
		}
	}
	assert.Equal(t, 3, open)
}
