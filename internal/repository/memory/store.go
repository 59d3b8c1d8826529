// Package memory is an in-process implementation of the repository
// interfaces. Consensus writes are atomic per capability through
// xsync.Map.Compute.
package memory

import (
	"cmp"
	"slices"
	"strings"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/person"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/role"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/domain/validation"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

type pairKey struct {
	owner uuid.UUID
	skill uuid.UUID
}

type Store struct {
	skills       *xsync.Map[uuid.UUID, skill.Skill]
	persons      *xsync.Map[uuid.UUID, person.Person]
	roles        *xsync.Map[uuid.UUID, role.Role]
	capabilities *xsync.Map[uuid.UUID, capability.Capability]
	capKeys      *xsync.Map[pairKey, uuid.UUID]
	validations  *xsync.Map[uuid.UUID, validation.Validation]
	requirements *xsync.Map[uuid.UUID, requirement.Requirement]
	reqKeys      *xsync.Map[pairKey, uuid.UUID]
}

func New() *Store {
	return &Store{
		skills:       xsync.NewMap[uuid.UUID, skill.Skill](),
		persons:      xsync.NewMap[uuid.UUID, person.Person](),
		roles:        xsync.NewMap[uuid.UUID, role.Role](),
		capabilities: xsync.NewMap[uuid.UUID, capability.Capability](),
		capKeys:      xsync.NewMap[pairKey, uuid.UUID](),
		validations:  xsync.NewMap[uuid.UUID, validation.Validation](),
		requirements: xsync.NewMap[uuid.UUID, requirement.Requirement](),
		reqKeys:      xsync.NewMap[pairKey, uuid.UUID](),
	}
}

func (s *Store) PutSkill(sk skill.Skill)   { s.skills.Store(sk.ID, sk) }
func (s *Store) PutPerson(p person.Person) { s.persons.Store(p.ID, p) }
func (s *Store) PutRole(r role.Role)       { s.roles.Store(r.ID, r) }

func (s *Store) Skills() repository.SkillRepository             { return skillRepo{s} }
func (s *Store) Persons() repository.PersonRepository           { return personRepo{s} }
func (s *Store) Roles() repository.RoleRepository               { return roleRepo{s} }
func (s *Store) Capabilities() repository.CapabilityRepository   { return capabilityRepo{s} }
func (s *Store) Validations() repository.ValidationRepository   { return validationRepo{s} }
func (s *Store) Requirements() repository.RequirementRepository { return requirementRepo{s} }

func collect[K comparable, V any](m *xsync.Map[K, V], keep func(V) bool) []V {
	out := make([]V, 0)
	m.Range(func(_ K, v V) bool {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
		return true
	})
	return out
}

func cloneCapability(c capability.Capability) capability.Capability {
	c.ValidationValues = slices.Clone(c.ValidationValues)
	return c
}

func byID(a, b uuid.UUID) int {
	return strings.Compare(a.String(), b.String())
}

func byNameThenID(nameA, nameB string, a, b uuid.UUID) int {
	if c := cmp.Compare(nameA, nameB); c != 0 {
		return c
	}
	return byID(a, b)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
