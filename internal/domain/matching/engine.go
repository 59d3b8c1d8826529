package matching

import (
	"sort"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/requirement"

	"github.com/google/uuid"
)

const DefaultPersonRoleMin = 3

// Thresholds holds one acceptance rule per direction. A role is suggested to
// a person on partial fit. A person is proposed for a role only on full fit
// unless RolePeopleMin is set.
type Thresholds struct {
	// PersonRoleMin is the number of a role's requirements a person must
	// satisfy before the role is suggested to them.
	PersonRoleMin int
	// RolePeopleMin, when > 0, accepts people satisfying at least this many
	// requirements. 0 means every requirement of the role.
	RolePeopleMin int
}

func DefaultThresholds() Thresholds {
	return Thresholds{PersonRoleMin: DefaultPersonRoleMin}
}

func (t Thresholds) normalized() Thresholds {
	if t.PersonRoleMin <= 0 {
		t.PersonRoleMin = DefaultPersonRoleMin
	}
	if t.RolePeopleMin < 0 {
		t.RolePeopleMin = 0
	}
	return t
}

type RoleHit struct {
	RoleID    uuid.UUID
	Satisfied int
}

type PersonHit struct {
	PersonID  uuid.UUID
	Satisfied int
	Required  int
}

// hitSet counts distinct requirement ids per owner id.
type hitSet map[uuid.UUID]map[uuid.UUID]struct{}

func (h hitSet) add(owner, req uuid.UUID) {
	m, ok := h[owner]
	if !ok {
		m = map[uuid.UUID]struct{}{}
		h[owner] = m
	}
	m[req] = struct{}{}
}

// Satisfies is the primitive both directions share.
func Satisfies(c capability.Capability, r requirement.Requirement) bool {
	if c.SkillID != r.SkillID || c.Retired() || r.Retired() {
		return false
	}
	return c.SatisfiesAt(r.RequiredLevel)
}

// RolesForPerson tallies, per role, the distinct requirements met by the
// person's capabilities and keeps roles reaching PersonRoleMin. Vacancy is
// not considered here.
func RolesForPerson(caps []capability.Capability, reqs []requirement.Requirement, th Thresholds) []RoleHit {
	th = th.normalized()

	bySkill := make(map[uuid.UUID][]requirement.Requirement, len(reqs))
	for _, r := range reqs {
		if r.Retired() || r.RoleID == uuid.Nil {
			continue
		}
		bySkill[r.SkillID] = append(bySkill[r.SkillID], r)
	}

	hits := hitSet{}
	for _, c := range caps {
		for _, r := range bySkill[c.SkillID] {
			if Satisfies(c, r) {
				hits.add(r.RoleID, r.ID)
			}
		}
	}

	out := make([]RoleHit, 0, len(hits))
	for roleID, set := range hits {
		if len(set) >= th.PersonRoleMin {
			out = append(out, RoleHit{RoleID: roleID, Satisfied: len(set)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Satisfied != out[j].Satisfied {
			return out[i].Satisfied > out[j].Satisfied
		}
		return out[i].RoleID.String() < out[j].RoleID.String()
	})
	return out
}

// PeopleForRole tallies, per person, the distinct role requirements their
// capabilities satisfy. A role without active requirements matches nobody.
func PeopleForRole(reqs []requirement.Requirement, caps []capability.Capability, th Thresholds) []PersonHit {
	th = th.normalized()

	active := make([]requirement.Requirement, 0, len(reqs))
	seen := map[uuid.UUID]struct{}{}
	for _, r := range reqs {
		if r.Retired() {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		active = append(active, r)
	}
	n := len(active)
	if n == 0 {
		return []PersonHit{}
	}

	need := n
	if th.RolePeopleMin > 0 && th.RolePeopleMin < n {
		need = th.RolePeopleMin
	}

	capsBySkill := make(map[uuid.UUID][]capability.Capability, len(caps))
	for _, c := range caps {
		capsBySkill[c.SkillID] = append(capsBySkill[c.SkillID], c)
	}

	hits := hitSet{}
	for _, r := range active {
		for _, c := range capsBySkill[r.SkillID] {
			if Satisfies(c, r) {
				hits.add(c.PersonID, r.ID)
			}
		}
	}

	out := make([]PersonHit, 0, len(hits))
	for personID, set := range hits {
		if len(set) >= need {
			out = append(out, PersonHit{PersonID: personID, Satisfied: len(set), Required: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Satisfied != out[j].Satisfied {
			return out[i].Satisfied > out[j].Satisfied
		}
		return out[i].PersonID.String() < out[j].PersonID.String()
	})
	return out
}

func RoleIDs(hits []RoleHit) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.RoleID)
	}
	return out
}

func PersonIDs(hits []PersonHit) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.PersonID)
	}
	return out
}
