package memory

import (
	"context"
	"slices"
	"strings"

	"capability-sync/internal/domain/person"
	"capability-sync/internal/domain/role"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
)

type skillRepo struct{ s *Store }

func (r skillRepo) GetByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	sk, ok := r.s.skills.Load(id)
	if !ok {
		return skill.Skill{}, repository.ErrNotFound
	}
	return sk, nil
}

func (r skillRepo) List(_ context.Context) ([]skill.Skill, error) {
	out := collect(r.s.skills, nil)
	slices.SortFunc(out, func(a, b skill.Skill) int { return byNameThenID(a.NameEn, b.NameEn, a.ID, b.ID) })
	return out, nil
}

func (r skillRepo) ListByDomain(_ context.Context, domain skill.Domain) ([]skill.Skill, error) {
	out := collect(r.s.skills, func(sk skill.Skill) bool { return sk.Domain == domain })
	slices.SortFunc(out, func(a, b skill.Skill) int { return byNameThenID(a.NameEn, b.NameEn, a.ID, b.ID) })
	return out, nil
}

func (r skillRepo) FindTopIDByName(_ context.Context, name string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	found := collect(r.s.skills, func(sk skill.Skill) bool {
		return strings.EqualFold(sk.NameEn, name) || strings.EqualFold(sk.NameFr, name)
	})
	if len(found) == 0 {
		return uuid.Nil, repository.ErrNotFound
	}
	slices.SortFunc(found, func(a, b skill.Skill) int {
		if (a.RetiredAt == nil) != (b.RetiredAt == nil) {
			if a.RetiredAt == nil {
				return -1
			}
			return 1
		}
		return byNameThenID(a.NameEn, b.NameEn, a.ID, b.ID)
	})
	return found[0].ID, nil
}

type personRepo struct{ s *Store }

func (r personRepo) GetByID(_ context.Context, id uuid.UUID) (person.Person, error) {
	p, ok := r.s.persons.Load(id)
	if !ok {
		return person.Person{}, repository.ErrNotFound
	}
	return p, nil
}

func (r personRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]person.Person, error) {
	out := make([]person.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.persons.Load(id); ok {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b person.Person) int {
		return byNameThenID(a.FamilyName+" "+a.GivenName, b.FamilyName+" "+b.GivenName, a.ID, b.ID)
	})
	return out, nil
}

func (r personRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.s.persons.Load(id)
	return ok, nil
}

type roleRepo struct{ s *Store }

func (r roleRepo) GetByID(_ context.Context, id uuid.UUID) (role.Role, error) {
	ro, ok := r.s.roles.Load(id)
	if !ok {
		return role.Role{}, repository.ErrNotFound
	}
	return ro, nil
}

func (r roleRepo) IsActiveAndVacant(_ context.Context, id uuid.UUID) (bool, error) {
	ro, ok := r.s.roles.Load(id)
	return ok && ro.Open(), nil
}

func (r roleRepo) ListActiveVacantByIDs(_ context.Context, ids []uuid.UUID) ([]role.Role, error) {
	out := make([]role.Role, 0, len(ids))
	for _, id := range ids {
		if ro, ok := r.s.roles.Load(id); ok && ro.Open() {
			out = append(out, ro)
		}
	}
	slices.SortFunc(out, func(a, b role.Role) int { return byNameThenID(a.TitleEn, b.TitleEn, a.ID, b.ID) })
	return out, nil
}
