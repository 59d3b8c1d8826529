package memory

import (
	"context"
	"errors"
	"slices"
	"strings"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

type requirementRepo struct{ s *Store }

func (r requirementRepo) insert(req requirement.Requirement) error {
	if _, ok := r.s.skills.Load(req.SkillID); !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.roles.Load(req.RoleID); !ok {
		return repository.ErrNotFound
	}
	key := pairKey{owner: req.RoleID, skill: req.SkillID}
	if _, loaded := r.s.reqKeys.LoadOrStore(key, req.ID); loaded {
		return repository.ErrConflict
	}
	r.s.requirements.Store(req.ID, req)
	return nil
}

func (r requirementRepo) Create(_ context.Context, req requirement.Requirement) (requirement.Requirement, error) {
	if err := r.insert(req); err != nil {
		return requirement.Requirement{}, err
	}
	return req, nil
}

func (r requirementRepo) CreateOrGet(ctx context.Context, req requirement.Requirement) (requirement.Requirement, bool, error) {
	err := r.insert(req)
	if err == nil {
		return req, true, nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return requirement.Requirement{}, false, err
	}
	id, _ := r.s.reqKeys.Load(pairKey{owner: req.RoleID, skill: req.SkillID})
	existing, err := r.GetByID(ctx, id)
	return existing, false, err
}

func (r requirementRepo) BatchCreate(_ context.Context, rs []requirement.Requirement) ([]requirement.Requirement, error) {
	inserted := make([]requirement.Requirement, 0, len(rs))
	for _, req := range rs {
		if err := r.insert(req); err != nil {
			for _, done := range inserted {
				r.s.requirements.Delete(done.ID)
				r.s.reqKeys.Delete(pairKey{owner: done.RoleID, skill: done.SkillID})
			}
			return nil, err
		}
		inserted = append(inserted, req)
	}
	return inserted, nil
}

func (r requirementRepo) GetByID(_ context.Context, id uuid.UUID) (requirement.Requirement, error) {
	req, ok := r.s.requirements.Load(id)
	if !ok {
		return requirement.Requirement{}, repository.ErrNotFound
	}
	return req, nil
}

func (r requirementRepo) list(keep func(requirement.Requirement) bool) []requirement.Requirement {
	out := collect(r.s.requirements, keep)
	slices.SortFunc(out, func(a, b requirement.Requirement) int {
		return byNameThenID(a.NameEn, b.NameEn, a.ID, b.ID)
	})
	return out
}

func (r requirementRepo) ListByRoleID(_ context.Context, roleID uuid.UUID) ([]requirement.Requirement, error) {
	return r.list(func(req requirement.Requirement) bool { return req.RoleID == roleID }), nil
}

func (r requirementRepo) ListBySkillAndMaxLevel(_ context.Context, skillID uuid.UUID, maxLevel proficiency.Level) ([]requirement.Requirement, error) {
	return r.list(func(req requirement.Requirement) bool {
		return req.SkillID == skillID && req.SatisfiedBy(maxLevel)
	}), nil
}

func (r requirementRepo) ListByDomain(_ context.Context, domain skill.Domain, maxLevel *proficiency.Level) ([]requirement.Requirement, error) {
	return r.list(func(req requirement.Requirement) bool {
		return req.Domain == domain && (maxLevel == nil || req.SatisfiedBy(*maxLevel))
	}), nil
}

func (r requirementRepo) SearchByName(_ context.Context, query string) ([]requirement.Requirement, error) {
	query = strings.TrimSpace(query)
	return r.list(func(req requirement.Requirement) bool {
		return containsFold(req.NameEn, query) || containsFold(req.NameFr, query)
	}), nil
}

func (r requirementRepo) Update(_ context.Context, req requirement.Requirement) (requirement.Requirement, error) {
	updated, ok := r.s.requirements.Compute(req.ID, func(old requirement.Requirement, loaded bool) (requirement.Requirement, xsync.ComputeOp) {
		if !loaded {
			return old, xsync.CancelOp
		}
		old.RequiredLevel = req.RequiredLevel
		old.RetiredAt = req.RetiredAt
		old.UpdatedAt = req.UpdatedAt
		return old, xsync.UpdateOp
	})
	if !ok {
		return requirement.Requirement{}, repository.ErrNotFound
	}
	return updated, nil
}

func (r requirementRepo) CountLevelsBySkill(_ context.Context, skillID uuid.UUID) ([]requirement.LevelCount, error) {
	return countRequirementLevels(collect(r.s.requirements, func(req requirement.Requirement) bool {
		return req.SkillID == skillID && !req.Retired()
	})), nil
}

func (r requirementRepo) CountLevelsByDomain(_ context.Context, domain skill.Domain) ([]requirement.LevelCount, error) {
	return countRequirementLevels(collect(r.s.requirements, func(req requirement.Requirement) bool {
		return req.Domain == domain && !req.Retired()
	})), nil
}

func countRequirementLevels(rs []requirement.Requirement) []requirement.LevelCount {
	counts := map[countKey]int64{}
	for _, req := range rs {
		counts[countKey{name: req.NameEn, domain: req.Domain, level: int(req.RequiredLevel)}]++
	}

	keys := make([]countKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareCountKeys)

	out := make([]requirement.LevelCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, requirement.LevelCount{
			Name:   k.name,
			Domain: k.domain,
			Level:  proficiency.Level(k.level),
			Count:  counts[k],
		})
	}
	return out
}
