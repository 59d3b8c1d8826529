package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

type capabilityRepo struct{ s *Store }

func (r capabilityRepo) insert(c capability.Capability) error {
	if _, ok := r.s.skills.Load(c.SkillID); !ok {
		return repository.ErrNotFound
	}
	key := pairKey{owner: c.PersonID, skill: c.SkillID}
	if _, loaded := r.s.capKeys.LoadOrStore(key, c.ID); loaded {
		return repository.ErrConflict
	}
	r.s.capabilities.Store(c.ID, cloneCapability(c))
	return nil
}

func (r capabilityRepo) Create(_ context.Context, c capability.Capability) (capability.Capability, error) {
	if err := r.insert(c); err != nil {
		return capability.Capability{}, err
	}
	return cloneCapability(c), nil
}

func (r capabilityRepo) CreateOrGet(ctx context.Context, c capability.Capability) (capability.Capability, bool, error) {
	err := r.insert(c)
	if err == nil {
		return cloneCapability(c), true, nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return capability.Capability{}, false, err
	}
	id, _ := r.s.capKeys.Load(pairKey{owner: c.PersonID, skill: c.SkillID})
	existing, err := r.GetByID(ctx, id)
	return existing, false, err
}

func (r capabilityRepo) BatchCreate(_ context.Context, cs []capability.Capability) ([]capability.Capability, error) {
	inserted := make([]capability.Capability, 0, len(cs))
	for _, c := range cs {
		if err := r.insert(c); err != nil {
			for _, done := range inserted {
				r.s.capabilities.Delete(done.ID)
				r.s.capKeys.Delete(pairKey{owner: done.PersonID, skill: done.SkillID})
			}
			return nil, err
		}
		inserted = append(inserted, cloneCapability(c))
	}
	return inserted, nil
}

func (r capabilityRepo) GetByID(_ context.Context, id uuid.UUID) (capability.Capability, error) {
	c, ok := r.s.capabilities.Load(id)
	if !ok {
		return capability.Capability{}, repository.ErrNotFound
	}
	return cloneCapability(c), nil
}

func (r capabilityRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]capability.Capability, error) {
	out := make([]capability.Capability, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.s.capabilities.Load(id); ok {
			out = append(out, cloneCapability(c))
		}
	}
	slices.SortFunc(out, func(a, b capability.Capability) int { return byID(a.ID, b.ID) })
	return out, nil
}

func (r capabilityRepo) list(keep func(capability.Capability) bool, byName bool) []capability.Capability {
	out := collect(r.s.capabilities, keep)
	for i := range out {
		out[i] = cloneCapability(out[i])
	}
	slices.SortFunc(out, func(a, b capability.Capability) int {
		if byName {
			return byNameThenID(a.NameEn, b.NameEn, a.ID, b.ID)
		}
		return byID(a.ID, b.ID)
	})
	return out
}

func atLeast(c capability.Capability, minLevel *proficiency.Level) bool {
	if minLevel == nil {
		return true
	}
	return c.SatisfiesAt(*minLevel)
}

func (r capabilityRepo) ListByPersonID(_ context.Context, personID uuid.UUID) ([]capability.Capability, error) {
	return r.list(func(c capability.Capability) bool { return c.PersonID == personID }, true), nil
}

func (r capabilityRepo) ListBySkillID(_ context.Context, skillID uuid.UUID, minLevel *proficiency.Level) ([]capability.Capability, error) {
	return r.list(func(c capability.Capability) bool {
		return c.SkillID == skillID && atLeast(c, minLevel)
	}, false), nil
}

func (r capabilityRepo) ListByDomain(_ context.Context, domain skill.Domain, minLevel *proficiency.Level) ([]capability.Capability, error) {
	return r.list(func(c capability.Capability) bool {
		return c.Domain == domain && atLeast(c, minLevel)
	}, true), nil
}

func (r capabilityRepo) SearchByName(_ context.Context, query string) ([]capability.Capability, error) {
	query = strings.TrimSpace(query)
	return r.list(func(c capability.Capability) bool {
		return containsFold(c.NameEn, query) || containsFold(c.NameFr, query)
	}, true), nil
}

func (r capabilityRepo) Update(_ context.Context, c capability.Capability) (capability.Capability, error) {
	updated, ok := r.s.capabilities.Compute(c.ID, func(old capability.Capability, loaded bool) (capability.Capability, xsync.ComputeOp) {
		if !loaded {
			return old, xsync.CancelOp
		}
		old = cloneCapability(old)
		old.SelfIdentifiedLevel = c.SelfIdentifiedLevel
		old.RetiredAt = c.RetiredAt
		old.UpdatedAt = c.UpdatedAt
		return old, xsync.UpdateOp
	})
	if !ok {
		return capability.Capability{}, repository.ErrNotFound
	}
	return cloneCapability(updated), nil
}

func (r capabilityRepo) CountLevelsBySkill(_ context.Context, skillID uuid.UUID) ([]capability.LevelCount, error) {
	return countCapabilityLevels(collect(r.s.capabilities, func(c capability.Capability) bool {
		return c.SkillID == skillID && !c.Retired()
	})), nil
}

func (r capabilityRepo) CountLevelsByDomain(_ context.Context, domain skill.Domain) ([]capability.LevelCount, error) {
	return countCapabilityLevels(collect(r.s.capabilities, func(c capability.Capability) bool {
		return c.Domain == domain && !c.Retired()
	})), nil
}

type countKey struct {
	name   string
	domain skill.Domain
	level  int
}

func countCapabilityLevels(cs []capability.Capability) []capability.LevelCount {
	counts := map[countKey]int64{}
	for _, c := range cs {
		k := countKey{name: c.NameEn, domain: c.Domain, level: -1}
		if c.ValidatedLevel != nil {
			k.level = int(*c.ValidatedLevel)
		}
		counts[k]++
	}

	keys := make([]countKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareCountKeys)

	out := make([]capability.LevelCount, 0, len(keys))
	for _, k := range keys {
		lc := capability.LevelCount{Name: k.name, Domain: k.domain, Count: counts[k]}
		if k.level >= 0 {
			l := proficiency.Level(k.level)
			lc.Level = &l
		}
		out = append(out, lc)
	}
	return out
}

func compareCountKeys(a, b countKey) int {
	if c := cmp.Compare(a.name, b.name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.level, b.level); c != 0 {
		return c
	}
	return cmp.Compare(a.domain, b.domain)
}
