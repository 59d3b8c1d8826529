package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateCapabilityInput struct {
	PersonID            uuid.UUID
	SkillID             uuid.UUID
	OrganizationID      uuid.UUID
	SelfIdentifiedLevel proficiency.Level
}

type CapabilityUsecase interface {
	Create(ctx context.Context, in CreateCapabilityInput) (capability.Capability, error)
	CreateOrGet(ctx context.Context, in CreateCapabilityInput) (capability.Capability, bool, error)
	BatchCreate(ctx context.Context, in []CreateCapabilityInput) ([]capability.Capability, error)
	// Update applies owner edits. A nil ownerID skips the ownership check.
	Update(ctx context.Context, ownerID, id uuid.UUID, ch capability.Changes) (capability.Capability, error)
	GetByID(ctx context.Context, id uuid.UUID) (capability.Capability, error)
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]capability.Capability, error)
	ListBySkill(ctx context.Context, skillID uuid.UUID, minLevel *proficiency.Level) ([]capability.Capability, error)
	ListByDomain(ctx context.Context, domain skill.Domain, minLevel *proficiency.Level) ([]capability.Capability, error)
	SearchByName(ctx context.Context, query string) ([]capability.Capability, error)
	CountLevelsBySkillName(ctx context.Context, name string) ([]capability.LevelCount, error)
	CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]capability.LevelCount, error)
}

type Capability struct {
	caps   repository.CapabilityRepository
	skills repository.SkillRepository
	cache  MatchCache
	logger *zap.Logger
	now    func() time.Time
}

func NewCapabilityUsecase(caps repository.CapabilityRepository, skills repository.SkillRepository, cache MatchCache, logger *zap.Logger) *Capability {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capability{caps: caps, skills: skills, cache: cache, logger: logger, now: time.Now}
}

func (u *Capability) build(ctx context.Context, in CreateCapabilityInput, resolve func(context.Context, uuid.UUID) (skill.Skill, error)) (capability.Capability, error) {
	if in.PersonID == uuid.Nil || in.SkillID == uuid.Nil {
		return capability.Capability{}, ErrInvalidInput
	}
	if !in.SelfIdentifiedLevel.Valid() {
		return capability.Capability{}, ErrInvalidLevel
	}
	sk, err := resolve(ctx, in.SkillID)
	if err != nil {
		return capability.Capability{}, err
	}
	return capability.New(in.PersonID, in.OrganizationID, sk, in.SelfIdentifiedLevel, u.now().UTC()), nil
}

func (u *Capability) Create(ctx context.Context, in CreateCapabilityInput) (capability.Capability, error) {
	c, err := u.build(ctx, in, u.resolveSkill)
	if err != nil {
		return capability.Capability{}, err
	}
	created, err := u.caps.Create(ctx, c)
	if err != nil {
		return capability.Capability{}, fromRepo(err, ErrSkillNotFound, ErrCapabilityExists)
	}
	return created, nil
}

func (u *Capability) CreateOrGet(ctx context.Context, in CreateCapabilityInput) (capability.Capability, bool, error) {
	c, err := u.build(ctx, in, u.resolveSkill)
	if err != nil {
		return capability.Capability{}, false, err
	}
	got, created, err := u.caps.CreateOrGet(ctx, c)
	if err != nil {
		return capability.Capability{}, false, fromRepo(err, ErrSkillNotFound, ErrCapabilityExists)
	}
	return got, created, nil
}

func (u *Capability) BatchCreate(ctx context.Context, in []CreateCapabilityInput) ([]capability.Capability, error) {
	if len(in) == 0 {
		return []capability.Capability{}, nil
	}

	resolve := memoSkills(u.resolveSkill)
	seen := make(map[[2]uuid.UUID]struct{}, len(in))
	items := make([]capability.Capability, 0, len(in))
	for i, it := range in {
		c, err := u.build(ctx, it, resolve)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		key := [2]uuid.UUID{c.PersonID, c.SkillID}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("item %d: %w", i, ErrCapabilityExists)
		}
		seen[key] = struct{}{}
		items = append(items, c)
	}

	created, err := u.caps.BatchCreate(ctx, items)
	if err != nil {
		return nil, fromRepo(err, ErrSkillNotFound, ErrCapabilityExists)
	}
	u.logger.Debug("capabilities batch created", zap.Int("count", len(created)))
	return created, nil
}

func (u *Capability) Update(ctx context.Context, ownerID, id uuid.UUID, ch capability.Changes) (capability.Capability, error) {
	if id == uuid.Nil {
		return capability.Capability{}, ErrInvalidInput
	}
	if ch.Retire && ch.Unretire {
		return capability.Capability{}, ErrInvalidInput
	}
	if ch.SelfIdentifiedLevel != nil && !ch.SelfIdentifiedLevel.Valid() {
		return capability.Capability{}, ErrInvalidLevel
	}

	c, err := u.caps.GetByID(ctx, id)
	if err != nil {
		return capability.Capability{}, fromRepo(err, ErrCapabilityNotFound, nil)
	}
	if ownerID != uuid.Nil && c.PersonID != ownerID {
		return capability.Capability{}, ErrForbidden
	}

	c.Apply(ch, u.now().UTC())
	updated, err := u.caps.Update(ctx, c)
	if err != nil {
		return capability.Capability{}, fromRepo(err, ErrCapabilityNotFound, nil)
	}

	if ch.Retire || ch.Unretire {
		invalidateMatches(ctx, u.cache, u.logger)
	}
	return updated, nil
}

func (u *Capability) GetByID(ctx context.Context, id uuid.UUID) (capability.Capability, error) {
	c, err := u.caps.GetByID(ctx, id)
	if err != nil {
		return capability.Capability{}, fromRepo(err, ErrCapabilityNotFound, nil)
	}
	return c, nil
}

func (u *Capability) ListByPerson(ctx context.Context, personID uuid.UUID) ([]capability.Capability, error) {
	if personID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.caps.ListByPersonID(ctx, personID)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Capability) ListBySkill(ctx context.Context, skillID uuid.UUID, minLevel *proficiency.Level) ([]capability.Capability, error) {
	if skillID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if minLevel != nil && !minLevel.Valid() {
		return nil, ErrInvalidLevel
	}
	out, err := u.caps.ListBySkillID(ctx, skillID, minLevel)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Capability) ListByDomain(ctx context.Context, domain skill.Domain, minLevel *proficiency.Level) ([]capability.Capability, error) {
	d, err := validDomain(domain)
	if err != nil {
		return nil, err
	}
	if minLevel != nil && !minLevel.Valid() {
		return nil, ErrInvalidLevel
	}
	out, err := u.caps.ListByDomain(ctx, d, minLevel)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Capability) SearchByName(ctx context.Context, query string) ([]capability.Capability, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	out, err := u.caps.SearchByName(ctx, query)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Capability) CountLevelsBySkillName(ctx context.Context, name string) ([]capability.LevelCount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	skillID, err := u.skills.FindTopIDByName(ctx, name)
	if err != nil {
		return nil, fromRepo(err, ErrSkillNotFound, nil)
	}
	out, err := u.caps.CountLevelsBySkill(ctx, skillID)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Capability) CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]capability.LevelCount, error) {
	d, err := validDomain(domain)
	if err != nil {
		return nil, err
	}
	out, err := u.caps.CountLevelsByDomain(ctx, d)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Capability) resolveSkill(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	sk, err := u.skills.GetByID(ctx, id)
	if err != nil {
		return skill.Skill{}, fromRepo(err, ErrSkillNotFound, nil)
	}
	return sk, nil
}

func memoSkills(resolve func(context.Context, uuid.UUID) (skill.Skill, error)) func(context.Context, uuid.UUID) (skill.Skill, error) {
	cache := map[uuid.UUID]skill.Skill{}
	return func(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
		if sk, ok := cache[id]; ok {
			return sk, nil
		}
		sk, err := resolve(ctx, id)
		if err != nil {
			return skill.Skill{}, err
		}
		cache[id] = sk
		return sk, nil
	}
}

func validDomain(d skill.Domain) (skill.Domain, error) {
	parsed, err := skill.ParseDomain(string(d))
	if err != nil {
		return "", ErrInvalidDomain
	}
	return parsed, nil
}
