package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/skill"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateRequirementInput struct {
	RoleID        uuid.UUID
	SkillID       uuid.UUID
	RequiredLevel proficiency.Level
}

type RequirementUsecase interface {
	Create(ctx context.Context, in CreateRequirementInput) (requirement.Requirement, error)
	CreateOrGet(ctx context.Context, in CreateRequirementInput) (requirement.Requirement, bool, error)
	BatchCreate(ctx context.Context, in []CreateRequirementInput) ([]requirement.Requirement, error)
	Update(ctx context.Context, id uuid.UUID, ch requirement.Changes) (requirement.Requirement, error)
	GetByID(ctx context.Context, id uuid.UUID) (requirement.Requirement, error)
	ListByRole(ctx context.Context, roleID uuid.UUID) ([]requirement.Requirement, error)
	ListBySkillAndMaxLevel(ctx context.Context, skillID uuid.UUID, maxLevel proficiency.Level) ([]requirement.Requirement, error)
	ListByDomain(ctx context.Context, domain skill.Domain, maxLevel *proficiency.Level) ([]requirement.Requirement, error)
	SearchByName(ctx context.Context, query string) ([]requirement.Requirement, error)
	CountLevelsBySkillName(ctx context.Context, name string) ([]requirement.LevelCount, error)
	CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]requirement.LevelCount, error)
}

type Requirement struct {
	reqs   repository.RequirementRepository
	skills repository.SkillRepository
	roles  repository.RoleRepository
	cache  MatchCache
	logger *zap.Logger
	now    func() time.Time
}

func NewRequirementUsecase(reqs repository.RequirementRepository, skills repository.SkillRepository, roles repository.RoleRepository, cache MatchCache, logger *zap.Logger) *Requirement {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Requirement{reqs: reqs, skills: skills, roles: roles, cache: cache, logger: logger, now: time.Now}
}

type resolver[T any] func(context.Context, uuid.UUID) (T, error)

func (u *Requirement) build(ctx context.Context, in CreateRequirementInput, resolveRole resolver[struct{}], resolveSkill resolver[skill.Skill]) (requirement.Requirement, error) {
	if in.RoleID == uuid.Nil || in.SkillID == uuid.Nil {
		return requirement.Requirement{}, ErrInvalidInput
	}
	if !in.RequiredLevel.Valid() {
		return requirement.Requirement{}, ErrInvalidLevel
	}
	if _, err := resolveRole(ctx, in.RoleID); err != nil {
		return requirement.Requirement{}, err
	}
	sk, err := resolveSkill(ctx, in.SkillID)
	if err != nil {
		return requirement.Requirement{}, err
	}
	return requirement.New(in.RoleID, sk, in.RequiredLevel, u.now().UTC()), nil
}

func (u *Requirement) Create(ctx context.Context, in CreateRequirementInput) (requirement.Requirement, error) {
	r, err := u.build(ctx, in, u.resolveRole, u.resolveSkill)
	if err != nil {
		return requirement.Requirement{}, err
	}
	created, err := u.reqs.Create(ctx, r)
	if err != nil {
		return requirement.Requirement{}, fromRepo(err, ErrSkillNotFound, ErrRequirementExists)
	}
	invalidateMatches(ctx, u.cache, u.logger)
	return created, nil
}

func (u *Requirement) CreateOrGet(ctx context.Context, in CreateRequirementInput) (requirement.Requirement, bool, error) {
	r, err := u.build(ctx, in, u.resolveRole, u.resolveSkill)
	if err != nil {
		return requirement.Requirement{}, false, err
	}
	got, created, err := u.reqs.CreateOrGet(ctx, r)
	if err != nil {
		return requirement.Requirement{}, false, fromRepo(err, ErrSkillNotFound, ErrRequirementExists)
	}
	if created {
		invalidateMatches(ctx, u.cache, u.logger)
	}
	return got, created, nil
}

func (u *Requirement) BatchCreate(ctx context.Context, in []CreateRequirementInput) ([]requirement.Requirement, error) {
	if len(in) == 0 {
		return []requirement.Requirement{}, nil
	}

	roles := map[uuid.UUID]struct{}{}
	resolveRole := func(ctx context.Context, id uuid.UUID) (struct{}, error) {
		if _, ok := roles[id]; ok {
			return struct{}{}, nil
		}
		if _, err := u.resolveRole(ctx, id); err != nil {
			return struct{}{}, err
		}
		roles[id] = struct{}{}
		return struct{}{}, nil
	}
	resolveSkill := memoSkills(u.resolveSkill)

	seen := make(map[[2]uuid.UUID]struct{}, len(in))
	items := make([]requirement.Requirement, 0, len(in))
	for i, it := range in {
		r, err := u.build(ctx, it, resolveRole, resolveSkill)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		key := [2]uuid.UUID{r.RoleID, r.SkillID}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("item %d: %w", i, ErrRequirementExists)
		}
		seen[key] = struct{}{}
		items = append(items, r)
	}

	created, err := u.reqs.BatchCreate(ctx, items)
	if err != nil {
		return nil, fromRepo(err, ErrSkillNotFound, ErrRequirementExists)
	}
	invalidateMatches(ctx, u.cache, u.logger)
	u.logger.Debug("requirements batch created", zap.Int("count", len(created)))
	return created, nil
}

func (u *Requirement) Update(ctx context.Context, id uuid.UUID, ch requirement.Changes) (requirement.Requirement, error) {
	if id == uuid.Nil || (ch.Retire && ch.Unretire) {
		return requirement.Requirement{}, ErrInvalidInput
	}
	if ch.RequiredLevel != nil && !ch.RequiredLevel.Valid() {
		return requirement.Requirement{}, ErrInvalidLevel
	}

	r, err := u.reqs.GetByID(ctx, id)
	if err != nil {
		return requirement.Requirement{}, fromRepo(err, ErrRequirementNotFound, nil)
	}
	r.Apply(ch, u.now().UTC())

	updated, err := u.reqs.Update(ctx, r)
	if err != nil {
		return requirement.Requirement{}, fromRepo(err, ErrRequirementNotFound, nil)
	}
	invalidateMatches(ctx, u.cache, u.logger)
	return updated, nil
}

func (u *Requirement) GetByID(ctx context.Context, id uuid.UUID) (requirement.Requirement, error) {
	r, err := u.reqs.GetByID(ctx, id)
	if err != nil {
		return requirement.Requirement{}, fromRepo(err, ErrRequirementNotFound, nil)
	}
	return r, nil
}

func (u *Requirement) ListByRole(ctx context.Context, roleID uuid.UUID) ([]requirement.Requirement, error) {
	if roleID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.reqs.ListByRoleID(ctx, roleID)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Requirement) ListBySkillAndMaxLevel(ctx context.Context, skillID uuid.UUID, maxLevel proficiency.Level) ([]requirement.Requirement, error) {
	if skillID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if !maxLevel.Valid() {
		return nil, ErrInvalidLevel
	}
	out, err := u.reqs.ListBySkillAndMaxLevel(ctx, skillID, maxLevel)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Requirement) ListByDomain(ctx context.Context, domain skill.Domain, maxLevel *proficiency.Level) ([]requirement.Requirement, error) {
	d, err := validDomain(domain)
	if err != nil {
		return nil, err
	}
	if maxLevel != nil && !maxLevel.Valid() {
		return nil, ErrInvalidLevel
	}
	out, err := u.reqs.ListByDomain(ctx, d, maxLevel)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Requirement) SearchByName(ctx context.Context, query string) ([]requirement.Requirement, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	out, err := u.reqs.SearchByName(ctx, query)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Requirement) CountLevelsBySkillName(ctx context.Context, name string) ([]requirement.LevelCount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	skillID, err := u.skills.FindTopIDByName(ctx, name)
	if err != nil {
		return nil, fromRepo(err, ErrSkillNotFound, nil)
	}
	out, err := u.reqs.CountLevelsBySkill(ctx, skillID)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Requirement) CountLevelsByDomain(ctx context.Context, domain skill.Domain) ([]requirement.LevelCount, error) {
	d, err := validDomain(domain)
	if err != nil {
		return nil, err
	}
	out, err := u.reqs.CountLevelsByDomain(ctx, d)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (u *Requirement) resolveRole(ctx context.Context, id uuid.UUID) (struct{}, error) {
	if _, err := u.roles.GetByID(ctx, id); err != nil {
		return struct{}{}, fromRepo(err, ErrRoleNotFound, nil)
	}
	return struct{}{}, nil
}

func (u *Requirement) resolveSkill(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	sk, err := u.skills.GetByID(ctx, id)
	if err != nil {
		return skill.Skill{}, fromRepo(err, ErrSkillNotFound, nil)
	}
	return sk, nil
}
