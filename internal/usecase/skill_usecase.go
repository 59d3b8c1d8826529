package usecase

import (
	"context"

	"capability-sync/internal/domain/skill"
	"capability-sync/internal/repository"

	"github.com/google/uuid"
)

type SkillUsecase interface {
	GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	List(ctx context.Context) ([]skill.Skill, error)
	ListByDomain(ctx context.Context, domain skill.Domain) ([]skill.Skill, error)
}

type Skill struct {
	repo repository.SkillRepository
}

func NewSkillUsecase(repo repository.SkillRepository) *Skill {
	return &Skill{repo: repo}
}

func (u *Skill) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	if id == uuid.Nil {
		return skill.Skill{}, ErrInvalidInput
	}
	sk, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return skill.Skill{}, fromRepo(err, ErrSkillNotFound, nil)
	}
	return sk, nil
}

func (u *Skill) List(ctx context.Context) ([]skill.Skill, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return items, nil
}

func (u *Skill) ListByDomain(ctx context.Context, domain skill.Domain) ([]skill.Skill, error) {
	d, err := validDomain(domain)
	if err != nil {
		return nil, err
	}
	items, err := u.repo.ListByDomain(ctx, d)
	if err != nil {
		return nil, unavailable(err)
	}
	return items, nil
}
