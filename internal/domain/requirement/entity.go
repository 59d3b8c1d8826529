package requirement

import (
	"time"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

type Requirement struct {
	ID      uuid.UUID
	RoleID  uuid.UUID
	SkillID uuid.UUID

	NameEn string
	NameFr string
	Domain skill.Domain

	RequiredLevel proficiency.Level

	CreatedAt time.Time
	UpdatedAt time.Time
	RetiredAt *time.Time
}

func New(roleID uuid.UUID, sk skill.Skill, required proficiency.Level, now time.Time) Requirement {
	return Requirement{
		ID:            uuid.New(),
		RoleID:        roleID,
		SkillID:       sk.ID,
		NameEn:        sk.NameEn,
		NameFr:        sk.NameFr,
		Domain:        sk.Domain,
		RequiredLevel: required,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (r Requirement) Retired() bool {
	return r.RetiredAt != nil
}

// SatisfiedBy reports whether a validated level meets this requirement.
func (r Requirement) SatisfiedBy(level proficiency.Level) bool {
	return level.AtLeast(r.RequiredLevel)
}

type Changes struct {
	RequiredLevel *proficiency.Level
	Retire        bool
	Unretire      bool
}

func (r *Requirement) Apply(ch Changes, now time.Time) {
	if ch.RequiredLevel != nil {
		r.RequiredLevel = *ch.RequiredLevel
	}
	switch {
	case ch.Retire && r.RetiredAt == nil:
		t := now
		r.RetiredAt = &t
	case ch.Unretire:
		r.RetiredAt = nil
	}
	r.UpdatedAt = now
}

type LevelCount struct {
	Name   string
	Domain skill.Domain
	Level  proficiency.Level
	Count  int64
}
