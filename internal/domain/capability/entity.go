package capability

import (
	"time"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

type Capability struct {
	ID             uuid.UUID
	PersonID       uuid.UUID
	SkillID        uuid.UUID
	OrganizationID uuid.UUID

	NameEn string
	NameFr string
	Domain skill.Domain

	SelfIdentifiedLevel proficiency.Level
	ValidatedLevel      *proficiency.Level
	ValidationValues    []int64

	CreatedAt time.Time
	UpdatedAt time.Time
	RetiredAt *time.Time
}

// New builds an unsaved Capability with its consensus seeded by the
// self-assessment. ValidatedLevel stays nil until a peer validation lands.
func New(personID, orgID uuid.UUID, sk skill.Skill, self proficiency.Level, now time.Time) Capability {
	return Capability{
		ID:                  uuid.New(),
		PersonID:            personID,
		SkillID:             sk.ID,
		OrganizationID:      orgID,
		NameEn:              sk.NameEn,
		NameFr:              sk.NameFr,
		Domain:              sk.Domain,
		SelfIdentifiedLevel: self,
		ValidationValues:    []int64{proficiency.ScoreOf(self)},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ApplyValidations appends one score per level and recomputes the validated
// level once. Applying the same levels in any grouping or order yields the
// same result.
func (c *Capability) ApplyValidations(now time.Time, levels ...proficiency.Level) {
	if len(levels) == 0 {
		return
	}
	c.ValidationValues = append(c.ValidationValues, proficiency.Scores(levels)...)
	c.recompute()
	c.UpdatedAt = now
}

func (c *Capability) recompute() {
	lvl, _, ok := proficiency.Consensus(c.ValidationValues)
	if !ok {
		c.ValidatedLevel = nil
		return
	}
	c.ValidatedLevel = &lvl
}

// ConsensusAverage is the current mean on the 0..4 scale.
func (c Capability) ConsensusAverage() float64 {
	mean, ok := proficiency.Mean(c.ValidationValues)
	if !ok {
		return 0
	}
	return proficiency.Average(mean)
}

func (c Capability) Retired() bool {
	return c.RetiredAt != nil
}

// SatisfiesAt reports whether the peer-validated level meets required.
func (c Capability) SatisfiesAt(required proficiency.Level) bool {
	if c.ValidatedLevel == nil {
		return false
	}
	return c.ValidatedLevel.AtLeast(required)
}

// Changes are the owner-editable fields. ValidatedLevel is deliberately absent.
type Changes struct {
	SelfIdentifiedLevel *proficiency.Level
	Retire              bool
	Unretire            bool
}

func (c *Capability) Apply(ch Changes, now time.Time) {
	if ch.SelfIdentifiedLevel != nil {
		c.SelfIdentifiedLevel = *ch.SelfIdentifiedLevel
	}
	switch {
	case ch.Retire && c.RetiredAt == nil:
		t := now
		c.RetiredAt = &t
	case ch.Unretire:
		c.RetiredAt = nil
	}
	c.UpdatedAt = now
}

type LevelCount struct {
	Name   string
	Domain skill.Domain
	Level  *proficiency.Level
	Count  int64
}
