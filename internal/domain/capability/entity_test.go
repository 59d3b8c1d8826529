package capability

import (
	"testing"
	"time"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSkill() skill.Skill {
	return skill.Skill{ID: uuid.New(), NameEn: "Welding", NameFr: "Soudage", Domain: skill.DomainEngineering}
}

func TestNew_SeedsSelfScoreWithoutValidatedLevel(t *testing.T) {
	sk := testSkill()
	now := time.Now().UTC()

	c := New(uuid.New(), uuid.New(), sk, proficiency.Experienced, now)

	assert.Equal(t, []int64{200}, c.ValidationValues)
	assert.Nil(t, c.ValidatedLevel)
	assert.Equal(t, "Welding", c.NameEn)
	assert.Equal(t, "Soudage", c.NameFr)
	assert.Equal(t, skill.DomainEngineering, c.Domain)
	assert.Equal(t, sk.ID, c.SkillID)
	assert.NotEqual(t, uuid.Nil, c.ID)
}

func TestApplyValidations_SingleExpertOnExperienced(t *testing.T) {
	c := New(uuid.New(), uuid.New(), testSkill(), proficiency.Experienced, time.Now())

	c.ApplyValidations(time.Now(), proficiency.Expert)

	require.NotNil(t, c.ValidatedLevel)
	assert.Equal(t, []int64{200, 300}, c.ValidationValues)
	assert.Equal(t, proficiency.Experienced, *c.ValidatedLevel)
	assert.InDelta(t, 2.5, c.ConsensusAverage(), 0.0001)
}

func TestApplyValidations_BatchEqualsSequential(t *testing.T) {
	levels := []proficiency.Level{proficiency.Specialist, proficiency.Novice, proficiency.Expert, proficiency.Expert}

	seq := New(uuid.New(), uuid.New(), testSkill(), proficiency.Novice, time.Now())
	for _, l := range levels {
		seq.ApplyValidations(time.Now(), l)
	}

	batch := New(uuid.New(), uuid.New(), testSkill(), proficiency.Novice, time.Now())
	batch.ApplyValidations(time.Now(), levels...)

	reversed := New(uuid.New(), uuid.New(), testSkill(), proficiency.Novice, time.Now())
	for i := len(levels) - 1; i >= 0; i-- {
		reversed.ApplyValidations(time.Now(), levels[i])
	}

	require.NotNil(t, seq.ValidatedLevel)
	assert.Equal(t, *seq.ValidatedLevel, *batch.ValidatedLevel)
	assert.Equal(t, *seq.ValidatedLevel, *reversed.ValidatedLevel)
	assert.ElementsMatch(t, seq.ValidationValues, batch.ValidationValues)
}

func TestApplyValidations_EmptyIsNoop(t *testing.T) {
	c := New(uuid.New(), uuid.New(), testSkill(), proficiency.Expert, time.Now())
	c.ApplyValidations(time.Now())
	assert.Nil(t, c.ValidatedLevel)
	assert.Len(t, c.ValidationValues, 1)
}

func TestSatisfiesAt(t *testing.T) {
	c := New(uuid.New(), uuid.New(), testSkill(), proficiency.Specialist, time.Now())
	assert.False(t, c.SatisfiesAt(proficiency.Desired), "unvalidated capability never satisfies")

	c.ApplyValidations(time.Now(), proficiency.Specialist)
	assert.True(t, c.SatisfiesAt(proficiency.Specialist))
	assert.True(t, c.SatisfiesAt(proficiency.Novice))
}

func TestApply_ChangesNeverTouchConsensus(t *testing.T) {
	c := New(uuid.New(), uuid.New(), testSkill(), proficiency.Novice, time.Now())
	c.ApplyValidations(time.Now(), proficiency.Expert)
	before := *c.ValidatedLevel

	lvl := proficiency.Specialist
	later := time.Now().Add(time.Hour)
	c.Apply(Changes{SelfIdentifiedLevel: &lvl, Retire: true}, later)

	assert.Equal(t, proficiency.Specialist, c.SelfIdentifiedLevel)
	assert.Equal(t, before, *c.ValidatedLevel)
	assert.Equal(t, []int64{100, 300}, c.ValidationValues)
	require.NotNil(t, c.RetiredAt)
	assert.True(t, c.Retired())
	assert.Equal(t, later, c.UpdatedAt)

	c.Apply(Changes{Unretire: true}, later)
	assert.False(t, c.Retired())
}
