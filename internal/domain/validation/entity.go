package validation

import (
	"time"

	"capability-sync/internal/domain/proficiency"

	"github.com/google/uuid"
)

type Validation struct {
	ID             uuid.UUID
	ValidatorID    uuid.UUID
	CapabilityID   uuid.UUID
	ValidatedLevel proficiency.Level
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func New(validatorID, capabilityID uuid.UUID, level proficiency.Level, now time.Time) Validation {
	return Validation{
		ID:             uuid.New(),
		ValidatorID:    validatorID,
		CapabilityID:   capabilityID,
		ValidatedLevel: level,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// GroupByCapability returns the levels per capability and the capability ids
// in first-seen order.
func GroupByCapability(vs []Validation) (map[uuid.UUID][]proficiency.Level, []uuid.UUID) {
	levels := make(map[uuid.UUID][]proficiency.Level, len(vs))
	order := make([]uuid.UUID, 0, len(vs))
	for _, v := range vs {
		if _, ok := levels[v.CapabilityID]; !ok {
			order = append(order, v.CapabilityID)
		}
		levels[v.CapabilityID] = append(levels[v.CapabilityID], v.ValidatedLevel)
	}
	return levels, order
}
