package ws

import (
	"encoding/json"
	"time"

	"capability-sync/internal/domain/capability"

	"github.com/google/uuid"
)

const EventCapabilityValidated = "capability_validated"

type CapabilityValidatedEvent struct {
	Type             string    `json:"type"`
	CapabilityID     uuid.UUID `json:"capability_id"`
	PersonID         uuid.UUID `json:"person_id"`
	SkillID          uuid.UUID `json:"skill_id"`
	ValidatedLevel   *string   `json:"validated_level"`
	ConsensusAverage float64   `json:"consensus_average"`
	ValidationCount  int       `json:"validation_count"`
	Timestamp        string    `json:"timestamp"`
}

// Notifier publishes consensus changes to every connected client.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) CapabilityValidated(c capability.Capability) {
	if n == nil || n.hub == nil {
		return
	}

	evt := CapabilityValidatedEvent{
		Type:             EventCapabilityValidated,
		CapabilityID:     c.ID,
		PersonID:         c.PersonID,
		SkillID:          c.SkillID,
		ConsensusAverage: c.ConsensusAverage(),
		ValidationCount:  len(c.ValidationValues) - 1,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
	if c.ValidatedLevel != nil {
		s := c.ValidatedLevel.String()
		evt.ValidatedLevel = &s
	}

	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
