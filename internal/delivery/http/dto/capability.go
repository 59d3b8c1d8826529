package dto

import (
	"time"

	"capability-sync/internal/domain/capability"
	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

type CreateCapabilityRequest struct {
	SkillID             uuid.UUID         `json:"skill_id"`
	OrganizationID      uuid.UUID         `json:"organization_id"`
	SelfIdentifiedLevel proficiency.Level `json:"self_identified_level"`
}

type BatchCreateCapabilitiesRequest struct {
	Items []CreateCapabilityRequest `json:"items"`
}

type UpdateCapabilityRequest struct {
	SelfIdentifiedLevel *proficiency.Level `json:"self_identified_level"`
	Retire              bool               `json:"retire"`
	Unretire            bool               `json:"unretire"`
}

func (r UpdateCapabilityRequest) Changes() capability.Changes {
	return capability.Changes{SelfIdentifiedLevel: r.SelfIdentifiedLevel, Retire: r.Retire, Unretire: r.Unretire}
}

type CapabilityResponse struct {
	ID                  uuid.UUID          `json:"id"`
	PersonID            uuid.UUID          `json:"person_id"`
	SkillID             uuid.UUID          `json:"skill_id"`
	OrganizationID      uuid.UUID          `json:"organization_id"`
	NameEn              string             `json:"name_en"`
	NameFr              string             `json:"name_fr"`
	Domain              skill.Domain       `json:"domain"`
	SelfIdentifiedLevel proficiency.Level  `json:"self_identified_level"`
	ValidatedLevel      *proficiency.Level `json:"validated_level"`
	ValidationValues    []int64            `json:"validation_values"`
	ConsensusAverage    float64            `json:"consensus_average"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	RetiredAt           *time.Time         `json:"retired_at"`
}

func NewCapabilityResponse(c capability.Capability) CapabilityResponse {
	values := c.ValidationValues
	if values == nil {
		values = []int64{}
	}
	return CapabilityResponse{
		ID:                  c.ID,
		PersonID:            c.PersonID,
		SkillID:             c.SkillID,
		OrganizationID:      c.OrganizationID,
		NameEn:              c.NameEn,
		NameFr:              c.NameFr,
		Domain:              c.Domain,
		SelfIdentifiedLevel: c.SelfIdentifiedLevel,
		ValidatedLevel:      c.ValidatedLevel,
		ValidationValues:    values,
		ConsensusAverage:    c.ConsensusAverage(),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		RetiredAt:           c.RetiredAt,
	}
}

func NewCapabilityResponses(cs []capability.Capability) []CapabilityResponse {
	out := make([]CapabilityResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCapabilityResponse(c))
	}
	return out
}

type CapabilityLevelCountResponse struct {
	Name   string             `json:"name"`
	Domain skill.Domain       `json:"domain"`
	Level  *proficiency.Level `json:"level"`
	Count  int64              `json:"count"`
}

func NewCapabilityLevelCounts(in []capability.LevelCount) []CapabilityLevelCountResponse {
	out := make([]CapabilityLevelCountResponse, 0, len(in))
	for _, c := range in {
		out = append(out, CapabilityLevelCountResponse{Name: c.Name, Domain: c.Domain, Level: c.Level, Count: c.Count})
	}
	return out
}
