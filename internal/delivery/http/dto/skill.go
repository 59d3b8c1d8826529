package dto

import (
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID            uuid.UUID    `json:"id"`
	NameEn        string       `json:"name_en"`
	NameFr        string       `json:"name_fr"`
	DescriptionEn string       `json:"description_en"`
	DescriptionFr string       `json:"description_fr"`
	Domain        skill.Domain `json:"domain"`
	Retired       bool         `json:"retired"`
}

func NewSkillResponse(sk skill.Skill) SkillResponse {
	return SkillResponse{
		ID:            sk.ID,
		NameEn:        sk.NameEn,
		NameFr:        sk.NameFr,
		DescriptionEn: sk.DescriptionEn,
		DescriptionFr: sk.DescriptionFr,
		Domain:        sk.Domain,
		Retired:       sk.RetiredAt != nil,
	}
}

func NewSkillResponses(in []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(in))
	for _, sk := range in {
		out = append(out, NewSkillResponse(sk))
	}
	return out
}
