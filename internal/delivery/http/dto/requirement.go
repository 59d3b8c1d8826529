package dto

import (
	"time"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/requirement"
	"capability-sync/internal/domain/skill"

	"github.com/google/uuid"
)

type CreateRequirementRequest struct {
	RoleID        uuid.UUID         `json:"role_id"`
	SkillID       uuid.UUID         `json:"skill_id"`
	RequiredLevel proficiency.Level `json:"required_level"`
}

type BatchCreateRequirementsRequest struct {
	Items []CreateRequirementRequest `json:"items"`
}

type UpdateRequirementRequest struct {
	RequiredLevel *proficiency.Level `json:"required_level"`
	Retire        bool               `json:"retire"`
	Unretire      bool               `json:"unretire"`
}

func (r UpdateRequirementRequest) Changes() requirement.Changes {
	return requirement.Changes{RequiredLevel: r.RequiredLevel, Retire: r.Retire, Unretire: r.Unretire}
}

type RequirementResponse struct {
	ID            uuid.UUID         `json:"id"`
	RoleID        uuid.UUID         `json:"role_id"`
	SkillID       uuid.UUID         `json:"skill_id"`
	NameEn        string            `json:"name_en"`
	NameFr        string            `json:"name_fr"`
	Domain        skill.Domain      `json:"domain"`
	RequiredLevel proficiency.Level `json:"required_level"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	RetiredAt     *time.Time        `json:"retired_at"`
}

func NewRequirementResponse(r requirement.Requirement) RequirementResponse {
	return RequirementResponse{
		ID:            r.ID,
		RoleID:        r.RoleID,
		SkillID:       r.SkillID,
		NameEn:        r.NameEn,
		NameFr:        r.NameFr,
		Domain:        r.Domain,
		RequiredLevel: r.RequiredLevel,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		RetiredAt:     r.RetiredAt,
	}
}

func NewRequirementResponses(rs []requirement.Requirement) []RequirementResponse {
	out := make([]RequirementResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewRequirementResponse(r))
	}
	return out
}

type RequirementLevelCountResponse struct {
	Name   string            `json:"name"`
	Domain skill.Domain      `json:"domain"`
	Level  proficiency.Level `json:"level"`
	Count  int64             `json:"count"`
}

func NewRequirementLevelCounts(in []requirement.LevelCount) []RequirementLevelCountResponse {
	out := make([]RequirementLevelCountResponse, 0, len(in))
	for _, c := range in {
		out = append(out, RequirementLevelCountResponse{Name: c.Name, Domain: c.Domain, Level: c.Level, Count: c.Count})
	}
	return out
}
