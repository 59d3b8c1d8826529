package dto

import (
	"capability-sync/internal/usecase"

	"github.com/google/uuid"
)

type RoleMatchResponse struct {
	RoleID    uuid.UUID  `json:"role_id"`
	TeamID    uuid.UUID  `json:"team_id"`
	TitleEn   string     `json:"title_en"`
	TitleFr   string     `json:"title_fr"`
	PersonID  *uuid.UUID `json:"person_id"`
	Satisfied int        `json:"satisfied_requirements"`
}

type PersonMatchResponse struct {
	PersonID       uuid.UUID `json:"person_id"`
	GivenName      string    `json:"given_name"`
	FamilyName     string    `json:"family_name"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Satisfied      int       `json:"satisfied_requirements"`
	Required       int       `json:"required_requirements"`
}

func NewRoleMatchResponses(in []usecase.RoleMatch) []RoleMatchResponse {
	out := make([]RoleMatchResponse, 0, len(in))
	for _, m := range in {
		out = append(out, RoleMatchResponse{
			RoleID:    m.Role.ID,
			TeamID:    m.Role.TeamID,
			TitleEn:   m.Role.TitleEn,
			TitleFr:   m.Role.TitleFr,
			PersonID:  m.Role.PersonID,
			Satisfied: m.Satisfied,
		})
	}
	return out
}

func NewPersonMatchResponses(in []usecase.PersonMatch) []PersonMatchResponse {
	out := make([]PersonMatchResponse, 0, len(in))
	for _, m := range in {
		out = append(out, PersonMatchResponse{
			PersonID:       m.Person.ID,
			GivenName:      m.Person.GivenName,
			FamilyName:     m.Person.FamilyName,
			OrganizationID: m.Person.OrganizationID,
			Satisfied:      m.Satisfied,
			Required:       m.Required,
		})
	}
	return out
}
