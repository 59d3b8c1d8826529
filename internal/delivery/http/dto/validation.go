package dto

import (
	"time"

	"capability-sync/internal/domain/proficiency"
	"capability-sync/internal/domain/validation"

	"github.com/google/uuid"
)

type CreateValidationRequest struct {
	CapabilityID   uuid.UUID         `json:"capability_id"`
	ValidatedLevel proficiency.Level `json:"validated_level"`
}

type BatchCreateValidationsRequest struct {
	Items []CreateValidationRequest `json:"items"`
}

type UpdateValidationRequest struct {
	ValidatedLevel proficiency.Level `json:"validated_level"`
}

type ValidationResponse struct {
	ID             uuid.UUID         `json:"id"`
	ValidatorID    uuid.UUID         `json:"validator_id"`
	CapabilityID   uuid.UUID         `json:"capability_id"`
	ValidatedLevel proficiency.Level `json:"validated_level"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewValidationResponse(v validation.Validation) ValidationResponse {
	return ValidationResponse{
		ID:             v.ID,
		ValidatorID:    v.ValidatorID,
		CapabilityID:   v.CapabilityID,
		ValidatedLevel: v.ValidatedLevel,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func NewValidationResponses(vs []validation.Validation) []ValidationResponse {
	out := make([]ValidationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, NewValidationResponse(v))
	}
	return out
}

// ValidationResultResponse carries the stored validation with the consensus
// it produced.
type ValidationResultResponse struct {
	Validation ValidationResponse `json:"validation"`
	Capability CapabilityResponse `json:"capability"`
}

type BatchValidationResponse struct {
	Validations  []ValidationResponse `json:"validations"`
	Capabilities []CapabilityResponse `json:"capabilities"`
}
