package handler_test

import (
	"net/http"
	"testing"

	"capability-sync/internal/delivery/http/dto"
	"capability-sync/internal/domain/proficiency"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCapability(t *testing.T, s *testServer, owner uuid.UUID, skillName, level string) dto.CapabilityResponse {
	t.Helper()
	var created dto.CapabilityResponse
	require.Equal(t, http.StatusCreated, s.do(t, owner, http.MethodPost, "/api/v1/capabilities",
		map[string]any{"skill_id": devSkill(t, skillName), "self_identified_level": level}, &created))
	return created
}

func TestValidations_CreateRecomputesConsensus(t *testing.T) {
	s := newTestServer(t)
	owner, peer := devPerson(t, 0), devPerson(t, 1)
	c := createCapability(t, s, owner, "Networking", "Expert")

	var res dto.ValidationResultResponse
	require.Equal(t, http.StatusCreated, s.do(t, peer, http.MethodPost, "/api/v1/validations",
		map[string]any{"capability_id": c.ID, "validated_level": "Specialist"}, &res))

	assert.Equal(t, peer, res.Validation.ValidatorID)
	assert.Equal(t, []int64{300, 400}, res.Capability.ValidationValues)
	require.NotNil(t, res.Capability.ValidatedLevel)
	assert.Equal(t, proficiency.Expert, *res.Capability.ValidatedLevel)

	var listed []dto.ValidationResponse
	require.Equal(t, http.StatusOK, s.do(t, peer, http.MethodGet, "/api/v1/capabilities/"+c.ID.String()+"/validations", nil, &listed))
	assert.Len(t, listed, 1)

	require.Equal(t, http.StatusOK, s.do(t, peer, http.MethodGet, "/api/v1/people/"+peer.String()+"/validations", nil, &listed))
	assert.Len(t, listed, 1)
}

func TestValidations_Rejections(t *testing.T) {
	s := newTestServer(t)
	owner, peer := devPerson(t, 0), devPerson(t, 1)
	c := createCapability(t, s, owner, "Networking", "Novice")

	assert.Equal(t, http.StatusBadRequest, s.do(t, owner, http.MethodPost, "/api/v1/validations",
		map[string]any{"capability_id": c.ID, "validated_level": "Expert"}, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, peer, http.MethodPost, "/api/v1/validations",
		map[string]any{"capability_id": uuid.New(), "validated_level": "Expert"}, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, uuid.Nil, http.MethodPost, "/api/v1/validations",
		map[string]any{"capability_id": c.ID, "validated_level": "Expert"}, nil))
}

func TestValidations_UpdateAuthorOnly(t *testing.T) {
	s := newTestServer(t)
	owner, peer, stranger := devPerson(t, 0), devPerson(t, 1), devPerson(t, 2)
	c := createCapability(t, s, owner, "Networking", "Novice")

	var res dto.ValidationResultResponse
	require.Equal(t, http.StatusCreated, s.do(t, peer, http.MethodPost, "/api/v1/validations",
		map[string]any{"capability_id": c.ID, "validated_level": "Novice"}, &res))

	path := "/api/v1/validations/" + res.Validation.ID.String()
	patch := map[string]any{"validated_level": "Specialist"}
	assert.Equal(t, http.StatusForbidden, s.do(t, stranger, http.MethodPatch, path, patch, nil))

	var updated dto.ValidationResultResponse
	require.Equal(t, http.StatusOK, s.do(t, peer, http.MethodPatch, path, patch, &updated))
	assert.Equal(t, proficiency.Specialist, updated.Validation.ValidatedLevel)
	assert.Equal(t, []int64{100, 100, 400}, updated.Capability.ValidationValues)
	require.NotNil(t, updated.Capability.ValidatedLevel)
	assert.Equal(t, proficiency.Experienced, *updated.Capability.ValidatedLevel)
}

func TestValidations_BatchIsAllOrNothing(t *testing.T) {
	s := newTestServer(t)
	owner, peer := devPerson(t, 0), devPerson(t, 1)
	a := createCapability(t, s, owner, "Networking", "Novice")
	b := createCapability(t, s, owner, "Triage", "Novice")

	status := s.do(t, peer, http.MethodPost, "/api/v1/validations/batch", map[string]any{"items": []map[string]any{
		{"capability_id": a.ID, "validated_level": "Expert"},
		{"capability_id": uuid.New(), "validated_level": "Expert"},
	}}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var got dto.CapabilityResponse
	require.Equal(t, http.StatusOK, s.do(t, peer, http.MethodGet, "/api/v1/capabilities/"+a.ID.String(), nil, &got))
	assert.Equal(t, []int64{100}, got.ValidationValues)

	var batch dto.BatchValidationResponse
	require.Equal(t, http.StatusCreated, s.do(t, peer, http.MethodPost, "/api/v1/validations/batch", map[string]any{"items": []map[string]any{
		{"capability_id": a.ID, "validated_level": "Expert"},
		{"capability_id": b.ID, "validated_level": "Specialist"},
	}}, &batch))
	assert.Len(t, batch.Validations, 2)
	assert.Len(t, batch.Capabilities, 2)
}
