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

func TestRequirements_CreateEnsureAndList(t *testing.T) {
	s := newTestServer(t)
	caller := devPerson(t, 0)
	roleID := vacantRole(t)
	body := map[string]any{"role_id": roleID, "skill_id": devSkill(t, "Networking"), "required_level": "Experienced"}

	var created dto.RequirementResponse
	require.Equal(t, http.StatusCreated, s.do(t, caller, http.MethodPost, "/api/v1/requirements", body, &created))
	assert.Equal(t, proficiency.Experienced, created.RequiredLevel)

	var ensured dto.RequirementResponse
	require.Equal(t, http.StatusOK, s.do(t, caller, http.MethodPut, "/api/v1/requirements", body, &ensured))
	assert.Equal(t, created.ID, ensured.ID)

	var byRole []dto.RequirementResponse
	require.Equal(t, http.StatusOK, s.do(t, caller, http.MethodGet, "/api/v1/roles/"+roleID.String()+"/requirements", nil, &byRole))
	assert.Len(t, byRole, 1)

	skillPath := "/api/v1/skills/" + devSkill(t, "Networking").String() + "/requirements"
	var bySkill []dto.RequirementResponse
	require.Equal(t, http.StatusOK, s.do(t, caller, http.MethodGet, skillPath+"?max_level=Expert", nil, &bySkill))
	assert.Len(t, bySkill, 1)
	require.Equal(t, http.StatusOK, s.do(t, caller, http.MethodGet, skillPath+"?max_level=Novice", nil, &bySkill))
	assert.Empty(t, bySkill)
	assert.Equal(t, http.StatusBadRequest, s.do(t, caller, http.MethodGet, skillPath, nil, nil))
}

func TestRequirements_UnknownRole(t *testing.T) {
	s := newTestServer(t)
	status := s.do(t, devPerson(t, 0), http.MethodPost, "/api/v1/requirements",
		map[string]any{"role_id": uuid.New(), "skill_id": devSkill(t, "Networking"), "required_level": "Novice"}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRequirements_Retire(t *testing.T) {
	s := newTestServer(t)
	caller := devPerson(t, 0)

	var created dto.RequirementResponse
	require.Equal(t, http.StatusCreated, s.do(t, caller, http.MethodPost, "/api/v1/requirements",
		map[string]any{"role_id": vacantRole(t), "skill_id": devSkill(t, "Triage"), "required_level": "Novice"}, &created))

	var updated dto.RequirementResponse
	require.Equal(t, http.StatusOK, s.do(t, caller, http.MethodPatch, "/api/v1/requirements/"+created.ID.String(),
		map[string]any{"retire": true}, &updated))
	assert.NotNil(t, updated.RetiredAt)
}
