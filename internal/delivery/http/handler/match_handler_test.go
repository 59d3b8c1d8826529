package handler_test

import (
	"net/http"
	"testing"

	"capability-sync/internal/delivery/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_PeopleForRoleAfterValidation(t *testing.T) {
	s := newTestServer(t)
	owner, peer := devPerson(t, 0), devPerson(t, 1)
	roleID := vacantRole(t)

	require.Equal(t, http.StatusCreated, s.do(t, peer, http.MethodPost, "/api/v1/requirements",
		map[string]any{"role_id": roleID, "skill_id": devSkill(t, "Networking"), "required_level": "Experienced"}, nil))

	c := createCapability(t, s, owner, "Networking", "Expert")
	path := "/api/v1/roles/" + roleID.String() + "/matching-people"

	var people []dto.PersonMatchResponse
	require.Equal(t, http.StatusOK, s.do(t, peer, http.MethodGet, path, nil, &people))
	assert.Empty(t, people)

	require.Equal(t, http.StatusCreated, s.do(t, peer, http.MethodPost, "/api/v1/validations",
		map[string]any{"capability_id": c.ID, "validated_level": "Expert"}, nil))

	require.Equal(t, http.StatusOK, s.do(t, peer, http.MethodGet, path, nil, &people))
	require.Len(t, people, 1)
	assert.Equal(t, owner, people[0].PersonID)
	assert.Equal(t, 1, people[0].Satisfied)
	assert.Equal(t, 1, people[0].Required)
}

func TestMatch_RolesForPersonThreshold(t *testing.T) {
	s := newTestServer(t)
	owner, peer := devPerson(t, 0), devPerson(t, 1)
	roleID := vacantRole(t)
	skills := []string{"Networking", "Cloud Administration", "Database Administration"}

	for _, name := range skills {
		require.Equal(t, http.StatusCreated, s.do(t, peer, http.MethodPost, "/api/v1/requirements",
			map[string]any{"role_id": roleID, "skill_id": devSkill(t, name), "required_level": "Novice"}, nil))
	}

	path := "/api/v1/people/" + owner.String() + "/matching-roles"
	for i, name := range skills {
		c := createCapability(t, s, owner, name, "Experienced")
		require.Equal(t, http.StatusCreated, s.do(t, peer, http.MethodPost, "/api/v1/validations",
			map[string]any{"capability_id": c.ID, "validated_level": "Experienced"}, nil))

		var roles []dto.RoleMatchResponse
		require.Equal(t, http.StatusOK, s.do(t, peer, http.MethodGet, path, nil, &roles))
		if i < len(skills)-1 {
			assert.Empty(t, roles, "after %d validated skills", i+1)
			continue
		}
		require.Len(t, roles, 1)
		assert.Equal(t, roleID, roles[0].RoleID)
		assert.Equal(t, 3, roles[0].Satisfied)
	}
}

func TestMatch_UnknownIDs(t *testing.T) {
	s := newTestServer(t)
	caller := devPerson(t, 0)
	assert.Equal(t, http.StatusNotFound, s.do(t, caller, http.MethodGet, "/api/v1/people/"+uuid.NewString()+"/matching-roles", nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, caller, http.MethodGet, "/api/v1/roles/"+uuid.NewString()+"/matching-people", nil, nil))
}
