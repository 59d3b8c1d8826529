package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"capability-sync/internal/database/seeder"
	"capability-sync/internal/delivery/http/handler"
	"capability-sync/internal/delivery/http/middleware"
	"capability-sync/internal/delivery/http/routes"
	v1 "capability-sync/internal/delivery/http/routes/v1"
	"capability-sync/internal/domain/matching"
	"capability-sync/internal/pkg/jwt"
	"capability-sync/internal/repository/memory"
	"capability-sync/internal/usecase"

	"github.com/alitto/pond/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	app *fiber.App
	jwt *jwt.HMACService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.New()
	seeder.Into(store)

	logger := zap.NewNop()
	pool := pond.NewPool(2)
	t.Cleanup(pool.StopAndWait)

	jwtSvc := jwt.NewHMACService("test-secret", time.Hour)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())

	routes.NewRegistry(routes.Deps{
		Health: handler.NewHealthHandler(nil),
		Auth:   middleware.NewAuthMiddleware(jwtSvc).Middleware(),
		V1: v1.Handlers{
			Skills:       handler.NewSkillHandler(usecase.NewSkillUsecase(store.Skills())),
			Capabilities: handler.NewCapabilityHandler(usecase.NewCapabilityUsecase(store.Capabilities(), store.Skills(), nil, logger)),
			Validations: handler.NewValidationHandler(usecase.NewValidationUsecase(usecase.ValidationDeps{
				Validations:  store.Validations(),
				Capabilities: store.Capabilities(),
				Logger:       logger,
			})),
			Requirements: handler.NewRequirementHandler(usecase.NewRequirementUsecase(store.Requirements(), store.Skills(), store.Roles(), nil, logger)),
			Matches: handler.NewMatchHandler(usecase.NewMatchingUsecase(usecase.MatchingDeps{
				Capabilities: store.Capabilities(),
				Requirements: store.Requirements(),
				Roles:        store.Roles(),
				Persons:      store.Persons(),
				Pool:         pool,
				Thresholds:   matching.DefaultThresholds(),
				Logger:       logger,
			})),
		},
	}).Register(app)

	return &testServer{app: app, jwt: jwtSvc}
}

func (s *testServer) token(t *testing.T, personID uuid.UUID) string {
	t.Helper()
	tok, err := s.jwt.GenerateAccessToken(personID)
	require.NoError(t, err)
	return tok
}

// do sends a request as personID (uuid.Nil sends no token) and decodes the
// response envelope into out when out is non-nil.
func (s *testServer) do(t *testing.T, personID uuid.UUID, method, path string, body any, out any) int {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if personID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, personID))
	}

	resp, err := s.app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env semanticResponse
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	require.Equal(t, resp.StatusCode, env.Status)
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	}
	return resp.StatusCode
}

func devPerson(t *testing.T, i int) uuid.UUID {
	t.Helper()
	people := seeder.DevPersons()
	require.Greater(t, len(people), i)
	return people[i].ID
}

func devSkill(t *testing.T, name string) uuid.UUID {
	t.Helper()
	for _, sk := range seeder.DefaultSkills() {
		if sk.NameEn == name {
			return sk.ID
		}
	}
	t.Fatalf("skill %q not in catalog", name)
	return uuid.Nil
}

func vacantRole(t *testing.T) uuid.UUID {
	t.Helper()
	for _, r := range seeder.DevRoles() {
		if r.Active && r.PersonID == nil {
			return r.ID
		}
	}
	t.Fatal("no vacant role in catalog")
	return uuid.Nil
}
