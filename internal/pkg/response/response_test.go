package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h fiber.Handler) (int, SemanticResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body SemanticResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestUpserted(t *testing.T) {
	status, body := serve(t, func(c fiber.Ctx) error { return Upserted(c, true, "x") })
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, fiber.StatusCreated, body.Status)
	assert.Equal(t, "x", body.Data)

	status, body = serve(t, func(c fiber.Ctx) error { return Upserted(c, false, "x") })
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, MessageOK, body.Message)
}

func TestError_DefaultsMessageAndStatus(t *testing.T) {
	status, body := serve(t, func(c fiber.Ctx) error { return Error(c, fiber.StatusServiceUnavailable, "", nil) })
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, MessageServiceUnavailable, body.Message)
	assert.Nil(t, body.Data)

	status, body = serve(t, func(c fiber.Ctx) error { return Error(c, 42, "", nil) })
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, MessageInternalServerError, body.Message)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, MessageConflict, Message(fiber.StatusConflict))
	assert.Equal(t, MessageError, Message(fiber.StatusTeapot))
	assert.Equal(t, MessageInternalServerError, Message(fiber.StatusBadGateway))
}
