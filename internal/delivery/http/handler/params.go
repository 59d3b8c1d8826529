package handler

import (
	"strings"

	"capability-sync/internal/delivery/http/middleware"
	"capability-sync/internal/domain/proficiency"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func badRequest(msg string, err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
}

func idParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badRequest("Invalid "+name, err)
	}
	return id, nil
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return badRequest("Bad request", err)
	}
	return nil
}

// levelQuery reads an optional proficiency level from the query string.
func levelQuery(c fiber.Ctx, key string) (*proficiency.Level, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	lvl, err := proficiency.Parse(raw)
	if err != nil {
		return nil, badRequest("Invalid "+key, err)
	}
	return &lvl, nil
}
