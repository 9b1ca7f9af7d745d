// Package controllers adapts HTTP requests to service calls. Handlers never decide status
// codes for failures; they return the error and utils.ErrorHandler maps it.
package controllers

import (
	"strconv"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid path parameter", map[string]string{name: "must be a valid uuid"})
	}
	return id, nil
}

// bodyInput decodes a free-form JSON object for the entity constructors.
func bodyInput(c *fiber.Ctx) (entities.Input, error) {
	in := entities.Input{}
	if len(c.Body()) == 0 {
		return in, nil
	}
	if err := c.BodyParser(&in); err != nil {
		return nil, apperr.Validation("malformed JSON body", nil)
	}
	return in, nil
}

func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("invalid query parameter", map[string]string{name: "must be an integer"})
	}
	return n, nil
}
