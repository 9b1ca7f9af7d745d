package utils

import (
	"aulavirtual/backend/apperr"

	"github.com/gofiber/fiber/v2"
)

// Keys under which the middleware stores per-request values in c.Locals.
const (
	IdentityKey  = "identity"
	RequestIDKey = "requestid"
)

// CurrentUser returns the identity set by the auth middleware.
func CurrentUser(c *fiber.Ctx) (Identity, error) {
	id, ok := c.Locals(IdentityKey).(Identity)
	if !ok {
		return Identity{}, apperr.ErrUnauthorized
	}
	return id, nil
}
