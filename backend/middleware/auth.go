package middleware

import (
	"aulavirtual/backend/config"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the bearer token and stores the caller's identity. Role checks
// beyond identity happen in the services.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := utils.ExtractIdentity(c, cfg)
		if err != nil {
			return err
		}
		c.Locals(utils.IdentityKey, identity)
		return c.Next()
	}
}
