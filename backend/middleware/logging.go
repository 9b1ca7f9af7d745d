package middleware

import (
	"log"
	"time"

	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = fiberutils.UUIDv4()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals(utils.RequestIDKey, id)
		return c.Next()
	}
}

// LoggingMiddleware writes one access line per request. Colours are used unless the logger
// is in json mode.
func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	colors := logger.Flags()&log.Lmsgprefix == 0
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// let the error handler write the status before it is logged
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		method := c.Method()
		var statusColor, methodColor, reset string
		if colors {
			statusColor, methodColor, reset = getStatusColor(status), getMethodColor(method), "\033[0m"
		}
		logger.Printf("id=%v %s %s%s%s %s %s%d%s %s",
			c.Locals(utils.RequestIDKey),
			c.IP(),
			methodColor, method, reset,
			c.Path(),
			statusColor, status, reset,
			time.Since(start),
		)
		return nil
	}
}

func getStatusColor(status int) string {
	switch {
	case status >= 500:
		return "\033[31m" // Красный
	case status >= 400:
		return "\033[33m" // Желтый
	case status >= 300:
		return "\033[36m" // Голубой
	default:
		return "\033[32m" // Зеленый
	}
}

func getMethodColor(method string) string {
	switch method {
	case fiber.MethodGet:
		return "\033[34m"
	case fiber.MethodPost:
		return "\033[33m"
	case fiber.MethodPatch:
		return "\033[32m"
	case fiber.MethodDelete:
		return "\033[31m"
	default:
		return "\033[37m"
	}
}
