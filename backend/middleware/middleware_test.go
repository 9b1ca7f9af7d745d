package middleware

import (
	"bytes"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"aulavirtual/backend/config"
	"aulavirtual/backend/models"
	"aulavirtual/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDKeepsCallerHeader(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(utils.RequestIDKey).(string))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "abc-123", string(body))
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get(fiber.HeaderXRequestID))
	assert.NoError(t, err)
}

func TestLoggingMiddlewareLogsHandledStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", log.Lmsgprefix)
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logger)})
	app.Use(RequestID(), LoggingMiddleware(logger))
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Contains(t, buf.String(), "GET /teapot 418")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(log.New(io.Discard, "", 0))})
	app.Use(AuthMiddleware(cfg))
	app.Get("/me", func(c *fiber.Ctx) error {
		me, err := utils.CurrentUser(c)
		if err != nil {
			return err
		}
		return c.SendString(me.UserID.String())
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	id := uuid.New()
	tok, err := utils.GenerateToken(id, models.UserTypeStudent, time.Hour, cfg)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id.String(), string(body))
}
