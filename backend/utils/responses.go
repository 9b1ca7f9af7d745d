package utils

import (
	"log"
	"net/http"

	"aulavirtual/backend/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/rollbar/rollbar-go"
)

// SuccessResponse структура для успешных ответов
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// PageMeta описывает страницу списка
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// Success создает успешный JSON ответ
func Success(c *fiber.Ctx, status int, data interface{}, meta ...interface{}) error {
	response := SuccessResponse{
		Success: true,
		Data:    data,
	}
	if len(meta) > 0 {
		response.Meta = meta[0]
	}
	return c.Status(status).JSON(response)
}

// OK отправляет ответ 200
func OK(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusOK, data)
}

// Created отправляет ответ 201 Created
func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

// NoContent отправляет ответ 204 No Content
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Paginate создает пагинированный JSON ответ
func Paginate(c *fiber.Ctx, data interface{}, total int64, page int, pageSize int) error {
	return Success(c, fiber.StatusOK, data, PageMeta{Total: total, Page: page, PageSize: pageSize})
}

// StatusOf maps an error kind to its HTTP status. Business-rule conflicts are 400.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindConflict:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindInternal:
		return fiber.StatusInternalServerError
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the single place where errors become HTTP responses.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if ae, ok := apperr.As(err); ok && ae.Kind != apperr.KindInternal {
			return c.Status(StatusOf(ae.Kind)).JSON(ErrorResponse{
				Success: false,
				Error:   ae.Code,
				Message: ae.Detail,
				Details: ae.Fields,
			})
		}

		var fe *fiber.Error
		if e, ok := err.(*fiber.Error); ok {
			fe = e
		}
		if fe != nil && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(ErrorResponse{
				Success: false,
				Error:   http.StatusText(fe.Code),
				Message: fe.Message,
			})
		}

		logger.Printf("[ERROR] %s %s: %+v", c.Method(), c.Path(), err)
		rollbar.Error(err, map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.Locals(RequestIDKey),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Error:   "Internal",
			Message: "unexpected error",
		})
	}
}
