package middleware

import (
	"errors"
	"net/http"
	"time"

	"techgo/dto"
	"techgo/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the common error body.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, fields map[string]string) error {
	return c.Status(statusCode).JSON(dto.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    statusCode,
		Error:     http.StatusText(statusCode),
		Message:   message,
		Path:      c.Path(),
		Errors:    fields,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed!", errors)
}

var kindStatus = map[services.Kind]int{
	services.KindNotFound:   fiber.StatusNotFound,
	services.KindValidation: fiber.StatusBadRequest,
	services.KindDuplicate:  fiber.StatusConflict,
	services.KindConflict:   fiber.StatusConflict,
	services.KindExpired:    fiber.StatusBadRequest,
	services.KindCapacity:   fiber.StatusConflict,
}

// ErrorHandler is the app-wide fiber error handler. Service errors map to a
// status by kind; anything unexpected is logged and reported as a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status, ok := kindStatus[svcErr.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		return ErrorResponse(c, status, svcErr.Message, svcErr.Fields)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse(c, fiberErr.Code, fiberErr.Message, nil)
	}

	zap.L().Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return ErrorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
}
