package kit

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"projectboard/internal/store"
)

// APIError is a structured application error with code and message.
type APIError struct {
	HTTPStatus int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

func NewAPIError(httpStatus int, code, msg string, details interface{}) *APIError {
	return &APIError{HTTPStatus: httpStatus, Code: code, Message: msg, Details: details}
}

// Common helpers
func BadRequest(msg string, details interface{}) error {
	return NewAPIError(http.StatusBadRequest, "E_INVALID_PARAM", msg, details)
}
func NotFound(msg string) error { return NewAPIError(http.StatusNotFound, "E_NOT_FOUND", msg, nil) }
func Conflict(msg string) error {
	return NewAPIError(http.StatusConflict, "E_CONFLICT", msg, nil)
}
func InternalError(msg string, details interface{}) error {
	return NewAPIError(http.StatusInternalServerError, "E_INTERNAL", msg, details)
}

// StoreError classifies a record store failure into the API taxonomy.
func StoreError(err error, fallback string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFound("Project not found")
	case errors.Is(err, store.ErrDuplicate):
		return Conflict("Project name already exists")
	case errors.Is(err, store.ErrUnknownField):
		return BadRequest(err.Error(), nil)
	default:
		return InternalError(fallback, err.Error())
	}
}

// ErrorHandler returns a Fiber error handler emitting the dashboard's
// `{"error": message}` body shape with the mapped status code.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		var ae *APIError
		if errors.As(err, &ae) {
			return c.Status(ae.HTTPStatus).JSON(fiber.Map{"error": ae.Message})
		}

		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
