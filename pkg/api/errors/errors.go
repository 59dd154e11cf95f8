package errors

import (
	"errors"
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/jordanlanch/leaddesk/pkg/domain"
	"github.com/jordanlanch/leaddesk/pkg/models"
	"github.com/labstack/echo/v4"
)

// ValidationError returns a generic validation error without exposing internal details
func ValidationError(c echo.Context, err error) error {
	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	})
}

// ValidationMessage returns a validation error with a message written by
// the service layer. Only domain validation messages go through here.
func ValidationMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

// InvalidIDError is returned when a path id is not a positive integer
func InvalidIDError(c echo.Context, what string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_id",
		Message: what + " must be a positive integer",
	})
}

// NotFoundError returns a not found error for a resource kind such as "Lead"
func NotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: resource + " not found",
	})
}

// DatabaseError returns a generic database error without exposing internal details
func DatabaseError(c echo.Context, err error) error {
	log.Printf("[DATABASE ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
	capture(c, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "database_error",
		Message: "A database error occurred. Please try again later.",
	})
}

// InternalError returns a generic internal server error
func InternalError(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
	capture(c, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

// HandleServiceError maps a service error to its HTTP response. resource
// names the entity used in not found messages.
func HandleServiceError(c echo.Context, err error, resource string) error {
	switch domain.GetErrorCode(err) {
	case domain.ErrCodeValidation:
		var de *domain.DomainError
		if errors.As(err, &de) {
			return ValidationMessage(c, de.Message)
		}
		return ValidationError(c, err)
	case domain.ErrCodeNotFound:
		return NotFoundError(c, resource)
	case domain.ErrCodeStorageFailure:
		return DatabaseError(c, err)
	default:
		return InternalError(c, err)
	}
}

// capture reports err to Sentry. Without an initialised client this is a no-op.
func capture(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
