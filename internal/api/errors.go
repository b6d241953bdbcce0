package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/promptgen-api/internal/api/shared"
	"github.com/phrazzld/promptgen-api/internal/domain"
	"github.com/phrazzld/promptgen-api/internal/generation"
	"github.com/phrazzld/promptgen-api/internal/redact"
	"github.com/phrazzld/promptgen-api/internal/store"
)

const (
	// MissingInputMessage is returned for any generation request without a
	// usable topic and category, including unparseable bodies.
	MissingInputMessage = "Topic and category are required."

	defaultErrorMessage = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
//
// Gateway failures surface the provider's message after redaction, since
// callers rely on it to tell a timeout from a quota error. Everything else
// maps to a fixed string.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return defaultErrorMessage
	}

	var (
		validationErr  *domain.ValidationError
		validationErrs validator.ValidationErrors
		gatewayErr     *generation.GatewayError
	)

	switch {
	case errors.Is(err, store.ErrHistoryItemNotFound):
		return "History item not found"

	case errors.As(err, &validationErr):
		return validationErr.Error()

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid history item"

	case errors.As(err, &gatewayErr):
		msg := strings.TrimSpace(redact.String(gatewayErr.Error()))
		if msg == "" {
			return generation.DefaultGatewayErrorMessage
		}
		return msg

	default:
		return defaultErrorMessage
	}
}

// HandleAPIError writes the status and message for err. fallbackMsg replaces
// the generic message for errors that have no specific mapping.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if msg == defaultErrorMessage && fallbackMsg != "" {
		msg = fallbackMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError turns a validator error into a short message that
// names the field without echoing struct internals.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	field := strings.ToLower(fe.Field())
	if msg := validationTagMessage(fe.Tag()); msg != "" {
		return fmt.Sprintf("Invalid %s: %s", field, msg)
	}
	return fmt.Sprintf("Invalid %s", field)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return ""
	}
}
