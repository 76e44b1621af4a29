package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/coinspot/coinspot-backend/internal/domain"
	"github.com/dafibh/coinspot/coinspot-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation = "https://coinspot.app/errors/validation"
	ErrorTypeNotFound   = "https://coinspot.app/errors/not-found"
	ErrorTypeConflict   = "https://coinspot.app/errors/conflict"
	ErrorTypeInternal   = "https://coinspot.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors maps field level domain errors to the request field they belong to
var fieldErrors = []struct {
	err   error
	field string
}{
	{domain.ErrGoalNameRequired, "name"},
	{domain.ErrGoalNameTooLong, "name"},
	{domain.ErrDescriptionTooLong, "description"},
	{domain.ErrTargetAmountNotPositive, "targetAmount"},
	{domain.ErrTargetBelowCurrent, "targetAmount"},
	{domain.ErrTargetDateNotAfterStart, "targetDate"},
	{domain.ErrInvalidCurrency, "currency"},
	{domain.ErrInvalidAmount, "amount"},
	{domain.ErrNoteTooLong, "note"},
	{domain.ErrInvalidSavingStyle, "style"},
	{domain.ErrUnknownCountry, "country"},
}

// handleServiceError maps a service error to a problem details response.
// Unknown errors are logged and reported as internal errors with the given detail.
func handleServiceError(c echo.Context, err error, internalDetail string) error {
	switch {
	case errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrBadgeNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, notFoundDetail(err))
	case errors.Is(err, domain.ErrInsufficientFunds):
		return NewConflictError(c, "Insufficient funds")
	}

	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: fe.field, Message: capitalize(fe.err.Error())},
			})
		}
	}
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidInput) {
		return NewValidationError(c, capitalize(err.Error()), nil)
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(internalDetail)
	return NewInternalError(c, internalDetail)
}

func notFoundDetail(err error) string {
	switch {
	case errors.Is(err, domain.ErrGoalNotFound):
		return "Goal not found"
	case errors.Is(err, domain.ErrEntryNotFound):
		return "Ledger entry not found"
	case errors.Is(err, domain.ErrBadgeNotFound):
		return "Badge not found"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "Profile not found"
	default:
		return "Resource not found"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// invalidField creates a validation error response for a single request field
func invalidField(c echo.Context, field, message string) error {
	return NewValidationError(c, "Invalid "+field, []ValidationError{
		{Field: field, Message: message},
	})
}

// parseID reads a positive int32 path parameter
func parseID(c echo.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func parseAmount(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(value))
}

func parseDate(value string) (time.Time, error) {
	return util.ParseDate(strings.TrimSpace(value))
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := util.FormatDate(*t)
	return &s
}
