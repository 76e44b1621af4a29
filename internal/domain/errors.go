package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrValidation         = errors.New("validation failed")
	ErrGoalNotFound       = errors.New("goal not found")
	ErrEntryNotFound      = errors.New("ledger entry not found")
	ErrBadgeNotFound      = errors.New("badge not found")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidSavingStyle = errors.New("invalid saving style")
	ErrUnknownCountry     = errors.New("unknown country")
	ErrNoteTooLong        = errors.New("note must be 500 characters or less")
)

// Goal validation errors. They are always returned wrapped in ErrValidation.
var (
	ErrGoalNameRequired        = errors.New("goal name is required")
	ErrGoalNameTooLong         = errors.New("goal name must be 255 characters or less")
	ErrDescriptionTooLong      = errors.New("description must be 1000 characters or less")
	ErrTargetAmountNotPositive = errors.New("target amount must be greater than 0")
	ErrTargetDateNotAfterStart = errors.New("target date must be after start date")
	ErrInvalidCurrency         = errors.New("currency must be a 3 letter code")
	ErrTargetBelowCurrent      = errors.New("target amount cannot be less than the amount already saved")
)

// Validation constants
const (
	MaxGoalNameLength    = 255
	MaxDescriptionLength = 1000
	MaxNoteLength        = 500
)
