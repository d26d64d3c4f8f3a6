package core

import (
	"errors"
	"fmt"
)

// Error taxonomy roots. Callers classify failures with errors.Is against
// these; concrete validation errors below wrap ErrValidation.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrImportFormat       = errors.New("invalid backup format")
)

var (
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrMissingCategory     = fmt.Errorf("%w: category is required", ErrValidation)
	ErrMissingAccount      = fmt.Errorf("%w: account is required", ErrValidation)
	ErrInvalidType         = fmt.Errorf("%w: type must be expense or income", ErrValidation)
	ErrCategoryKind        = fmt.Errorf("%w: category kind does not match transaction type", ErrValidation)
	ErrInvalidFrequency    = fmt.Errorf("%w: frequency must be weekly or monthly", ErrValidation)
	ErrInvalidDayOfWeek    = fmt.Errorf("%w: day of week must be between 0 and 6", ErrValidation)
	ErrInvalidDayOfMonth   = fmt.Errorf("%w: day of month must be between 1 and 31", ErrValidation)
	ErrInvalidDate         = fmt.Errorf("%w: date is required", ErrValidation)
	ErrEmptyName           = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrInvalidBudgetLimit  = fmt.Errorf("%w: budget limit must be positive", ErrValidation)
	ErrInvalidIcon         = fmt.Errorf("%w: unknown icon", ErrValidation)
)
