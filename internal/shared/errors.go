package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrForbidden        = fmt.Errorf("permission denied")
	ErrRateLimited      = fmt.Errorf("rate limit exceeded")

	// Catalog errors
	ErrParse                = fmt.Errorf("parse error")
	ErrValidation           = fmt.Errorf("validation failed")
	ErrDuplicateFingerprint = fmt.Errorf("chart with that fingerprint already exists")
	ErrConflict             = fmt.Errorf("record already exists")
	ErrNotFound             = fmt.Errorf("not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// FieldError ties a failure to the input field that caused it.
//
// Kind is one of the sentinel errors above ([ErrParse], [ErrValidation]) so callers can match with [errors.Is].
type FieldError struct {
	Kind   error
	Field  string
	Reason string
}

// NewFieldError builds a [FieldError] for field with a formatted reason.
func NewFieldError(kind error, field, format string, args ...any) *FieldError {
	return &FieldError{Kind: kind, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}
