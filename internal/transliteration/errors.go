package transliteration

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy of the primary service.
type ErrorCategory string

const (
	// ErrorTimeout indicates the service took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorProviderOutage indicates transport failure or a 5xx status
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorBadStatus indicates a non-2xx status other than 429 or 5xx
	ErrorBadStatus ErrorCategory = "bad_status"

	// ErrorBadData indicates a body that is not JSON or not the nested-array shape
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorRateLimited indicates the local or remote limit was hit
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorCircuitOpen indicates the primary was skipped after repeated failures
	ErrorCircuitOpen ErrorCategory = "circuit_open"

	// ErrorInternal indicates an unexpected local error
	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps primary-path failures with a category. Every
// ProviderError triggers the fallback; none is fatal.
type ProviderError struct {
	Category   ErrorCategory
	Message    string
	Underlying error
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("transliteration [%s]: %s: %v", e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("transliteration [%s]: %s", e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

func newProviderError(category ErrorCategory, message string, underlying error) *ProviderError {
	return &ProviderError{Category: category, Message: message, Underlying: underlying}
}

// CategoryOf extracts the category from an error, ErrorInternal otherwise.
func CategoryOf(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}
