package contactops

import "fmt"

// ErrorCode classifies conversion failures.
type ErrorCode string

const (
	// ErrorCodeStoreTransaction indicates the store rejected the whole batch.
	ErrorCodeStoreTransaction ErrorCode = "store_transaction"
	// ErrorCodeAssetFetch indicates a remote photo could not be retrieved.
	// It is logged and never returned from a conversion.
	ErrorCodeAssetFetch ErrorCode = "asset_fetch"
	// ErrorCodeUnresolvedTemporal indicates a birthday without a calendar
	// date. It is logged and never returned from a conversion.
	ErrorCodeUnresolvedTemporal ErrorCode = "unresolved_temporal"
	// ErrorCodeValidation indicates invalid call arguments.
	ErrorCodeValidation ErrorCode = "validation"
)

// Error is the typed error of this package.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	if e == nil {
		return "contactops: <nil>"
	}
	msg := fmt.Sprintf("contactops: %s", e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func validationError(format string, args ...any) *Error {
	return &Error{Code: ErrorCodeValidation, Message: fmt.Sprintf(format, args...)}
}
