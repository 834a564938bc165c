package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// RateLimitedError carries how long the caller has to wait before the
// action is allowed again.
type RateLimitedError struct {
	Message    string
	RetryAfter int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry in %ds", e.Message, e.RetryAfter)
}

func NewRateLimited(msg string, retryAfterSeconds int) *RateLimitedError {
	return &RateLimitedError{Message: msg, RetryAfter: retryAfterSeconds}
}
