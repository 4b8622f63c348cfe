package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a malformed, empty or oversized search request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited signals that this service's own rate limit was hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrMissingCredential signals that the LLM credential is not configured.
	ErrMissingCredential = errors.New("llm credential not configured")
	// ErrGeneratorTimeout signals that the LLM did not answer before the deadline.
	ErrGeneratorTimeout = errors.New("llm timeout")
	// ErrUpstreamRateLimited signals that the LLM vendor rejected the call for quota reasons.
	ErrUpstreamRateLimited = errors.New("llm rate limited")
	// ErrGeneratorFailed signals any other LLM transport or vendor failure.
	ErrGeneratorFailed = errors.New("llm provider error")
	// ErrMalformedOutput signals LLM output that is not JSON or fails the match schema.
	ErrMalformedOutput = errors.New("malformed llm output")
	// ErrCanceled signals that the caller went away before a result was produced.
	ErrCanceled = errors.New("request canceled")
)

// InputError carries a user-facing validation message. Unwraps to ErrInvalidInput.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return ErrInvalidInput.Error() + ": " + e.Message }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// NewInputError creates an input error with a message safe to show to the user.
func NewInputError(message string) error {
	return &InputError{Message: message}
}

// Output validation failure reasons.
const (
	ReasonNonJSON = "non-JSON"
	ReasonSchema  = "schema"
)

// OutputError describes why LLM output was rejected. Unwraps to ErrMalformedOutput.
type OutputError struct {
	Reason string
	Err    error
}

func (e *OutputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrMalformedOutput.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMalformedOutput.Error(), e.Reason, e.Err)
}

// Is makes errors.Is(err, ErrMalformedOutput) hold while Unwrap exposes the cause.
func (e *OutputError) Is(target error) bool { return target == ErrMalformedOutput }

func (e *OutputError) Unwrap() error { return e.Err }
