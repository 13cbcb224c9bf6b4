package llm

import (
	"errors"
	"fmt"
)

// ErrorKind tags every failure mode of question generation so handlers can give
// differentiated guidance (credential problems vs. regenerate-and-retry).
type ErrorKind string

const (
	KindNoJSONFound          ErrorKind = "no_json_found"
	KindUnparseableResponse  ErrorKind = "unparseable_response"
	KindNotAnArray           ErrorKind = "not_an_array"
	KindNoQuestionsGenerated ErrorKind = "no_questions_generated"
	KindMissingField         ErrorKind = "missing_field"
	KindMissingOptions       ErrorKind = "missing_options"
	KindAuthFailure          ErrorKind = "auth_failure"
	KindRateLimited          ErrorKind = "rate_limited"
	KindProviderError        ErrorKind = "provider_error"
)

type Error struct {
	Kind    ErrorKind
	Field   string // set for missing_field
	Index   int    // question index for per-question failures, -1 otherwise
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("question %d is missing required field %q", e.Index+1, e.Field)
	case KindMissingOptions:
		return fmt.Sprintf("question %d must have an options array for multiple choice", e.Index+1)
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Index: -1, Message: message}
}

func wrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Index: -1, Message: message, cause: cause}
}

func missingFieldError(index int, field string) *Error {
	return &Error{Kind: KindMissingField, Index: index, Field: field}
}

func missingOptionsError(index int) *Error {
	return &Error{Kind: KindMissingOptions, Index: index}
}

// IsKind reports whether err carries the given generation error kind.
func IsKind(err error, kind ErrorKind) bool {
	var genErr *Error
	return errors.As(err, &genErr) && genErr.Kind == kind
}
