// Package apperrors defines the closed set of error variants the service can
// produce and how each one is presented to an API client.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindReferenceIntegrity
	KindContentGeneration
	KindExternalService
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindReferenceIntegrity:
		return "reference_integrity"
	case KindContentGeneration:
		return "content_generation"
	case KindExternalService:
		return "external_service"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Public error codes of the API envelope.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

// Error is the single error type crossing package boundaries. Detail and Err are
// for server-side logs only.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Hint    string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, message, hint string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message, Hint: hint}
}

func ReferenceIntegrity(detail string) *Error {
	return &Error{Kind: KindReferenceIntegrity, Message: "reference integrity violated", Detail: detail}
}

func ContentGeneration(detail string) *Error {
	return &Error{Kind: KindContentGeneration, Message: "content generation failed", Detail: detail}
}

func ExternalService(service string, err error) *Error {
	return &Error{Kind: KindExternalService, Message: "external service unavailable", Detail: service, Err: err}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf reports the variant of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// FieldOf returns the offending request field of a validation error.
func FieldOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// Public is the client-facing part of an error.
type Public struct {
	Status  int
	Code    string
	Message string
	Hint    string
}

// ToPublic normalises err for the client. Integrity, generation and unknown
// errors are reported as INTERNAL_ERROR without their details.
func ToPublic(err error) Public {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return Public{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "An unexpected error occurred"}
	}

	switch appErr.Kind {
	case KindValidation:
		return Public{Status: http.StatusBadRequest, Code: CodeValidation, Message: appErr.Message, Hint: appErr.Hint}
	case KindNotFound:
		return Public{Status: http.StatusNotFound, Code: CodeNotFound, Message: appErr.Message}
	case KindExternalService:
		return Public{Status: http.StatusBadGateway, Code: CodeExternalService, Message: "An upstream service is unavailable"}
	case KindReferenceIntegrity, KindContentGeneration, KindInternal:
		return Public{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "An unexpected error occurred"}
	}
	return Public{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "An unexpected error occurred"}
}
