package serviceerror

import (
	"errors"
	"fmt"
	"net/http"
)

type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

// Kind classifies a failure so callers can branch without parsing messages
type Kind string

const (
	KindValidation             Kind = "validation_error"
	KindNotFound               Kind = "resource_not_found"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindPersistence            Kind = "persistence_error"
)

// ServiceError is the typed error returned by the consent lifecycle
type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Kind             Kind             `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
	cause            error
}

var (
	ErrValidation = &ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4001",
		Kind:             KindValidation,
		ErrorDescription: "Validation failed",
	}

	ErrNotFound = &ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4004",
		Kind:             KindNotFound,
		ErrorDescription: "Resource not found",
	}

	ErrInvalidStateTransition = &ServiceError{
		Type:             ClientErrorType,
		Code:             "CSE-4009",
		Kind:             KindInvalidStateTransition,
		ErrorDescription: "Request conflicts with current state",
	}

	ErrPersistence = &ServiceError{
		Type:             ServerErrorType,
		Code:             "SSE-5001",
		Kind:             KindPersistence,
		ErrorDescription: "A database error occurred",
	}
)

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.ErrorDescription, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.ErrorDescription)
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// Is matches any ServiceError of the same kind, so errors.Is(err, ErrNotFound) works
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// HTTPStatus returns the HTTP status code for the error kind
func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidStateTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CustomServiceError copies a base error with a specific description
func CustomServiceError(baseError *ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Kind:             baseError.Kind,
		ErrorDescription: description,
	}
}

func Validation(format string, args ...interface{}) *ServiceError {
	return CustomServiceError(ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *ServiceError {
	return CustomServiceError(ErrNotFound, fmt.Sprintf(format, args...))
}

func InvalidStateTransition(format string, args ...interface{}) *ServiceError {
	return CustomServiceError(ErrInvalidStateTransition, fmt.Sprintf(format, args...))
}

// Persistence wraps a store failure. The cause is kept for logging but never rendered to API clients.
func Persistence(cause error, format string, args ...interface{}) *ServiceError {
	e := CustomServiceError(ErrPersistence, fmt.Sprintf(format, args...))
	e.cause = cause
	return e
}

// From returns err as a ServiceError, classifying anything untyped as a persistence failure
func From(err error, operation string) *ServiceError {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return Persistence(err, "%s failed", operation)
}

// KindOf returns the kind of err, or an empty kind for untyped errors
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
