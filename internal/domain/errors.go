package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors for the error taxonomy. Services wrap these with context;
// handlers map them to HTTP statuses with errors.Is.
var (
	// ErrNotFound indicates a requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrValidation indicates the request failed validation
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated user lacks the capability
	ErrForbidden = errors.New("forbidden")
)

// HTTPError is implemented by errors that carry their own HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// NotFoundError wraps ErrNotFound with a resource description
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError wraps ErrValidation with a human-readable message
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// UnauthorizedError wraps ErrUnauthorized
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func (e *UnauthorizedError) StatusCode() int {
	return http.StatusUnauthorized
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// ForbiddenError wraps ErrForbidden
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func (e *ForbiddenError) StatusCode() int {
	return http.StatusForbidden
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}
