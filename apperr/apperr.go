// Package apperr defines the typed business errors raised by the service
// layer. Controllers translate them into HTTP responses; the services never
// see transport concerns.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Error codes surfaced to clients.
const (
	CodeCustomerNotFound       = "CUSTOMER_NOT_FOUND"
	CodeVehicleNotFound        = "VEHICLE_NOT_FOUND"
	CodeServicePackageNotFound = "SERVICE_PACKAGE_NOT_FOUND"
	CodeCustomerAlreadyExists  = "CUSTOMER_ALREADY_EXISTS"
	CodeOptimisticLock         = "OPTIMISTIC_LOCK_ERROR"
	CodeBadRequest             = "BAD_REQUEST"
	CodeValidation             = "VALIDATION_ERROR"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeInternal               = "INTERNAL_SERVER_ERROR"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Newf(status int, code, format string, args ...interface{}) *Error {
	return &Error{Status: status, Code: code, Err: fmt.Errorf(format, args...)}
}

func CustomerNotFound(id uuid.UUID) *Error {
	return Newf(http.StatusNotFound, CodeCustomerNotFound, "Customer not found with ID: %s", id)
}

func VehicleNotFound(id uuid.UUID) *Error {
	return Newf(http.StatusNotFound, CodeVehicleNotFound, "Vehicle not found with ID: %s", id)
}

func ServicePackageNotFound(id uuid.UUID) *Error {
	return Newf(http.StatusNotFound, CodeServicePackageNotFound, "Service package not found with ID: %s", id)
}

func CustomerAlreadyExists(email string) *Error {
	return Newf(http.StatusConflict, CodeCustomerAlreadyExists, "Customer already exists with email: %s", email)
}

// OptimisticLock is raised both by the application-level version check and by
// the version-guarded write when it touches zero rows.
func OptimisticLock(entity string, id uuid.UUID) *Error {
	return Newf(http.StatusConflict, CodeOptimisticLock,
		"%s with ID %s was modified by another user. Please refresh and retry with the current version.", entity, id)
}

func BadRequest(format string, args ...interface{}) *Error {
	return Newf(http.StatusBadRequest, CodeBadRequest, format, args...)
}

func Unauthorized(msg string) *Error {
	return Newf(http.StatusUnauthorized, CodeUnauthorized, "%s", msg)
}

func Forbidden(msg string) *Error {
	return Newf(http.StatusForbidden, CodeForbidden, "%s", msg)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// From returns err as an *Error, wrapping unknown failures as Internal so no
// raw error detail leaks to callers.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
