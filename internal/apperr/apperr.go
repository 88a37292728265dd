// Package apperr defines the terminal error taxonomy of the API:
// Unauthenticated (401), Forbidden (403), NotFound (404), BadRequest (400)
// and Internal (500). None of these conditions are retried.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
	Message string

	// Контекст для 403 по верификации брокера: фронт показывает
	// текущий статус и причину отказа.
	VerificationStatus string
	RejectionReason    string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// ForbiddenVerification builds the 403 returned to an unverified broker,
// carrying the current verification status and, when rejected, the reason.
func ForbiddenVerification(message, status, reason string) *Error {
	return &Error{
		Status:             http.StatusForbidden,
		Message:            message,
		VerificationStatus: status,
		RejectionReason:    reason,
	}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Internal wraps a storage or infrastructure failure. The wrapped error is
// for logs only; the client sees the generic message.
func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// From extracts an *Error from an error chain, or nil.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
