// Package apperror defines the error kinds raised by request handlers and
// the single mapping from an error value to its JSON wire form.
package apperror

import (
	"errors"
	"net/http"
)

// Kind names a category of failure. The value is sent as the "error" field.
type Kind string

const (
	KindNotFound   Kind = "NotFoundError"
	KindValidation Kind = "ValidationError"

	KindMethodNotAllowed Kind = "MethodNotAllowedError"

	// KindServer is reported for any error that is not an *Error.
	KindServer Kind = "ServerError"
)

// DefaultMessage is sent when an unexpected failure carries no message.
const DefaultMessage = "An unexpected error occurred."

// Error is a failure with a kind, a client-facing message and an HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound returns a 404 error kind.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: http.StatusNotFound}
}

// Validation returns a 400 error kind.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Status: http.StatusBadRequest}
}

// MethodNotAllowed returns a 405 error kind.
func MethodNotAllowed(message string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: message, Status: http.StatusMethodNotAllowed}
}

// Body is the JSON error envelope.
type Body struct {
	Error   Kind   `json:"error"`
	Message string `json:"message"`
}

// Describe maps err to a status code and body. Error kinds found anywhere in
// the wrap chain keep their own status; everything else becomes a 500 ServerError.
func Describe(err error) (int, Body) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		status := appErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		kind := appErr.Kind
		if kind == "" {
			kind = KindServer
		}
		message := appErr.Message
		if message == "" {
			message = DefaultMessage
		}
		return status, Body{Error: kind, Message: message}
	}

	message := DefaultMessage
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	return http.StatusInternalServerError, Body{Error: KindServer, Message: message}
}
