package apperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with an arbitrary status code.
func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// Conflict signals a duplicate unique field (username, email).
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// NotFound signals a missing user or listing.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Unauthorized signals missing or invalid credentials.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden signals an authenticated caller without entitlement.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// BadRequest signals a malformed or invalid request body.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Is reports whether err is an *Error with the given status code.
func Is(err error, statusCode int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.StatusCode == statusCode
}

type response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Write is the single responder every handler forwards errors to. Uncategorized
// errors collapse to a generic 500 so internal details never reach the client.
func Write(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal Server Error"

	var appErr *Error
	if errors.As(err, &appErr) {
		statusCode = appErr.StatusCode
		message = appErr.Message
	} else {
		log.Error().Err(err).Msg("Unhandled error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
	})
}
