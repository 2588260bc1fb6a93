package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/scoreboard/internal/model"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with a code and message
type httpError struct {
	status  int
	code    string
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Message: he.message,
		Code:    he.code,
	})
}

// IsInternal reports whether err maps to a 500 response
func IsInternal(err error) bool {
	return toHTTPError(err).status == http.StatusInternalServerError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Credential errors
	case errors.Is(err, model.ErrDuplicateUsername):
		return &httpError{http.StatusConflict, CodeUsernameExists, "Username already exists"}
	case errors.Is(err, model.ErrDuplicateEmail):
		return &httpError{http.StatusConflict, CodeEmailExists, "Email already exists"}
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, validationMessage(err)}

	// Auth errors
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials"}
	case errors.Is(err, model.ErrUnauthenticated), errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, CodeUnauthorized, "Not logged in"}

	// Lookup errors
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, CodeUserNotFound, "User not found"}
	case errors.Is(err, model.ErrNoScores):
		return &httpError{http.StatusNotFound, CodeNotFound, "No scores recorded"}

	default:
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
	}
}

// validationMessage strips the sentinel prefix so clients see only the detail
func validationMessage(err error) string {
	msg := err.Error()
	prefix := model.ErrInvalidInput.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, CodeUnauthorized, "Not logged in"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
}
