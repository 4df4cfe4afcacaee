package apierror

import (
	"fmt"
	"net/http"
)

// APIError is an error that already knows its client-facing code and
// HTTP status. Handlers pass it through writeError untouched.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: status}
}

// Unauthorized builds a 401 rejection with a stable machine code.
func Unauthorized(code string, message string) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// BadRequest builds a 400 rejection with a stable machine code.
func BadRequest(code string, message string) *APIError {
	return &APIError{Code: code, Message: message, HTTPStatus: http.StatusBadRequest}
}
