package utils

import (
	"errors"
	"net/http"
)

// APIError is an error with an HTTP status that is safe to show to clients.
type APIError struct {
	Status  int
	Message string
	Details interface{}
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(status int, message string, details interface{}) *APIError {
	return &APIError{Status: status, Message: message, Details: details}
}

func NotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message, nil)
}

func Unauthorized(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message, nil)
}

func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, nil)
}

func Conflict(message string) *APIError {
	return NewAPIError(http.StatusConflict, message, nil)
}

func TooManyRequests(message string, details interface{}) *APIError {
	return NewAPIError(http.StatusTooManyRequests, message, details)
}

// AsAPIError unwraps err into an *APIError if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
