package shared

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrNotFound marks a lookup whose key has no live entry, including entries
// Redis already expired. Callers translate it per endpoint.
var ErrNotFound = errors.New("not found")

// APIError is the JSON body every HTTP error response carries.
type APIError struct {
	Code    string `json:"code" example:"invalid_request"`
	Message string `json:"message" example:"Invalid request body"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

func httpError(status int, code, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, &APIError{Code: code, Message: message})
}

func BadRequest(code, message string) *echo.HTTPError {
	return httpError(http.StatusBadRequest, code, message)
}

func Unauthorized(code, message string) *echo.HTTPError {
	return httpError(http.StatusUnauthorized, code, message)
}

func TooManyRequests(code, message string) *echo.HTTPError {
	return httpError(http.StatusTooManyRequests, code, message)
}

func InternalError(code, message string) *echo.HTTPError {
	return httpError(http.StatusInternalServerError, code, message)
}

func ServiceUnavailable(code, message string) *echo.HTTPError {
	return httpError(http.StatusServiceUnavailable, code, message)
}
