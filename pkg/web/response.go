// Package web defines common components for a web application.
package web

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns a human readable message for the failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "money":
		return " must be a positive amount"
	case "accounttype":
		return " is not supported"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "nefield":
		return " must differ from " + fe.Param()
	}

	return " is invalid"
}

// ValidationError converts a binding error into a response message.
func ValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Field() + GetErrorMsg(ve[0])
	}

	return "invalid request"
}

// StatusFromError maps a domain error to the http status and the response
// payload. Unknown errors are hidden behind errorspkg.ErrInternal.
func StatusFromError(err error) (int, Response) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, Error(err)
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, Error(err)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, Error(err)
	case errors.Is(err, domain.ErrDailyLimitExceeded):
		return http.StatusForbidden, Error(err)
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusServiceUnavailable, Error(err)
	}

	return http.StatusInternalServerError, Error(errorspkg.ErrInternal)
}
