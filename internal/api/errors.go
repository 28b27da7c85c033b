package api

import (
	"errors"
	"net/http"
)

const (
	ErrCodeDatabaseError = "database_error"
	ErrCodeSessionError  = "session_error"
)

type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func mapErrorToStatusCode(err error) (int, *ApiError) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrCodeDatabaseError, ErrCodeSessionError:
			return http.StatusInternalServerError, apiErr
		}
	}

	// Default unknown error
	return http.StatusInternalServerError, &ApiError{
		Code:    "internal_error",
		Message: "An unexpected error occurred",
	}
}
