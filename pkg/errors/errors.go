package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. Handlers map these onto HTTP statuses so
// callers can tell validation failures apart from internal ones.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeStorage         = "STORAGE_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HasCode reports whether err is an AppError carrying one of the given codes.
func HasCode(err error, codes ...string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	for _, code := range codes {
		if appErr.Code == code {
			return true
		}
	}
	return false
}
