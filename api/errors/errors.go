/* errors.go
 * Typed errors shared by the parsers, the store and the command router. The router maps the code
 * of an AppError to a conversational reply, so nothing here knows about reply wording
 */

package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodePersistence  ErrorCode = "PERSISTENCE"
	CodeDelivery     ErrorCode = "DELIVERY"
)

type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func InvalidInput(format string, args ...interface{}) *AppError {
	return NewAppError(CodeInvalidInput, fmt.Sprintf(format, args...), nil)
}

func NotFound(format string, args ...interface{}) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf(format, args...), nil)
}

func Conflict(format string, args ...interface{}) *AppError {
	return NewAppError(CodeConflict, fmt.Sprintf(format, args...), nil)
}

func Persistence(message string, err error) *AppError {
	return NewAppError(CodePersistence, message, err)
}

// CodeOf returns the code of the first AppError in err's chain, or "" when there is none
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
