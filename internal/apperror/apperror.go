// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer translates them to status
// codes and response bodies at the handler boundary. Nothing below the
// handlers knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — the requested record does not exist. The original API
	// reported missing profiles with a 400, and clients depend on that, so
	// the handler maps this to 400 rather than 404.
	ErrNotFound = errors.New("not found")

	// ErrValidation — malformed or missing input. Carries a field-message
	// list so the client sees every failed check at once.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate — an account already exists for the given email.
	ErrDuplicate = errors.New("duplicate account")

	// ErrInvalidCredentials — unknown email or wrong password. Both cases
	// share one message so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized — missing or invalid session token.
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError is a single field-level validation message, matching the
// {"errors":[{"msg":...,"param":...}]} wire shape.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// AppError is the concrete error type services return.
type AppError struct {
	Err     error        // sentinel kind, checked with errors.Is
	Message string       // human-readable message
	Fields  []FieldError // populated for validation failures
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound returns an AppError for a missing record.
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// ValidationFailed returns an AppError for a single failed field check.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  []FieldError{{Msg: message, Param: field}},
	}
}

// Invalid bundles several field errors into one validation failure.
// Operations validate every field before returning, so the client gets the
// full list in a single 400 rather than one message per request.
func Invalid(fields ...FieldError) *AppError {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Msg
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Fields:  fields,
	}
}

// Duplicate returns the fixed duplicate-account error. The message never
// names the offending field.
func Duplicate() *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: "account already exists",
	}
}

// InvalidCredentials returns the enumeration-safe login failure.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// Unauthorized returns an AppError for a missing or bad session token.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Internal wraps an unexpected failure. The message shown to clients is
// always generic; the wrapped error is for logs only.
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
