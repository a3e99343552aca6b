package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrBadStatus         = errors.New("unexpected upstream status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrNotFound          = errors.New("not found")
	ErrNotEnoughEntries  = errors.New("not enough entries")
	ErrUnparsableScore   = errors.New("unparsable score")
	ErrInvalidInput      = errors.New("invalid input")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// StatusCode returns the upstream status carried by err, or 0 when the
// failure never reached an upstream (transport errors, local files).
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}

// Retryable reports whether a fetch failure may succeed on another attempt.
// Malformed bodies and client-side statuses are permanent.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
		return false
	case errors.Is(err, ErrBadStatus):
		code := StatusCode(err)
		return code >= 500 || code == 429
	default:
		return true
	}
}
