package service

import (
	"errors"
	"fmt"

	"github.com/jamspace/jamspace/internal/repository"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrProfileNotFound = repository.ErrProfileNotFound
	ErrProjectNotFound = repository.ErrProjectNotFound
	ErrUploadFailed    = errors.New("file upload failed")
)

// ValidationError marks a request the caller can fix. Handlers answer it
// with 400 and the message verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
