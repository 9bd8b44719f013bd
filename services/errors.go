package services

import (
	"errors"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrForbidden            = errors.New("forbidden")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
)

// ValidationError reports caller-supplied data that failed validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}
