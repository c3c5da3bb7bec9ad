package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Error kinds returned by the domain services. Test with errors.Is.
var (
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrDuplicateUsername  = errors.New("duplicate username")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrInvalidState       = errors.New("invalid state")
)

// InvalidCredentialsMessage is the only message a failed login ever produces
const InvalidCredentialsMessage = "Invalid credentials"

// DomainError is a recoverable failure of a domain operation.
// Message is safe to show to the user.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

func forbidden(message string) error {
	return newError(ErrForbidden, message)
}

func notFound(message string) error {
	return newError(ErrNotFound, message)
}

func invalidInput(message string) error {
	return newError(ErrInvalidInput, message)
}

func unauthenticated() error {
	return newError(ErrUnauthenticated, "You must be logged in")
}

// isRecordNotFound reports whether a gorm lookup found nothing
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isUniqueViolation detects unique constraint failures on both PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}
