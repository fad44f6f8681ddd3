package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)

var (
	ErrPollNotFound   = fmt.Errorf("poll %w", ErrNotFound)
	ErrChoiceNotFound = fmt.Errorf("choice %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)

	ErrPollExpired      = fmt.Errorf("%w: poll has expired", ErrInvalidRequest)
	ErrAlreadyVoted     = fmt.Errorf("%w: you have already voted in this poll", ErrInvalidRequest)
	ErrInvalidPage      = fmt.Errorf("%w: page number cannot be less than zero", ErrInvalidRequest)
	ErrInvalidPageSize  = fmt.Errorf("%w: page size must be greater than zero", ErrInvalidRequest)
	ErrPageSizeTooLarge = fmt.Errorf("%w: page size too large", ErrInvalidRequest)
	ErrInvalidPollID    = fmt.Errorf("%w: invalid poll id", ErrInvalidRequest)
	ErrUsernameTaken    = fmt.Errorf("%w: username is already taken", ErrInvalidRequest)
	ErrEmailTaken       = fmt.Errorf("%w: email is already in use", ErrInvalidRequest)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// ValidationError reports a malformed payload. It matches ErrInvalidRequest.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// VoteRecordedError is returned when a vote was stored but the poll could not
// be read back. The vote stands; Err is the read failure.
type VoteRecordedError struct {
	VoteID uuid.UUID
	Err    error
}

func (e *VoteRecordedError) Error() string {
	return fmt.Sprintf("vote %s recorded, failed to read poll: %v", e.VoteID, e.Err)
}

func (e *VoteRecordedError) Unwrap() error {
	return e.Err
}
