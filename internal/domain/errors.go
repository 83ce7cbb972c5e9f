package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrUserNotFound  = errors.New("user not found")

	ErrProfileNotFound    = errors.New("user profile not found")
	ErrMissingPersonality = errors.New("missing personality data")

	ErrSelfRequest        = errors.New("cannot send connection request to yourself")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrDuplicateRequest   = errors.New("connection request already sent")
	ErrAlreadyRequested   = errors.New("this user has already sent you a connection request")
	ErrAlreadyConnected   = errors.New("you are already connected with this user")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection for this pair already exists")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrRequestNotPending  = errors.New("connection request is not pending")
	ErrInvalidAction      = errors.New(`invalid action, use "accept" or "reject"`)

	ErrEmptyMessage = errors.New("'to' and 'text' are required")
	ErrSelfMessage  = fmt.Errorf("%w: cannot send a message to yourself", ErrInvalidInput)

	ErrInvalidToken = errors.New("invalid token")
)

// PendingRequestError is returned when the receiver of a new request already
// has a pending request towards the requester.
type PendingRequestError struct {
	ConnectionID uuid.UUID
}

func (e *PendingRequestError) Error() string {
	return fmt.Sprintf("%s (connection %s)", ErrAlreadyRequested, e.ConnectionID)
}

func (e *PendingRequestError) Unwrap() error { return ErrAlreadyRequested }
