package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// Connection is a request/acceptance record between two users. At most one
// record exists per unordered pair.
type Connection struct {
	ID          uuid.UUID        `json:"_id" db:"id" bson:"_id"`
	RequesterID uuid.UUID        `json:"requesterId" db:"requester_id" bson:"requester_id"`
	ReceiverID  uuid.UUID        `json:"receiverId" db:"receiver_id" bson:"receiver_id"`
	Status      ConnectionStatus `json:"status" db:"status" bson:"status"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

func (c *Connection) HasUser(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.ReceiverID == userID
}

// GetOtherUserID returns the participant that is not userID.
func (c *Connection) GetOtherUserID(userID uuid.UUID) (uuid.UUID, bool) {
	if c.RequesterID == userID {
		return c.ReceiverID, true
	}
	if c.ReceiverID == userID {
		return c.RequesterID, true
	}
	return uuid.Nil, false
}

// PairKey is the direction-independent key of a user pair.
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// ConnectionAction is the receiver's answer to a pending request.
type ConnectionAction string

const (
	ActionAccept ConnectionAction = "accept"
	ActionReject ConnectionAction = "reject"
)

// TargetStatus returns the status a pending request moves to.
func (a ConnectionAction) TargetStatus() (ConnectionStatus, error) {
	switch a {
	case ActionAccept:
		return ConnectionStatusAccepted, nil
	case ActionReject:
		return ConnectionStatusRejected, nil
	default:
		return "", ErrInvalidAction
	}
}
