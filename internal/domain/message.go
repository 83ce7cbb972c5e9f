package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat message. Only Read and Delivered change after creation,
// and only from false to true.
type Message struct {
	ID        uuid.UUID `json:"_id" db:"id" bson:"_id"`
	From      uuid.UUID `json:"from" db:"sender_id" bson:"from"`
	To        uuid.UUID `json:"to" db:"recipient_id" bson:"to"`
	Text      string    `json:"text" db:"text" bson:"text"`
	Read      bool      `json:"read" db:"is_read" bson:"read"`
	Delivered bool      `json:"delivered" db:"delivered" bson:"delivered"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
}

// IsBetween reports whether the message belongs to the conversation of a and b.
func (m *Message) IsBetween(a, b uuid.UUID) bool {
	return (m.From == a && m.To == b) || (m.From == b && m.To == a)
}
