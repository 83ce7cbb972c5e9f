package repository

import (
	"context"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	// ListConversation returns the messages between a and b, oldest first.
	ListConversation(ctx context.Context, a, b uuid.UUID) ([]*domain.Message, error)
	// ListUnread returns unread messages addressed to recipientID.
	ListUnread(ctx context.Context, recipientID uuid.UUID, newestFirst bool) ([]*domain.Message, error)
	// MarkConversationSeen sets read and delivered on every message from sender to recipient.
	MarkConversationSeen(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error)
	MarkDeliveredForRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error)
	DeleteConversation(ctx context.Context, a, b uuid.UUID) (int64, error)
}
