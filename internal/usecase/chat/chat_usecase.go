package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
)

type ChatUseCase struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
}

func NewChatUseCase(msgRepo repository.MessageRepository, userRepo repository.UserRepository) *ChatUseCase {
	return &ChatUseCase{
		msgRepo:  msgRepo,
		userRepo: userRepo,
	}
}

// SendRequest is the payload of both the REST send and the realtime send_message event
type SendRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Send stores a new unread, undelivered message.
func (uc *ChatUseCase) Send(ctx context.Context, from, to uuid.UUID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if to == uuid.Nil || text == "" {
		return nil, domain.ErrEmptyMessage
	}
	if from == to {
		return nil, domain.ErrSelfMessage
	}

	msg := &domain.Message{
		ID:   uuid.New(),
		From: from,
		To:   to,
		Text: text,
	}
	if err := uc.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// History returns the conversation oldest first and marks everything the
// peer sent to the caller as read and delivered.
func (uc *ChatUseCase) History(ctx context.Context, callerID, peerID uuid.UUID) ([]*domain.Message, error) {
	messages, err := uc.msgRepo.ListConversation(ctx, callerID, peerID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	if _, err := uc.msgRepo.MarkConversationSeen(ctx, peerID, callerID); err != nil {
		return nil, fmt.Errorf("mark conversation seen: %w", err)
	}
	return messages, nil
}

type UnreadMessage struct {
	MessageID  uuid.UUID `json:"messageId"`
	SenderID   uuid.UUID `json:"senderId"`
	SenderName string    `json:"senderName"`
	SenderPic  *string   `json:"senderPic"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"sentAt"`
}

type UnreadSummary struct {
	UnreadCount int             `json:"unreadCount"`
	Messages    []UnreadMessage `json:"messages"`
}

// Unread lists the caller's unread messages newest first with sender details.
// Flags are not changed.
func (uc *ChatUseCase) Unread(ctx context.Context, callerID uuid.UUID) (*UnreadSummary, error) {
	messages, err := uc.msgRepo.ListUnread(ctx, callerID, true)
	if err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(messages))
	senders := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		if _, ok := seen[m.From]; ok {
			continue
		}
		seen[m.From] = struct{}{}
		senders = append(senders, m.From)
	}
	users, err := uc.userRepo.GetByIDs(ctx, senders)
	if err != nil {
		return nil, fmt.Errorf("load senders: %w", err)
	}

	summary := &UnreadSummary{
		UnreadCount: len(messages),
		Messages:    make([]UnreadMessage, 0, len(messages)),
	}
	for _, m := range messages {
		sender := users[m.From]
		var pic *string
		if sender != nil {
			pic = sender.ProfilePic
		}
		summary.Messages = append(summary.Messages, UnreadMessage{
			MessageID:  m.ID,
			SenderID:   m.From,
			SenderName: sender.DisplayName(),
			SenderPic:  pic,
			Text:       m.Text,
			SentAt:     m.CreatedAt,
		})
	}
	return summary, nil
}

// PendingDelivery returns the caller's unread messages oldest first.
func (uc *ChatUseCase) PendingDelivery(ctx context.Context, callerID uuid.UUID) ([]*domain.Message, error) {
	return uc.msgRepo.ListUnread(ctx, callerID, false)
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return uc.msgRepo.MarkRead(ctx, ids)
}

// MarkDelivered flags every undelivered message addressed to the caller.
func (uc *ChatUseCase) MarkDelivered(ctx context.Context, callerID uuid.UUID) (int64, error) {
	return uc.msgRepo.MarkDeliveredForRecipient(ctx, callerID)
}

// DeleteHistory removes the whole conversation between caller and peer.
func (uc *ChatUseCase) DeleteHistory(ctx context.Context, callerID, peerID uuid.UUID) (int64, error) {
	return uc.msgRepo.DeleteConversation(ctx, callerID, peerID)
}
