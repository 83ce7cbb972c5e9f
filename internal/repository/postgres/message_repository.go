package postgres

import (
	"context"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const messageColumns = `id, sender_id, recipient_id, text, is_read, delivered, created_at`

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, text, is_read, delivered)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, msg.ID, msg.From, msg.To, msg.Text, msg.Read, msg.Delivered).
		Scan(&msg.CreatedAt)
}

func (r *messageRepository) ListConversation(ctx context.Context, a, b uuid.UUID) ([]*domain.Message, error) {
	messages := []*domain.Message{}
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC, seq ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, a, b)
	return messages, err
}

func (r *messageRepository) ListUnread(ctx context.Context, recipientID uuid.UUID, newestFirst bool) ([]*domain.Message, error) {
	order := `created_at ASC, seq ASC`
	if newestFirst {
		order = `created_at DESC, seq DESC`
	}
	messages := []*domain.Message{}
	query := `
		SELECT ` + messageColumns + ` FROM messages
		WHERE recipient_id = $1 AND is_read = FALSE
		ORDER BY ` + order
	err := r.db.SelectContext(ctx, &messages, query, recipientID)
	return messages, err
}

func (r *messageRepository) MarkConversationSeen(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages SET is_read = TRUE, delivered = TRUE
		WHERE sender_id = $1 AND recipient_id = $2 AND (is_read = FALSE OR delivered = FALSE)
	`
	return r.exec(ctx, query, senderID, recipientID)
}

func (r *messageRepository) MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE messages SET is_read = TRUE WHERE id = ANY($1::uuid[]) AND is_read = FALSE`
	return r.exec(ctx, query, uuidStrings(ids))
}

func (r *messageRepository) MarkDeliveredForRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	query := `UPDATE messages SET delivered = TRUE WHERE recipient_id = $1 AND delivered = FALSE`
	return r.exec(ctx, query, recipientID)
}

func (r *messageRepository) DeleteConversation(ctx context.Context, a, b uuid.UUID) (int64, error) {
	query := `
		DELETE FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
	`
	return r.exec(ctx, query, a, b)
}

func (r *messageRepository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
