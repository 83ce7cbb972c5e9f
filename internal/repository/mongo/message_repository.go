package mongo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageDocument struct {
	ID        string    `bson:"_id"`
	Seq       int64     `bson:"seq"`
	From      string    `bson:"from"`
	To        string    `bson:"to"`
	Text      string    `bson:"text"`
	Read      bool      `bson:"read"`
	Delivered bool      `bson:"delivered"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d *messageDocument) toDomain() *domain.Message {
	return &domain.Message{
		ID:        parseStoredID(d.ID),
		From:      parseStoredID(d.From),
		To:        parseStoredID(d.To),
		Text:      d.Text,
		Read:      d.Read,
		Delivered: d.Delivered,
		CreatedAt: d.CreatedAt,
	}
}

type messageRepository struct {
	messages *mongodriver.Collection
	lastSeq  atomic.Int64
}

func NewMessageRepository(s *Store) repository.MessageRepository {
	return &messageRepository{messages: s.messages}
}

// nextSeq orders messages created within the same millisecond. It is
// strictly increasing per process and follows wall-clock nanoseconds.
func (r *messageRepository) nextSeq() int64 {
	for {
		now := time.Now().UnixNano()
		last := r.lastSeq.Load()
		if now <= last {
			now = last + 1
		}
		if r.lastSeq.CompareAndSwap(last, now) {
			return now
		}
	}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = toMS(time.Now())

	doc := messageDocument{
		ID:        msg.ID.String(),
		Seq:       r.nextSeq(),
		From:      msg.From.String(),
		To:        msg.To.String(),
		Text:      msg.Text,
		Read:      msg.Read,
		Delivered: msg.Delivered,
		CreatedAt: msg.CreatedAt,
	}
	if _, err := r.messages.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func conversationFilter(a, b uuid.UUID) bson.D {
	x, y := a.String(), b.String()
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "from", Value: x}, {Key: "to", Value: y}},
		bson.D{{Key: "from", Value: y}, {Key: "to", Value: x}},
	}}}
}

func (r *messageRepository) ListConversation(ctx context.Context, a, b uuid.UUID) ([]*domain.Message, error) {
	return r.find(ctx, conversationFilter(a, b), 1)
}

func (r *messageRepository) ListUnread(ctx context.Context, recipientID uuid.UUID, newestFirst bool) ([]*domain.Message, error) {
	order := 1
	if newestFirst {
		order = -1
	}
	filter := bson.D{
		{Key: "to", Value: recipientID.String()},
		{Key: "read", Value: false},
	}
	return r.find(ctx, filter, order)
}

func (r *messageRepository) find(ctx context.Context, filter bson.D, order int) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: order}})
	cur, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	messages := make([]*domain.Message, 0, len(docs))
	for i := range docs {
		messages = append(messages, docs[i].toDomain())
	}
	return messages, nil
}

func (r *messageRepository) MarkConversationSeen(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error) {
	filter := bson.D{
		{Key: "from", Value: senderID.String()},
		{Key: "to", Value: recipientID.String()},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "read", Value: false}},
			bson.D{{Key: "delivered", Value: false}},
		}},
	}
	return r.updateMany(ctx, filter, bson.D{{Key: "read", Value: true}, {Key: "delivered", Value: true}})
}

func (r *messageRepository) MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: idStrings(ids)}}},
		{Key: "read", Value: false},
	}
	return r.updateMany(ctx, filter, bson.D{{Key: "read", Value: true}})
}

func (r *messageRepository) MarkDeliveredForRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	filter := bson.D{
		{Key: "to", Value: recipientID.String()},
		{Key: "delivered", Value: false},
	}
	return r.updateMany(ctx, filter, bson.D{{Key: "delivered", Value: true}})
}

func (r *messageRepository) updateMany(ctx context.Context, filter, set bson.D) (int64, error) {
	res, err := r.messages.UpdateMany(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return 0, fmt.Errorf("update messages: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *messageRepository) DeleteConversation(ctx context.Context, a, b uuid.UUID) (int64, error) {
	res, err := r.messages.DeleteMany(ctx, conversationFilter(a, b))
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return res.DeletedCount, nil
}
