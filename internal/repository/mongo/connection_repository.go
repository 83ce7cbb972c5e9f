package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type connectionDocument struct {
	ID          string    `bson:"_id"`
	PairKey     string    `bson:"pair_key"`
	RequesterID string    `bson:"requester_id"`
	ReceiverID  string    `bson:"receiver_id"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d *connectionDocument) toDomain() *domain.Connection {
	return &domain.Connection{
		ID:          parseStoredID(d.ID),
		RequesterID: parseStoredID(d.RequesterID),
		ReceiverID:  parseStoredID(d.ReceiverID),
		Status:      domain.ConnectionStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type connectionRepository struct {
	connections *mongodriver.Collection
}

func NewConnectionRepository(s *Store) repository.ConnectionRepository {
	return &connectionRepository{connections: s.connections}
}

func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	now := toMS(time.Now())
	conn.CreatedAt = now
	conn.UpdatedAt = now

	doc := connectionDocument{
		ID:          conn.ID.String(),
		PairKey:     domain.PairKey(conn.RequesterID, conn.ReceiverID),
		RequesterID: conn.RequesterID.String(),
		ReceiverID:  conn.ReceiverID.String(),
		Status:      string(conn.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.connections.InsertOne(ctx, doc); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return domain.ErrConnectionExists
		}
		return fmt.Errorf("insert connection: %w", err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (r *connectionRepository) GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error) {
	return r.findOne(ctx, bson.D{{Key: "pair_key", Value: domain.PairKey(a, b)}})
}

func (r *connectionRepository) findOne(ctx context.Context, filter bson.D) (*domain.Connection, error) {
	var doc connectionDocument
	if err := r.connections.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("find connection: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *connectionRepository) TransitionStatus(ctx context.Context, conn *domain.Connection, from domain.ConnectionStatus) error {
	filter := bson.D{
		{Key: "_id", Value: conn.ID.String()},
		{Key: "status", Value: string(from)},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(conn.Status)},
		{Key: "requester_id", Value: conn.RequesterID.String()},
		{Key: "receiver_id", Value: conn.ReceiverID.String()},
		{Key: "updated_at", Value: toMS(time.Now())},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc connectionDocument
	if err := r.connections.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return domain.ErrConnectionNotFound
		}
		return fmt.Errorf("transition connection: %w", err)
	}
	*conn = *doc.toDomain()
	return nil
}

func (r *connectionRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	filter := bson.D{
		{Key: "receiver_id", Value: receiverID.String()},
		{Key: "status", Value: string(status)},
	}
	return r.list(ctx, filter, "created_at")
}

func (r *connectionRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	filter := bson.D{
		{Key: "requester_id", Value: requesterID.String()},
		{Key: "status", Value: string(status)},
	}
	return r.list(ctx, filter, "created_at")
}

func (r *connectionRepository) ListByUser(ctx context.Context, userID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	id := userID.String()
	filter := bson.D{
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "requester_id", Value: id}},
			bson.D{{Key: "receiver_id", Value: id}},
		}},
		{Key: "status", Value: string(status)},
	}
	return r.list(ctx, filter, "updated_at")
}

// list returns matching connections, newest first by sortField.
func (r *connectionRepository) list(ctx context.Context, filter bson.D, sortField string) ([]*domain.Connection, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	cur, err := r.connections.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find connections: %w", err)
	}
	var docs []connectionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode connections: %w", err)
	}
	conns := make([]*domain.Connection, 0, len(docs))
	for i := range docs {
		conns = append(conns, docs[i].toDomain())
	}
	return conns, nil
}

func (r *connectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.connections.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrConnectionNotFound
	}
	return nil
}
