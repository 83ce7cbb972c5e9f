package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	profilesCollection    = "user_interests"
	connectionsCollection = "connections"
	messagesCollection    = "messages"
)

// Store holds the collections of the document backend.
type Store struct {
	db          *mongodriver.Database
	users       *mongodriver.Collection
	profiles    *mongodriver.Collection
	connections *mongodriver.Collection
	messages    *mongodriver.Collection
}

func NewStore(db *mongodriver.Database) *Store {
	return &Store{
		db:          db,
		users:       db.Collection(usersCollection),
		profiles:    db.Collection(profilesCollection),
		connections: db.Collection(connectionsCollection),
		messages:    db.Collection(messagesCollection),
	}
}

// EnsureIndexes creates the indexes the repositories rely on:
//   - one profile per user
//   - one connection per unordered pair (pair_key)
//   - multikey indexes on the canonical tag arrays for candidate lookup
//   - unread and conversation lookups on messages
func (s *Store) EnsureIndexes(ctx context.Context) error {
	groups := []struct {
		coll   *mongodriver.Collection
		models []mongodriver.IndexModel
	}{
		{s.profiles, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("uq_user_id").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "interests_norm", Value: 1}},
				Options: options.Index().SetName("interests_norm"),
			},
			{
				Keys:    bson.D{{Key: "activities_norm", Value: 1}},
				Options: options.Index().SetName("activities_norm"),
			},
		}},
		{s.connections, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "pair_key", Value: 1}},
				Options: options.Index().SetName("uq_pair_key").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "receiver_id", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("receiver_status"),
			},
			{
				Keys:    bson.D{{Key: "requester_id", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("requester_status"),
			},
		}},
		{s.messages, []mongodriver.IndexModel{
			{
				Keys:    bson.D{{Key: "to", Value: 1}, {Key: "read", Value: 1}, {Key: "seq", Value: 1}},
				Options: options.Index().SetName("to_read_seq"),
			},
			{
				Keys:    bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}, {Key: "seq", Value: 1}},
				Options: options.Index().SetName("from_to_seq"),
			},
		}},
	}

	for _, g := range groups {
		if _, err := g.coll.Indexes().CreateMany(ctx, g.models); err != nil {
			return fmt.Errorf("mongo ensure indexes on %s: %w", g.coll.Name(), err)
		}
	}
	return nil
}

// MongoDB DateTime keeps milliseconds.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseStoredID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
