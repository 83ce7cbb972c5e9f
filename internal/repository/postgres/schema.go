package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// schema is applied once at startup. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT '',
		username    TEXT NOT NULL DEFAULT '',
		profile_pic TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS user_interests (
		user_id             UUID PRIMARY KEY,
		interests           TEXT[] NOT NULL DEFAULT '{}',
		activities          TEXT[] NOT NULL DEFAULT '{}',
		interests_norm      TEXT[] NOT NULL DEFAULT '{}',
		activities_norm     TEXT[] NOT NULL DEFAULT '{}',
		bio                 VARCHAR(500) NOT NULL DEFAULT '',
		openness            DOUBLE PRECISION,
		conscientiousness   DOUBLE PRECISION,
		extraversion        DOUBLE PRECISION,
		agreeableness       DOUBLE PRECISION,
		neuroticism         DOUBLE PRECISION,
		personality_summary VARCHAR(500) NOT NULL DEFAULT '',
		is_profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
		last_updated        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		embedding           DOUBLE PRECISION[] NOT NULL DEFAULT '{}',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interests_interests_norm ON user_interests USING GIN (interests_norm)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interests_activities_norm ON user_interests USING GIN (activities_norm)`,
	`CREATE TABLE IF NOT EXISTS connections (
		id           UUID PRIMARY KEY,
		requester_id UUID NOT NULL,
		receiver_id  UUID NOT NULL,
		status       VARCHAR(16) NOT NULL DEFAULT 'pending'
		             CHECK (status IN ('pending', 'accepted', 'rejected')),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (requester_id <> receiver_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_connections_pair
		ON connections (LEAST(requester_id, receiver_id), GREATEST(requester_id, receiver_id))`,
	`CREATE INDEX IF NOT EXISTS idx_connections_receiver_status ON connections (receiver_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_connections_requester_status ON connections (requester_id, status)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           UUID PRIMARY KEY,
		seq          BIGSERIAL,
		sender_id    UUID NOT NULL,
		recipient_id UUID NOT NULL,
		text         TEXT NOT NULL CHECK (length(text) > 0),
		is_read      BOOLEAN NOT NULL DEFAULT FALSE,
		delivered    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_recipient_read ON messages (recipient_id, is_read)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_recipient_delivered ON messages (recipient_id, delivered)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair_seq ON messages (sender_id, recipient_id, seq)`,
}

// Migrate creates tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func uuidStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func selectList(columns []string) string {
	return strings.Join(columns, ", ")
}
