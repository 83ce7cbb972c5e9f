package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const connectionColumns = `id, requester_id, receiver_id, status, created_at, updated_at`

type connectionRepository struct {
	db *sqlx.DB
}

func NewConnectionRepository(db *sqlx.DB) repository.ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}

	// uq_connections_pair rejects a second record for the same unordered pair
	query := `
		INSERT INTO connections (id, requester_id, receiver_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, conn.ID, conn.RequesterID, conn.ReceiverID, conn.Status).
		Scan(&conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConnectionExists
		}
		return err
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error) {
	var conn domain.Connection
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`
	err := r.db.GetContext(ctx, &conn, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error) {
	var conn domain.Connection
	query := `
		SELECT ` + connectionColumns + ` FROM connections
		WHERE (requester_id = $1 AND receiver_id = $2)
		   OR (requester_id = $2 AND receiver_id = $1)
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &conn, query, a, b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) TransitionStatus(ctx context.Context, conn *domain.Connection, from domain.ConnectionStatus) error {
	query := `
		UPDATE connections
		SET status = $1, requester_id = $2, receiver_id = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND status = $5
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, conn.Status, conn.RequesterID, conn.ReceiverID, conn.ID, from).
		Scan(&conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConnectionNotFound
		}
		return err
	}
	return nil
}

func (r *connectionRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	query := `
		SELECT ` + connectionColumns + ` FROM connections
		WHERE receiver_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &conns, query, receiverID, status)
	return conns, err
}

func (r *connectionRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	query := `
		SELECT ` + connectionColumns + ` FROM connections
		WHERE requester_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &conns, query, requesterID, status)
	return conns, err
}

func (r *connectionRepository) ListByUser(ctx context.Context, userID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error) {
	var conns []*domain.Connection
	query := `
		SELECT ` + connectionColumns + ` FROM connections
		WHERE (requester_id = $1 OR receiver_id = $1) AND status = $2
		ORDER BY updated_at DESC
	`
	err := r.db.SelectContext(ctx, &conns, query, userID, status)
	return conns, err
}

func (r *connectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM connections WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrConnectionNotFound
	}
	return nil
}
