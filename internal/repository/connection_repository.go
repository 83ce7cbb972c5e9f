package repository

import (
	"context"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/google/uuid"
)

type ConnectionRepository interface {
	// Create inserts a new connection. A record for the same unordered pair
	// yields domain.ErrConnectionExists.
	Create(ctx context.Context, conn *domain.Connection) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Connection, error)
	// GetByPair finds the connection between a and b in either direction.
	GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Connection, error)
	// TransitionStatus moves the connection from one status to another and sets
	// the given direction. It returns domain.ErrConnectionNotFound when no record
	// with that id is in the from status.
	TransitionStatus(ctx context.Context, conn *domain.Connection, from domain.ConnectionStatus) error
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error)
	// ListByUser returns connections in the given status where userID is either party.
	ListByUser(ctx context.Context, userID uuid.UUID, status domain.ConnectionStatus) ([]*domain.Connection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
