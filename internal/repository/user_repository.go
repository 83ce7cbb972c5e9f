package repository

import (
	"context"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/google/uuid"
)

// UserRepository reads the identity store.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByIDs returns the users found, keyed by id. Missing ids are absent from the map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
