package repository

import (
	"context"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	// UpsertInterests writes interests, activities and bio, creating the profile
	// if needed. Personality fields are left untouched.
	UpsertInterests(ctx context.Context, profile *domain.Profile) error
	// UpsertPersonality writes the personality fields, creating the profile if
	// needed. Interests and activities are left untouched.
	UpsertPersonality(ctx context.Context, profile *domain.Profile) error
	UpdateEmbedding(ctx context.Context, userID uuid.UUID, embedding []float64) error
	// ListCandidates returns profiles of users other than excludeUserID that
	// share at least one canonical interest or activity.
	ListCandidates(ctx context.Context, excludeUserID uuid.UUID, interestsNorm, activitiesNorm []string) ([]*domain.Profile, error)
}
