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

type profileDocument struct {
	UserID             string             `bson:"user_id"`
	Interests          []string           `bson:"interests"`
	Activities         []string           `bson:"activities"`
	InterestsNorm      []string           `bson:"interests_norm"`
	ActivitiesNorm     []string           `bson:"activities_norm"`
	Bio                string             `bson:"bio"`
	Personality        domain.Personality `bson:"personality"`
	PersonalitySummary string             `bson:"personality_summary"`
	IsProfileComplete  bool               `bson:"is_profile_complete"`
	LastUpdated        time.Time          `bson:"last_updated"`
	Embedding          []float64          `bson:"embedding"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

func (d *profileDocument) toDomain() *domain.Profile {
	return &domain.Profile{
		UserID:             parseStoredID(d.UserID),
		Interests:          nonNil(d.Interests),
		Activities:         nonNil(d.Activities),
		InterestsNorm:      nonNil(d.InterestsNorm),
		ActivitiesNorm:     nonNil(d.ActivitiesNorm),
		Bio:                d.Bio,
		Personality:        d.Personality,
		PersonalitySummary: d.PersonalitySummary,
		IsProfileComplete:  d.IsProfileComplete,
		LastUpdated:        d.LastUpdated,
		Embedding:          d.Embedding,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type profileRepository struct {
	profiles *mongodriver.Collection
}

func NewProfileRepository(s *Store) repository.ProfileRepository {
	return &profileRepository{profiles: s.profiles}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var doc profileDocument
	err := r.profiles.FindOne(ctx, bson.D{{Key: "user_id", Value: userID.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *profileRepository) UpsertInterests(ctx context.Context, profile *domain.Profile) error {
	now := toMS(time.Now())
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "interests", Value: nonNil(profile.Interests)},
			{Key: "activities", Value: nonNil(profile.Activities)},
			{Key: "interests_norm", Value: nonNil(profile.InterestsNorm)},
			{Key: "activities_norm", Value: nonNil(profile.ActivitiesNorm)},
			{Key: "bio", Value: profile.Bio},
			{Key: "is_profile_complete", Value: profile.IsProfileComplete},
			{Key: "last_updated", Value: toMS(profile.LastUpdated)},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "personality", Value: domain.Personality{}},
			{Key: "personality_summary", Value: ""},
			{Key: "embedding", Value: []float64{}},
			{Key: "created_at", Value: now},
		}},
	}
	return r.upsert(ctx, profile, update)
}

func (r *profileRepository) UpsertPersonality(ctx context.Context, profile *domain.Profile) error {
	now := toMS(time.Now())
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "personality", Value: profile.Personality},
			{Key: "personality_summary", Value: profile.PersonalitySummary},
			{Key: "is_profile_complete", Value: profile.IsProfileComplete},
			{Key: "last_updated", Value: toMS(profile.LastUpdated)},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "interests", Value: []string{}},
			{Key: "activities", Value: []string{}},
			{Key: "interests_norm", Value: []string{}},
			{Key: "activities_norm", Value: []string{}},
			{Key: "bio", Value: ""},
			{Key: "embedding", Value: []float64{}},
			{Key: "created_at", Value: now},
		}},
	}
	return r.upsert(ctx, profile, update)
}

// upsert applies update to the user's profile and refills profile with the stored state.
func (r *profileRepository) upsert(ctx context.Context, profile *domain.Profile, update bson.D) error {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc profileDocument
	err := r.profiles.FindOneAndUpdate(ctx, bson.D{{Key: "user_id", Value: profile.UserID.String()}}, update, opts).
		Decode(&doc)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	*profile = *doc.toDomain()
	return nil
}

func (r *profileRepository) UpdateEmbedding(ctx context.Context, userID uuid.UUID, embedding []float64) error {
	if embedding == nil {
		embedding = []float64{}
	}
	res, err := r.profiles.UpdateOne(ctx,
		bson.D{{Key: "user_id", Value: userID.String()}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "embedding", Value: embedding},
			{Key: "updated_at", Value: toMS(time.Now())},
		}}},
	)
	if err != nil {
		return fmt.Errorf("update embedding: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) ListCandidates(ctx context.Context, excludeUserID uuid.UUID, interestsNorm, activitiesNorm []string) ([]*domain.Profile, error) {
	filter := bson.D{
		{Key: "user_id", Value: bson.D{{Key: "$ne", Value: excludeUserID.String()}}},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "interests_norm", Value: bson.D{{Key: "$in", Value: nonNil(interestsNorm)}}}},
			bson.D{{Key: "activities_norm", Value: bson.D{{Key: "$in", Value: nonNil(activitiesNorm)}}}},
		}},
	}

	cur, err := r.profiles.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	var docs []profileDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(docs))
	for i := range docs {
		profiles = append(profiles, docs[i].toDomain())
	}
	return profiles, nil
}
