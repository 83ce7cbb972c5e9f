package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var profileColumns = []string{
	"user_id", "interests", "activities", "interests_norm", "activities_norm", "bio",
	"openness", "conscientiousness", "extraversion", "agreeableness", "neuroticism",
	"personality_summary", "is_profile_complete", "last_updated", "embedding",
	"created_at", "updated_at",
}

// profileRow is the flat table shape of domain.Profile.
type profileRow struct {
	UserID             uuid.UUID       `db:"user_id"`
	Interests          pq.StringArray  `db:"interests"`
	Activities         pq.StringArray  `db:"activities"`
	InterestsNorm      pq.StringArray  `db:"interests_norm"`
	ActivitiesNorm     pq.StringArray  `db:"activities_norm"`
	Bio                string          `db:"bio"`
	Openness           *float64        `db:"openness"`
	Conscientiousness  *float64        `db:"conscientiousness"`
	Extraversion       *float64        `db:"extraversion"`
	Agreeableness      *float64        `db:"agreeableness"`
	Neuroticism        *float64        `db:"neuroticism"`
	PersonalitySummary string          `db:"personality_summary"`
	IsProfileComplete  bool            `db:"is_profile_complete"`
	LastUpdated        time.Time       `db:"last_updated"`
	Embedding          pq.Float64Array `db:"embedding"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func (row *profileRow) toDomain() *domain.Profile {
	return &domain.Profile{
		UserID:         row.UserID,
		Interests:      orEmpty(row.Interests),
		Activities:     orEmpty(row.Activities),
		InterestsNorm:  orEmpty(row.InterestsNorm),
		ActivitiesNorm: orEmpty(row.ActivitiesNorm),
		Bio:            row.Bio,
		Personality: domain.Personality{
			Openness:          row.Openness,
			Conscientiousness: row.Conscientiousness,
			Extraversion:      row.Extraversion,
			Agreeableness:     row.Agreeableness,
			Neuroticism:       row.Neuroticism,
		},
		PersonalitySummary: row.PersonalitySummary,
		IsProfileComplete:  row.IsProfileComplete,
		LastUpdated:        row.LastUpdated,
		Embedding:          []float64(row.Embedding),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

// textArray keeps NOT NULL array columns from receiving NULL for a nil slice.
func textArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func orEmpty(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var row profileRow
	query := `SELECT ` + selectList(profileColumns) + ` FROM user_interests WHERE user_id = $1`
	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *profileRepository) UpsertInterests(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO user_interests (
			user_id, interests, activities, interests_norm, activities_norm, bio,
			is_profile_complete, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET interests = EXCLUDED.interests,
		    activities = EXCLUDED.activities,
		    interests_norm = EXCLUDED.interests_norm,
		    activities_norm = EXCLUDED.activities_norm,
		    bio = EXCLUDED.bio,
		    is_profile_complete = EXCLUDED.is_profile_complete,
		    last_updated = EXCLUDED.last_updated,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING ` + selectList(profileColumns)

	var row profileRow
	err := r.db.GetContext(
		ctx, &row, query,
		profile.UserID, textArray(profile.Interests), textArray(profile.Activities),
		textArray(profile.InterestsNorm), textArray(profile.ActivitiesNorm), profile.Bio,
		profile.IsProfileComplete, profile.LastUpdated,
	)
	if err != nil {
		return err
	}
	*profile = *row.toDomain()
	return nil
}

func (r *profileRepository) UpsertPersonality(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO user_interests (
			user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			personality_summary, is_profile_complete, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE
		SET openness = EXCLUDED.openness,
		    conscientiousness = EXCLUDED.conscientiousness,
		    extraversion = EXCLUDED.extraversion,
		    agreeableness = EXCLUDED.agreeableness,
		    neuroticism = EXCLUDED.neuroticism,
		    personality_summary = EXCLUDED.personality_summary,
		    is_profile_complete = EXCLUDED.is_profile_complete,
		    last_updated = EXCLUDED.last_updated,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING ` + selectList(profileColumns)

	p := profile.Personality
	var row profileRow
	err := r.db.GetContext(
		ctx, &row, query,
		profile.UserID, p.Openness, p.Conscientiousness, p.Extraversion, p.Agreeableness, p.Neuroticism,
		profile.PersonalitySummary, profile.IsProfileComplete, profile.LastUpdated,
	)
	if err != nil {
		return err
	}
	*profile = *row.toDomain()
	return nil
}

func (r *profileRepository) UpdateEmbedding(ctx context.Context, userID uuid.UUID, embedding []float64) error {
	if embedding == nil {
		embedding = []float64{}
	}
	query := `UPDATE user_interests SET embedding = $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`
	result, err := r.db.ExecContext(ctx, query, pq.Float64Array(embedding), userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) ListCandidates(ctx context.Context, excludeUserID uuid.UUID, interestsNorm, activitiesNorm []string) ([]*domain.Profile, error) {
	query := `
		SELECT ` + selectList(profileColumns) + `
		FROM user_interests
		WHERE user_id <> $1
		  AND (interests_norm && $2 OR activities_norm && $3)
	`
	var rows []profileRow
	err := r.db.SelectContext(ctx, &rows, query, excludeUserID, textArray(interestsNorm), textArray(activitiesNorm))
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toDomain())
	}
	return profiles, nil
}
