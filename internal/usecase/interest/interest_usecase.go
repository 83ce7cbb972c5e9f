package interest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
)

// Embedder turns profile text into a vector. The vector is stored for a
// future vector-similarity extension and is not used by matching.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Summarizer writes a short personality summary from trait scores.
type Summarizer interface {
	SummarizePersonality(ctx context.Context, p domain.Personality) (string, error)
}

type Config struct {
	DefaultLimit int
	MaxLimit     int
	AITimeout    time.Duration
}

type InterestUseCase struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	embedder    Embedder
	summarizer  Summarizer
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// NewInterestUseCase wires the profile store and matcher. embedder and
// summarizer may be nil.
func NewInterestUseCase(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	embedder Embedder,
	summarizer Summarizer,
	cfg Config,
	log *logger.Logger,
) *InterestUseCase {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 5 * time.Second
	}
	return &InterestUseCase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		embedder:    embedder,
		summarizer:  summarizer,
		cfg:         cfg,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// UpdateInterestsRequest represents the profile edit form
type UpdateInterestsRequest struct {
	Interests  []string `json:"interests"`
	Activities []string `json:"activities"`
	Bio        string   `json:"bio" binding:"max=500"`
}

// UpdatePersonalityRequest represents a personality quiz submission
type UpdatePersonalityRequest struct {
	Personality *domain.Personality `json:"personality"`
	Summary     string              `json:"summary" binding:"max=500"`
}

// UpdateInterests upserts interests, activities and bio for an existing user.
func (uc *InterestUseCase) UpdateInterests(ctx context.Context, userID uuid.UUID, req *UpdateInterestsRequest) (*domain.Profile, error) {
	if utf8.RuneCountInString(req.Bio) > domain.MaxBioLength {
		return nil, fmt.Errorf("%w: bio exceeds %d characters", domain.ErrInvalidInput, domain.MaxBioLength)
	}

	exists, err := uc.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	profile := &domain.Profile{
		UserID:            userID,
		Bio:               req.Bio,
		IsProfileComplete: true,
		LastUpdated:       uc.now(),
	}
	profile.SetTags(req.Interests, req.Activities)

	if err := uc.profileRepo.UpsertInterests(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert interests: %w", err)
	}

	uc.refreshEmbedding(ctx, profile)
	return profile, nil
}

// refreshEmbedding stores a new embedding for the profile. Failures are logged only.
func (uc *InterestUseCase) refreshEmbedding(ctx context.Context, profile *domain.Profile) {
	if uc.embedder == nil || (!profile.HasTags() && profile.Bio == "") {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.AITimeout)
	defer cancel()

	vec, err := uc.embedder.Embed(ctx, embeddingText(profile))
	if err != nil {
		uc.log.Warn("embedding failed", "user_id", profile.UserID, "error", err)
		return
	}
	if err := uc.profileRepo.UpdateEmbedding(ctx, profile.UserID, vec); err != nil {
		uc.log.Warn("store embedding failed", "user_id", profile.UserID, "error", err)
		return
	}
	profile.Embedding = vec
}

func embeddingText(p *domain.Profile) string {
	var sb strings.Builder
	if len(p.Interests) > 0 {
		sb.WriteString("Interests: ")
		sb.WriteString(strings.Join(p.Interests, ", "))
		sb.WriteString(". ")
	}
	if len(p.Activities) > 0 {
		sb.WriteString("Activities: ")
		sb.WriteString(strings.Join(p.Activities, ", "))
		sb.WriteString(". ")
	}
	sb.WriteString(p.Bio)
	return strings.TrimSpace(sb.String())
}

// UpdatePersonality upserts the trait scores and summary. An empty summary is
// generated when a summarizer is available.
func (uc *InterestUseCase) UpdatePersonality(ctx context.Context, userID uuid.UUID, req *UpdatePersonalityRequest) (*domain.Profile, error) {
	if req.Personality == nil {
		return nil, domain.ErrMissingPersonality
	}
	summary := strings.TrimSpace(req.Summary)
	if utf8.RuneCountInString(summary) > domain.MaxSummaryLength {
		return nil, fmt.Errorf("%w: summary exceeds %d characters", domain.ErrInvalidInput, domain.MaxSummaryLength)
	}
	if summary == "" {
		summary = uc.generateSummary(ctx, userID, *req.Personality)
	}

	profile := &domain.Profile{
		UserID:             userID,
		Personality:        *req.Personality,
		PersonalitySummary: summary,
		IsProfileComplete:  true,
		LastUpdated:        uc.now(),
	}
	if err := uc.profileRepo.UpsertPersonality(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert personality: %w", err)
	}
	return profile, nil
}

func (uc *InterestUseCase) generateSummary(ctx context.Context, userID uuid.UUID, p domain.Personality) string {
	if uc.summarizer == nil || p.IsEmpty() {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.AITimeout)
	defer cancel()

	summary, err := uc.summarizer.SummarizePersonality(ctx, p)
	if err != nil {
		uc.log.Warn("personality summary failed", "user_id", userID, "error", err)
		return ""
	}
	return truncateRunes(strings.TrimSpace(summary), domain.MaxSummaryLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// MyProfileResponse is the caller's own profile. Profile is nil until the
// first update.
type MyProfileResponse struct {
	Message           string          `json:"message,omitempty"`
	IsProfileComplete bool            `json:"isProfileComplete"`
	Profile           *domain.Profile `json:"profile"`
}

func (uc *InterestUseCase) GetMine(ctx context.Context, userID uuid.UUID) (*MyProfileResponse, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return &MyProfileResponse{Message: "Profile not yet created"}, nil
		}
		return nil, err
	}
	return &MyProfileResponse{
		IsProfileComplete: profile.IsProfileComplete,
		Profile:           profile,
	}, nil
}

// PublicProfile is a profile joined with the owner's identity.
type PublicProfile struct {
	UserID             uuid.UUID          `json:"userId"`
	UserName           string             `json:"userName"`
	DisplayName        string             `json:"displayName"`
	ProfilePic         *string            `json:"profilePic"`
	Bio                string             `json:"bio"`
	Interests          []string           `json:"interests"`
	Activities         []string           `json:"activities"`
	Personality        domain.Personality `json:"personality"`
	PersonalitySummary string             `json:"personalitySummary"`
	Summary            string             `json:"summary"`
	LastUpdated        time.Time          `json:"lastUpdated"`
}

func (uc *InterestUseCase) GetPublic(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		UserID:             profile.UserID,
		UserName:           user.Username,
		DisplayName:        user.Name,
		ProfilePic:         user.ProfilePic,
		Bio:                profile.Bio,
		Interests:          profile.Interests,
		Activities:         profile.Activities,
		Personality:        profile.Personality,
		PersonalitySummary: profile.PersonalitySummary,
		Summary:            profile.PersonalitySummary,
		LastUpdated:        profile.LastUpdated,
	}, nil
}
