package interest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/repository/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec   []float64
	err   error
	calls int
	text  string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls++
	f.text = text
	return f.vec, f.err
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) SummarizePersonality(_ context.Context, _ domain.Personality) (string, error) {
	f.calls++
	return f.summary, f.err
}

type fixture struct {
	uc       *InterestUseCase
	profiles *mocks.MockProfileRepository
	users    *mocks.MockUserRepository
}

func newFixture(t *testing.T, embedder Embedder, summarizer Summarizer) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockProfileRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	uc := NewInterestUseCase(profiles, users, embedder, summarizer, Config{DefaultLimit: 20, MaxLimit: 100}, logger.Nop())
	uc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{uc: uc, profiles: profiles, users: users}
}

func ptr(f float64) *float64 { return &f }

func TestUpdateInterests_UserMissing(t *testing.T) {
	f := newFixture(t, nil, nil)
	id := uuid.New()

	f.users.EXPECT().Exists(gomock.Any(), id).Return(false, nil)

	_, err := f.uc.UpdateInterests(context.Background(), id, &UpdateInterestsRequest{Interests: []string{"x"}})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateInterests_CleansTagsAndStoresEmbedding(t *testing.T) {
	emb := &fakeEmbedder{vec: []float64{0.1, 0.2}}
	f := newFixture(t, emb, nil)
	id := uuid.New()

	f.users.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
	f.profiles.EXPECT().UpsertInterests(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Profile) error {
			require.Equal(t, id, p.UserID)
			require.Equal(t, []string{"Music", "music", "Hiking"}, p.Interests)
			require.Equal(t, []string{"music", "hiking"}, p.InterestsNorm)
			require.Equal(t, []string{}, p.Activities)
			require.Equal(t, []string{}, p.ActivitiesNorm)
			require.True(t, p.IsProfileComplete)
			require.Equal(t, f.uc.now(), p.LastUpdated)
			return nil
		})
	f.profiles.EXPECT().UpdateEmbedding(gomock.Any(), id, []float64{0.1, 0.2}).Return(nil)

	p, err := f.uc.UpdateInterests(context.Background(), id, &UpdateInterestsRequest{
		Interests: []string{" Music ", "music", "", "Hiking"},
		Bio:       "hi",
	})
	require.NoError(t, err)
	require.Equal(t, []float64{0.1, 0.2}, p.Embedding)
	require.Equal(t, 1, emb.calls)
	require.Contains(t, emb.text, "Music, music, Hiking")
}

func TestUpdateInterests_EmbeddingFailureIsIgnored(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("quota")}
	f := newFixture(t, emb, nil)
	id := uuid.New()

	f.users.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
	f.profiles.EXPECT().UpsertInterests(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.uc.UpdateInterests(context.Background(), id, &UpdateInterestsRequest{Interests: []string{"x"}})
	require.NoError(t, err)
	require.Equal(t, 1, emb.calls)
}

func TestUpdateInterests_BioTooLong(t *testing.T) {
	f := newFixture(t, nil, nil)
	long := make([]rune, domain.MaxBioLength+1)
	for i := range long {
		long[i] = 'ж'
	}

	_, err := f.uc.UpdateInterests(context.Background(), uuid.New(), &UpdateInterestsRequest{Bio: string(long)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateInterests_StoreError(t *testing.T) {
	f := newFixture(t, nil, nil)
	id := uuid.New()
	boom := errors.New("boom")

	f.users.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
	f.profiles.EXPECT().UpsertInterests(gomock.Any(), gomock.Any()).Return(boom)

	_, err := f.uc.UpdateInterests(context.Background(), id, &UpdateInterestsRequest{})
	require.ErrorIs(t, err, boom)
}

func TestUpdatePersonality_Missing(t *testing.T) {
	f := newFixture(t, nil, nil)
	_, err := f.uc.UpdatePersonality(context.Background(), uuid.New(), &UpdatePersonalityRequest{})
	require.ErrorIs(t, err, domain.ErrMissingPersonality)
}

func TestUpdatePersonality_GeneratesSummaryWhenEmpty(t *testing.T) {
	sum := &fakeSummarizer{summary: "  Curious and calm.  "}
	f := newFixture(t, nil, sum)
	id := uuid.New()

	f.profiles.EXPECT().UpsertPersonality(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Profile) error {
			require.Equal(t, "Curious and calm.", p.PersonalitySummary)
			require.Equal(t, 0.7, *p.Personality.Openness)
			require.Nil(t, p.Personality.Neuroticism)
			require.True(t, p.IsProfileComplete)
			return nil
		})

	_, err := f.uc.UpdatePersonality(context.Background(), id, &UpdatePersonalityRequest{
		Personality: &domain.Personality{Openness: ptr(0.7)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, sum.calls)
}

func TestUpdatePersonality_KeepsProvidedSummary(t *testing.T) {
	sum := &fakeSummarizer{summary: "generated"}
	f := newFixture(t, nil, sum)

	f.profiles.EXPECT().UpsertPersonality(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Profile) error {
			require.Equal(t, "mine", p.PersonalitySummary)
			return nil
		})

	_, err := f.uc.UpdatePersonality(context.Background(), uuid.New(), &UpdatePersonalityRequest{
		Personality: &domain.Personality{Extraversion: ptr(0.1)},
		Summary:     "mine",
	})
	require.NoError(t, err)
	require.Zero(t, sum.calls)
}

func TestUpdatePersonality_SummarizerFailureLeavesEmpty(t *testing.T) {
	sum := &fakeSummarizer{err: errors.New("unavailable")}
	f := newFixture(t, nil, sum)

	f.profiles.EXPECT().UpsertPersonality(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Profile) error {
			require.Empty(t, p.PersonalitySummary)
			return nil
		})

	_, err := f.uc.UpdatePersonality(context.Background(), uuid.New(), &UpdatePersonalityRequest{
		Personality: &domain.Personality{Agreeableness: ptr(0.5)},
	})
	require.NoError(t, err)
}

func TestGetMine(t *testing.T) {
	f := newFixture(t, nil, nil)
	id := uuid.New()

	f.profiles.EXPECT().GetByUserID(gomock.Any(), id).Return(nil, domain.ErrProfileNotFound)
	resp, err := f.uc.GetMine(context.Background(), id)
	require.NoError(t, err)
	require.False(t, resp.IsProfileComplete)
	require.Nil(t, resp.Profile)
	require.Equal(t, "Profile not yet created", resp.Message)

	f.profiles.EXPECT().GetByUserID(gomock.Any(), id).Return(&domain.Profile{UserID: id, IsProfileComplete: true}, nil)
	resp, err = f.uc.GetMine(context.Background(), id)
	require.NoError(t, err)
	require.True(t, resp.IsProfileComplete)
	require.Equal(t, id, resp.Profile.UserID)
}

func TestGetPublic(t *testing.T) {
	f := newFixture(t, nil, nil)
	id := uuid.New()
	pic := "https://cdn/pic.png"

	f.profiles.EXPECT().GetByUserID(gomock.Any(), id).Return(&domain.Profile{
		UserID:             id,
		Interests:          []string{"Chess"},
		PersonalitySummary: "calm",
	}, nil)
	f.users.EXPECT().GetByID(gomock.Any(), id).Return(&domain.User{ID: id, Name: "Ann", Username: "ann", ProfilePic: &pic}, nil)

	p, err := f.uc.GetPublic(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Ann", p.DisplayName)
	require.Equal(t, "ann", p.UserName)
	require.Equal(t, "calm", p.Summary)
	require.Equal(t, "calm", p.PersonalitySummary)
	require.Equal(t, []string{"Chess"}, p.Interests)
}

func TestGetPublic_MissingIdentity(t *testing.T) {
	f := newFixture(t, nil, nil)
	id := uuid.New()

	f.profiles.EXPECT().GetByUserID(gomock.Any(), id).Return(&domain.Profile{UserID: id}, nil)
	f.users.EXPECT().GetByID(gomock.Any(), id).Return(nil, domain.ErrUserNotFound)

	_, err := f.uc.GetPublic(context.Background(), id)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
