package interest

import (
	"context"
	"sort"
	"testing"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func profileWith(id uuid.UUID, interests, activities []string) *domain.Profile {
	p := &domain.Profile{UserID: id}
	p.SetTags(interests, activities)
	return p
}

func identities(ids ...uuid.UUID) map[uuid.UUID]*domain.User {
	out := make(map[uuid.UUID]*domain.User, len(ids))
	for _, id := range ids {
		out[id] = &domain.User{ID: id, Name: "user-" + id.String()[:4], Username: "u"}
	}
	return out
}

func TestParseMatchQuery(t *testing.T) {
	f := newFixture(t, nil, nil)

	cases := []struct {
		limit, min string
		want       MatchQuery
	}{
		{"", "", MatchQuery{Limit: 20}},
		{"10", "0.5", MatchQuery{Limit: 10, MinSimilarity: 0.5}},
		{"-3", "2", MatchQuery{Limit: 20}},
		{"abc", "x", MatchQuery{Limit: 20}},
		{"5000", "1", MatchQuery{Limit: 100, MinSimilarity: 1}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, f.uc.ParseMatchQuery(c.limit, c.min), "limit=%q min=%q", c.limit, c.min)
	}
}

func TestFindMatches_ProfileMissing(t *testing.T) {
	f := newFixture(t, nil, nil)
	id := uuid.New()

	f.profiles.EXPECT().GetByUserID(gomock.Any(), id).Return(nil, domain.ErrProfileNotFound)

	_, err := f.uc.FindMatches(context.Background(), id, MatchQuery{Limit: 20})
	require.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestFindMatches_NoTags(t *testing.T) {
	f := newFixture(t, nil, nil)
	id := uuid.New()

	f.profiles.EXPECT().GetByUserID(gomock.Any(), id).Return(profileWith(id, nil, nil), nil)

	resp, err := f.uc.FindMatches(context.Background(), id, MatchQuery{Limit: 20})
	require.NoError(t, err)
	require.Empty(t, resp.Users)
	require.NotEmpty(t, resp.Message)
}

func TestFindMatches_ScoresAndBuckets(t *testing.T) {
	f := newFixture(t, nil, nil)
	a, b := uuid.New(), uuid.New()

	me := profileWith(a, []string{"x", "Y"}, nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), a).Return(me, nil)
	f.profiles.EXPECT().ListCandidates(gomock.Any(), a, []string{"x", "y"}, []string{}).
		Return([]*domain.Profile{profileWith(b, []string{"X"}, nil)}, nil)
	f.users.EXPECT().GetByIDs(gomock.Any(), []uuid.UUID{b}).Return(identities(b), nil)

	resp, err := f.uc.FindMatches(context.Background(), a, MatchQuery{Limit: 20})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)

	got := resp.Users[0]
	require.Equal(t, b, got.UserID)
	require.Equal(t, 0.30, got.SimilarityScore)
	require.Equal(t, domain.SimilarityLow, got.SimilarityCategory)
	require.Equal(t, 1, got.MatchDetails.MatchingInterests)
	require.Equal(t, 0, got.MatchDetails.MatchingActivities)
	require.Equal(t, 1, got.MatchDetails.TotalInterests)
	require.Equal(t, 1, resp.Metadata.TotalMatches)
	require.Equal(t, 2, resp.Metadata.UserInterests)
	require.Equal(t, 0, resp.Metadata.UserActivities)
	require.Equal(t, "Found 1 users with similar interests", resp.Message)
}

func TestFindMatches_FilterSortTruncate(t *testing.T) {
	f := newFixture(t, nil, nil)
	me := uuid.New()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	exact1, exact2, half, low := ids[3], ids[0], ids[1], ids[2]

	candidates := []*domain.Profile{
		profileWith(low, []string{"a", "x", "y", "z"}, nil),
		profileWith(exact1, []string{"a", "b"}, []string{"run"}),
		profileWith(half, []string{"a"}, []string{"run"}),
		profileWith(exact2, []string{"B", "a"}, []string{"Run"}),
	}

	f.profiles.EXPECT().GetByUserID(gomock.Any(), me).Return(profileWith(me, []string{"a", "b"}, []string{"run"}), nil)
	f.profiles.EXPECT().ListCandidates(gomock.Any(), me, gomock.Any(), gomock.Any()).Return(candidates, nil)
	f.users.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return(identities(exact1, exact2, half, low), nil)

	resp, err := f.uc.FindMatches(context.Background(), me, MatchQuery{Limit: 2, MinSimilarity: 0.5})
	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	require.Equal(t, 3, resp.Metadata.TotalMatches)

	// equal scores are ordered by user id
	require.Equal(t, exact2, resp.Users[0].UserID)
	require.Equal(t, exact1, resp.Users[1].UserID)
	for _, u := range resp.Users {
		require.Equal(t, 1.0, u.SimilarityScore)
		require.Equal(t, domain.SimilarityVeryHigh, u.SimilarityCategory)
	}
}

func TestFindMatches_DropsCandidatesWithoutIdentity(t *testing.T) {
	f := newFixture(t, nil, nil)
	me, ghost, found := uuid.New(), uuid.New(), uuid.New()

	f.profiles.EXPECT().GetByUserID(gomock.Any(), me).Return(profileWith(me, []string{"a"}, nil), nil)
	f.profiles.EXPECT().ListCandidates(gomock.Any(), me, gomock.Any(), gomock.Any()).Return([]*domain.Profile{
		profileWith(ghost, []string{"a"}, nil),
		profileWith(found, []string{"a", "b"}, nil),
	}, nil)
	f.users.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return(identities(found), nil)

	resp, err := f.uc.FindMatches(context.Background(), me, MatchQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	require.Equal(t, found, resp.Users[0].UserID)
	require.Equal(t, 0.3, resp.Users[0].SimilarityScore)
}

func TestFindMatches_NoResults(t *testing.T) {
	f := newFixture(t, nil, nil)
	me := uuid.New()

	f.profiles.EXPECT().GetByUserID(gomock.Any(), me).
		Return(profileWith(me, []string{"a", "A", "b"}, []string{"run"}), nil)
	f.profiles.EXPECT().ListCandidates(gomock.Any(), me, gomock.Any(), gomock.Any()).Return(nil, nil)
	f.users.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return(map[uuid.UUID]*domain.User{}, nil)

	resp, err := f.uc.FindMatches(context.Background(), me, MatchQuery{Limit: 20})
	require.NoError(t, err)
	require.Empty(t, resp.Users)
	require.Equal(t, "No matching users found", resp.Message)
	require.Equal(t, 0, resp.Metadata.TotalMatches)
	require.Equal(t, 2, resp.Metadata.UserInterests)
	require.Equal(t, 1, resp.Metadata.UserActivities)
}
