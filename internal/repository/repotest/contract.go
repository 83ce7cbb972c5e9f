// Package repotest holds the behaviour every store backend must share. It is
// run by the integration tests of each backend.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Repositories struct {
	Users       repository.UserRepository
	Profiles    repository.ProfileRepository
	Connections repository.ConnectionRepository
	Messages    repository.MessageRepository
}

// SeedUser writes an identity record directly; the repositories only read users.
type SeedUser func(t *testing.T, u *domain.User)

func Run(t *testing.T, repos Repositories, seed SeedUser) {
	ann := &domain.User{ID: uuid.New(), Name: "Ann", Username: "ann"}
	bob := &domain.User{ID: uuid.New(), Name: "Bob", Username: "bob"}
	cy := &domain.User{ID: uuid.New(), Username: "cy"}
	for _, u := range []*domain.User{ann, bob, cy} {
		seed(t, u)
	}

	t.Run("users", func(t *testing.T) { users(t, repos, ann, bob) })
	t.Run("profiles", func(t *testing.T) { profiles(t, repos, ann, bob, cy) })
	t.Run("connections", func(t *testing.T) { connections(t, repos, ann, bob) })
	t.Run("messages", func(t *testing.T) { messages(t, repos, ann, bob) })
}

func users(t *testing.T, repos Repositories, ann, bob *domain.User) {
	ctx := context.Background()

	got, err := repos.Users.GetByID(ctx, ann.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann", got.Name)
	require.Equal(t, "ann", got.Username)

	_, err = repos.Users.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	found, err := repos.Users.GetByIDs(ctx, []uuid.UUID{ann.ID, bob.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "Bob", found[bob.ID].Name)

	ok, err := repos.Users.Exists(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repos.Users.Exists(ctx, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
}

func profiles(t *testing.T, repos Repositories, ann, bob, cy *domain.User) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	_, err := repos.Profiles.GetByUserID(ctx, ann.ID)
	require.ErrorIs(t, err, domain.ErrProfileNotFound)

	p := &domain.Profile{UserID: ann.ID, Bio: "hello", IsProfileComplete: true, LastUpdated: now}
	p.SetTags([]string{"Chess", "Hiking"}, []string{"Running"})
	require.NoError(t, repos.Profiles.UpsertInterests(ctx, p))

	openness := 71.0
	pers := &domain.Profile{
		UserID:             ann.ID,
		Personality:        domain.Personality{Openness: &openness},
		PersonalitySummary: "curious",
		IsProfileComplete:  true,
		LastUpdated:        now,
	}
	require.NoError(t, repos.Profiles.UpsertPersonality(ctx, pers))

	got, err := repos.Profiles.GetByUserID(ctx, ann.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Chess", "Hiking"}, got.Interests, "personality upsert keeps interests")
	require.Equal(t, []string{"chess", "hiking"}, got.InterestsNorm)
	require.Equal(t, "hello", got.Bio)
	require.NotNil(t, got.Personality.Openness)
	require.InDelta(t, 71.0, *got.Personality.Openness, 1e-9)
	require.Equal(t, "curious", got.PersonalitySummary)
	require.True(t, got.IsProfileComplete)

	p2 := &domain.Profile{UserID: ann.ID, IsProfileComplete: true, LastUpdated: now}
	p2.SetTags([]string{"Chess"}, nil)
	require.NoError(t, repos.Profiles.UpsertInterests(ctx, p2))
	got, err = repos.Profiles.GetByUserID(ctx, ann.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Chess"}, got.Interests)
	require.Equal(t, []string{}, got.Activities)
	require.NotNil(t, got.Personality.Openness, "interests upsert keeps personality")

	require.NoError(t, repos.Profiles.UpdateEmbedding(ctx, ann.ID, []float64{0.25, -0.5}))
	got, err = repos.Profiles.GetByUserID(ctx, ann.ID)
	require.NoError(t, err)
	require.Equal(t, []float64{0.25, -0.5}, got.Embedding)
	require.ErrorIs(t, repos.Profiles.UpdateEmbedding(ctx, uuid.New(), nil), domain.ErrProfileNotFound)

	bp := &domain.Profile{UserID: bob.ID, IsProfileComplete: true, LastUpdated: now}
	bp.SetTags([]string{"chess", "Poker"}, nil)
	require.NoError(t, repos.Profiles.UpsertInterests(ctx, bp))
	cp := &domain.Profile{UserID: cy.ID, IsProfileComplete: true, LastUpdated: now}
	cp.SetTags([]string{"Painting"}, []string{"yoga"})
	require.NoError(t, repos.Profiles.UpsertInterests(ctx, cp))

	candidates, err := repos.Profiles.ListCandidates(ctx, ann.ID, []string{"chess"}, []string{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, bob.ID, candidates[0].UserID)

	candidates, err = repos.Profiles.ListCandidates(ctx, ann.ID, []string{"chess"}, []string{"yoga"})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
}

func connections(t *testing.T, repos Repositories, ann, bob *domain.User) {
	ctx := context.Background()

	conn := &domain.Connection{ID: uuid.New(), RequesterID: ann.ID, ReceiverID: bob.ID, Status: domain.ConnectionStatusPending}
	require.NoError(t, repos.Connections.Create(ctx, conn))

	reverse := &domain.Connection{ID: uuid.New(), RequesterID: bob.ID, ReceiverID: ann.ID, Status: domain.ConnectionStatusPending}
	require.ErrorIs(t, repos.Connections.Create(ctx, reverse), domain.ErrConnectionExists)

	got, err := repos.Connections.GetByPair(ctx, bob.ID, ann.ID)
	require.NoError(t, err)
	require.Equal(t, conn.ID, got.ID)
	require.Equal(t, ann.ID, got.RequesterID)

	_, err = repos.Connections.GetByPair(ctx, ann.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrConnectionNotFound)

	received, err := repos.Connections.ListByReceiver(ctx, bob.ID, domain.ConnectionStatusPending)
	require.NoError(t, err)
	require.Len(t, received, 1)
	sent, err := repos.Connections.ListByRequester(ctx, ann.ID, domain.ConnectionStatusPending)
	require.NoError(t, err)
	require.Len(t, sent, 1)

	accepted := *got
	accepted.Status = domain.ConnectionStatusAccepted
	require.ErrorIs(t,
		repos.Connections.TransitionStatus(ctx, &accepted, domain.ConnectionStatusRejected),
		domain.ErrConnectionNotFound,
		"transition must be guarded by the current status")
	require.NoError(t, repos.Connections.TransitionStatus(ctx, &accepted, domain.ConnectionStatusPending))

	byUser, err := repos.Connections.ListByUser(ctx, bob.ID, domain.ConnectionStatusAccepted)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	require.Equal(t, domain.ConnectionStatusAccepted, byUser[0].Status)

	pending, err := repos.Connections.ListByReceiver(ctx, bob.ID, domain.ConnectionStatusPending)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.NoError(t, repos.Connections.Delete(ctx, conn.ID))
	_, err = repos.Connections.GetByID(ctx, conn.ID)
	require.ErrorIs(t, err, domain.ErrConnectionNotFound)
	require.ErrorIs(t, repos.Connections.Delete(ctx, conn.ID), domain.ErrConnectionNotFound)

	// the pair is free again after removal
	require.NoError(t, repos.Connections.Create(ctx, reverse))
}

func messages(t *testing.T, repos Repositories, ann, bob *domain.User) {
	ctx := context.Background()

	send := func(from, to uuid.UUID, text string) *domain.Message {
		m := &domain.Message{ID: uuid.New(), From: from, To: to, Text: text}
		require.NoError(t, repos.Messages.Create(ctx, m))
		require.False(t, m.CreatedAt.IsZero())
		return m
	}
	m1 := send(ann.ID, bob.ID, "one")
	send(ann.ID, bob.ID, "two")
	send(bob.ID, ann.ID, "three")

	texts := func(ms []*domain.Message) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Text)
		}
		return out
	}

	conv, err := repos.Messages.ListConversation(ctx, bob.ID, ann.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "three"}, texts(conv))

	unread, err := repos.Messages.ListUnread(ctx, bob.ID, false)
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, texts(unread))
	unread, err = repos.Messages.ListUnread(ctx, bob.ID, true)
	require.NoError(t, err)
	require.Equal(t, []string{"two", "one"}, texts(unread))

	n, err := repos.Messages.MarkRead(ctx, []uuid.UUID{m1.ID})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = repos.Messages.MarkRead(ctx, []uuid.UUID{m1.ID})
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	n, err = repos.Messages.MarkConversationSeen(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	n, err = repos.Messages.MarkConversationSeen(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, n, "seen marking is idempotent")

	n, err = repos.Messages.MarkDeliveredForRecipient(ctx, ann.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	unread, err = repos.Messages.ListUnread(ctx, ann.ID, false)
	require.NoError(t, err)
	require.Equal(t, []string{"three"}, texts(unread), "delivered does not imply read")
	require.True(t, unread[0].Delivered)

	n, err = repos.Messages.DeleteConversation(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
	conv, err = repos.Messages.ListConversation(ctx, ann.ID, bob.ID)
	require.NoError(t, err)
	require.Empty(t, conv)
}
