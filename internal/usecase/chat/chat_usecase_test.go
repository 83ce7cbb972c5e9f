package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/repository/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newUseCase(t *testing.T) (*ChatUseCase, *mocks.MockMessageRepository, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	msgs := mocks.NewMockMessageRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	return NewChatUseCase(msgs, users), msgs, users
}

func TestSend_Validation(t *testing.T) {
	uc, _, _ := newUseCase(t)

	_, err := uc.Send(context.Background(), uuid.New(), uuid.New(), "   ")
	require.ErrorIs(t, err, domain.ErrEmptyMessage)

	_, err = uc.Send(context.Background(), uuid.New(), uuid.Nil, "hi")
	require.ErrorIs(t, err, domain.ErrEmptyMessage)

	me := uuid.New()
	_, err = uc.Send(context.Background(), me, me, "note to self")
	require.ErrorIs(t, err, domain.ErrSelfMessage)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSend_TrimsAndStoresUnread(t *testing.T) {
	uc, msgs, _ := newUseCase(t)
	from, to := uuid.New(), uuid.New()

	msgs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m *domain.Message) error {
		require.Equal(t, "hello", m.Text)
		require.False(t, m.Read)
		require.False(t, m.Delivered)
		return nil
	})

	msg, err := uc.Send(context.Background(), from, to, "  hello \n")
	require.NoError(t, err)
	require.Equal(t, from, msg.From)
	require.Equal(t, to, msg.To)
}

func TestSend_StoreError(t *testing.T) {
	uc, msgs, _ := newUseCase(t)
	boom := errors.New("boom")
	msgs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom)

	_, err := uc.Send(context.Background(), uuid.New(), uuid.New(), "x")
	require.ErrorIs(t, err, boom)
}

func TestHistory_MarksPeerMessagesSeen(t *testing.T) {
	uc, msgs, _ := newUseCase(t)
	me, peer := uuid.New(), uuid.New()
	list := []*domain.Message{{ID: uuid.New(), From: peer, To: me, Text: "a"}}

	gomock.InOrder(
		msgs.EXPECT().ListConversation(gomock.Any(), me, peer).Return(list, nil),
		msgs.EXPECT().MarkConversationSeen(gomock.Any(), peer, me).Return(int64(1), nil),
	)

	got, err := uc.History(context.Background(), me, peer)
	require.NoError(t, err)
	require.Equal(t, list, got)
}

func TestUnread_JoinsSenders(t *testing.T) {
	uc, msgs, users := newUseCase(t)
	me, named, handleOnly, ghost := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	pic := "p.png"
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	msgs.EXPECT().ListUnread(gomock.Any(), me, true).Return([]*domain.Message{
		{ID: uuid.New(), From: named, To: me, Text: "3", CreatedAt: at},
		{ID: uuid.New(), From: handleOnly, To: me, Text: "2"},
		{ID: uuid.New(), From: ghost, To: me, Text: "1"},
		{ID: uuid.New(), From: named, To: me, Text: "0"},
	}, nil)
	users.EXPECT().GetByIDs(gomock.Any(), []uuid.UUID{named, handleOnly, ghost}).Return(map[uuid.UUID]*domain.User{
		named:      {ID: named, Name: "Ann", ProfilePic: &pic},
		handleOnly: {ID: handleOnly, Username: "bob"},
	}, nil)

	sum, err := uc.Unread(context.Background(), me)
	require.NoError(t, err)
	require.Equal(t, 4, sum.UnreadCount)
	require.Equal(t, "Ann", sum.Messages[0].SenderName)
	require.Equal(t, &pic, sum.Messages[0].SenderPic)
	require.Equal(t, at, sum.Messages[0].SentAt)
	require.Equal(t, "bob", sum.Messages[1].SenderName)
	require.Equal(t, "Unknown User", sum.Messages[2].SenderName)
	require.Nil(t, sum.Messages[2].SenderPic)
}

func TestMarkDeliveredAndDelete(t *testing.T) {
	uc, msgs, _ := newUseCase(t)
	me, peer := uuid.New(), uuid.New()

	msgs.EXPECT().MarkDeliveredForRecipient(gomock.Any(), me).Return(int64(2), nil)
	n, err := uc.MarkDelivered(context.Background(), me)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	msgs.EXPECT().DeleteConversation(gomock.Any(), me, peer).Return(int64(7), nil)
	n, err = uc.DeleteHistory(context.Background(), me, peer)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
}
