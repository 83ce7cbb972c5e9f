package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestServe_EndToEnd(t *testing.T) {
	f := newRelayFixture(t)
	user, peer := uuid.New(), uuid.New()
	waiting := &domain.Message{ID: uuid.New(), From: peer, To: user, Text: "while you were away"}

	f.msgs.EXPECT().ListUnread(gomock.Any(), user, false).Return([]*domain.Message{waiting}, nil)
	f.msgs.EXPECT().MarkRead(gomock.Any(), []uuid.UUID{waiting.ID}).Return(int64(1), nil)
	f.msgs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	upgrader := websocket.Upgrader{}
	served := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		f.relay.Serve(context.Background(), ws, user, ConnConfig{PongWait: 5 * time.Second})
		close(served)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var pushed struct {
		Event Event          `json:"event"`
		Data  domain.Message `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&pushed))
	require.Equal(t, EventMessage, pushed.Event)
	require.Equal(t, waiting.ID, pushed.Data.ID)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"event": "send_message",
		"ackId": "x1",
		"data":  map[string]string{"to": peer.String(), "text": "hi"},
	}))

	var ack struct {
		Event Event  `json:"event"`
		AckID string `json:"ackId"`
		Data  Ack    `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, EventAck, ack.Event)
	require.Equal(t, "x1", ack.AckID)
	require.True(t, ack.Data.OK)
	require.Equal(t, "hi", ack.Data.Message.Text)
	require.Equal(t, user, ack.Data.Message.From)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	_ = conn.Close()

	select {
	case <-served:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not finish")
	}
	require.False(t, f.hub.Online(user))
}
