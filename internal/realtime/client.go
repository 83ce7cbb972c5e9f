package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type ConnConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

func (c ConnConfig) withDefaults() ConnConfig {
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 64 * 1024
	}
	return c
}

// Serve runs an upgraded websocket for userID until either side closes it.
func (r *Relay) Serve(ctx context.Context, ws *websocket.Conn, userID uuid.UUID, cfg ConnConfig) {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := r.hub.NewClient(userID)
	log := r.log.With("client_id", c.ID, "user_id", userID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		r.writePump(ctx, ws, c, cfg)
	}()

	r.Attach(ctx, c)
	log.Info("realtime client connected")

	r.readPump(ctx, ws, c, cfg)

	cancel()
	// detach with a fresh context so presence is released after a client hangup
	detachCtx, detachCancel := context.WithTimeout(context.Background(), cfg.WriteWait)
	r.Detach(detachCtx, c)
	detachCancel()
	<-writerDone
	_ = ws.Close()
	log.Info("realtime client disconnected")
}

func (r *Relay) readPump(ctx context.Context, ws *websocket.Conn, c *Client, cfg ConnConfig) {
	ws.SetReadLimit(cfg.MaxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		r.Refresh(ctx, c)
		return ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.log.Debug("realtime read error", "client_id", c.ID, "error", err)
			}
			return
		}
		r.HandleFrame(ctx, c, raw)
	}
}

func (r *Relay) writePump(ctx context.Context, ws *websocket.Conn, c *Client, cfg ConnConfig) {
	ticker := time.NewTicker(cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(cfg.WriteWait),
			)
			return
		case <-c.Done():
			return
		case frame := <-c.Outbound:
			raw, err := json.Marshal(frame)
			if err != nil {
				r.log.Warn("marshal frame failed", "client_id", c.ID, "error", err)
				continue
			}
			_ = ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := ws.WriteMessage(websocket.TextMessage, raw); err != nil {
				r.log.Debug("realtime write failed", "client_id", c.ID, "error", err)
				_ = ws.Close()
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = ws.Close()
				return
			}
		}
	}
}
