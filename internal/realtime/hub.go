package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

type Event string

const (
	EventMessage     Event = "message"
	EventSendMessage Event = "send_message"
	EventAck         Event = "ack"
	EventError       Event = "error"
)

// OutboundFrame is written to a client as one JSON text frame.
type OutboundFrame struct {
	Event Event  `json:"event"`
	AckID string `json:"ackId,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// InboundFrame is read from a client.
type InboundFrame struct {
	Event Event           `json:"event"`
	AckID string          `json:"ackId,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Ack answers a send_message frame.
type Ack struct {
	OK      bool            `json:"ok"`
	Message *domain.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client is one open channel of a user. A user may hold several.
type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan OutboundFrame
	done     chan struct{}
	once     sync.Once
}

// Send queues a frame without blocking. It reports false when the buffer is
// full or the client is closed.
func (c *Client) Send(frame OutboundFrame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Outbound <- frame:
		return true
	default:
		return false
	}
}

// SendWait queues a frame, waiting for buffer space.
func (c *Client) SendWait(ctx context.Context, frame OutboundFrame) bool {
	select {
	case <-c.done:
		return false
	case <-ctx.Done():
		return false
	case c.Outbound <- frame:
		return true
	}
}

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub tracks the local clients of every user.
type Hub struct {
	mu      sync.RWMutex
	log     *logger.Logger
	metrics *metrics.Metrics
	buffer  int
	clients map[uuid.UUID]map[*Client]struct{}
}

func NewHub(log *logger.Logger, m *metrics.Metrics, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{
		log:     log.With("component", "Hub"),
		metrics: m,
		buffer:  buffer,
		clients: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

func (h *Hub) NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan OutboundFrame, h.buffer),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	h.metrics.RealtimeClients.Inc()

	h.log.Debug("client registered", "client_id", c.ID, "user_id", c.UserID, "user_clients", len(set))
}

// Unregister removes and closes the client. It is safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.close()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	h.metrics.RealtimeClients.Dec()

	h.log.Debug("client unregistered", "client_id", c.ID, "user_id", c.UserID)
}

// Deliver fans a frame out to every local client of userID without blocking
// and returns how many accepted it.
func (h *Hub) Deliver(userID uuid.UUID, frame OutboundFrame) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients[userID] {
		if c.Send(frame) {
			delivered++
			continue
		}
		h.metrics.PushesDropped.Inc()
		h.log.Warn("dropping frame; outbound buffer full", "client_id", c.ID, "user_id", userID)
	}
	return delivered
}

// Online reports whether userID has a client on this instance.
func (h *Hub) Online(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Count returns the number of local clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
