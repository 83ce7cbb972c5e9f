package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/chat"
	"github.com/google/uuid"
)

// Relay persists messages and pushes them to recipients with an open channel.
type Relay struct {
	origin   string
	chat     *chat.ChatUseCase
	hub      *Hub
	presence Presence
	bus      Bus
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewRelay(chatUC *chat.ChatUseCase, hub *Hub, presence Presence, bus Bus, m *metrics.Metrics, log *logger.Logger) *Relay {
	return &Relay{
		origin:   uuid.NewString(),
		chat:     chatUC,
		hub:      hub,
		presence: presence,
		bus:      bus,
		metrics:  m,
		log:      log.With("component", "Relay"),
	}
}

// Start forwards bus envelopes published by other instances to local
// clients until ctx ends.
func (r *Relay) Start(ctx context.Context) error {
	return r.bus.StartForwarder(ctx, func(env Envelope) {
		if env.Origin == r.origin || env.Event != EventMessage || env.Message == nil {
			return
		}
		r.deliver(ctx, env.UserID, env.Message)
	})
}

// deliver pushes msg to the local clients of userID and marks it read when
// at least one of them accepted the frame. A failed update leaves the message
// unread; it will be pushed again on reconnect.
func (r *Relay) deliver(ctx context.Context, userID uuid.UUID, msg *domain.Message) bool {
	pushed := *msg
	n := r.hub.Deliver(userID, OutboundFrame{Event: EventMessage, Data: &pushed})
	if n == 0 {
		return false
	}
	r.metrics.MessagesPushed.Add(float64(n))

	if _, err := r.chat.MarkRead(ctx, []uuid.UUID{msg.ID}); err != nil {
		r.log.Warn("mark pushed message read failed", "message_id", msg.ID, "error", err)
		return false
	}
	return true
}

func (r *Relay) Hub() *Hub { return r.hub }

// Attach registers the client and pushes every unread message addressed to
// its user, oldest first, then marks those messages read.
func (r *Relay) Attach(ctx context.Context, c *Client) {
	r.hub.Register(c)
	if err := r.presence.Connect(ctx, c.UserID); err != nil {
		r.log.Warn("presence connect failed", "user_id", c.UserID, "error", err)
	}

	pending, err := r.chat.PendingDelivery(ctx, c.UserID)
	if err != nil {
		r.log.Error("load pending messages failed", "user_id", c.UserID, "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	pushed := make([]uuid.UUID, 0, len(pending))
	for _, msg := range pending {
		if !c.SendWait(ctx, OutboundFrame{Event: EventMessage, Data: msg}) {
			break
		}
		pushed = append(pushed, msg.ID)
	}
	r.metrics.MessagesPushed.Add(float64(len(pushed)))

	if _, err := r.chat.MarkRead(ctx, pushed); err != nil {
		r.log.Warn("mark pushed messages read failed", "user_id", c.UserID, "count", len(pushed), "error", err)
	}
}

// Detach unregisters the client.
func (r *Relay) Detach(ctx context.Context, c *Client) {
	r.hub.Unregister(c)
	if err := r.presence.Disconnect(ctx, c.UserID); err != nil {
		r.log.Warn("presence disconnect failed", "user_id", c.UserID, "error", err)
	}
}

// Refresh keeps the client's user marked online.
func (r *Relay) Refresh(ctx context.Context, c *Client) {
	if err := r.presence.Refresh(ctx, c.UserID); err != nil {
		r.log.Debug("presence refresh failed", "user_id", c.UserID, "error", err)
	}
}

// Send persists a message and pushes it when the recipient is online. The
// sender never receives the push.
func (r *Relay) Send(ctx context.Context, from uuid.UUID, req chat.SendRequest) (*domain.Message, error) {
	to, err := parseRecipient(req.To)
	if err != nil {
		return nil, err
	}

	msg, err := r.chat.Send(ctx, from, to, req.Text)
	if err != nil {
		return nil, err
	}
	r.metrics.MessagesPersisted.Inc()
	stored := *msg

	if r.hub.Online(to) && r.deliver(ctx, to, msg) {
		msg.Read = true
	}

	online, err := r.presence.IsOnline(ctx, to)
	if err != nil {
		r.log.Warn("presence lookup failed", "user_id", to, "error", err)
		return msg, nil
	}
	if !online {
		return msg, nil
	}

	// Other instances may hold clients of the same user.
	if err := r.bus.Publish(ctx, Envelope{Origin: r.origin, UserID: to, Event: EventMessage, Message: &stored}); err != nil {
		r.log.Warn("publish message failed", "message_id", msg.ID, "error", err)
	}
	return msg, nil
}

func parseRecipient(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, domain.ErrEmptyMessage
	}
	return domain.ParseID(raw)
}

// HandleFrame processes one frame read from the client.
func (r *Relay) HandleFrame(ctx context.Context, c *Client, raw []byte) {
	var in InboundFrame
	if err := json.Unmarshal(raw, &in); err != nil {
		c.Send(OutboundFrame{Event: EventError, Data: Ack{Error: "malformed frame"}})
		return
	}

	switch in.Event {
	case EventSendMessage:
		var req chat.SendRequest
		if err := json.Unmarshal(in.Data, &req); err != nil {
			c.Send(ackFrame(in.AckID, nil, domain.ErrEmptyMessage))
			return
		}
		msg, err := r.Send(ctx, c.UserID, req)
		if err != nil && !isClientError(err) {
			r.log.Error("realtime send failed", "user_id", c.UserID, "error", err)
		}
		if !c.SendWait(ctx, ackFrame(in.AckID, msg, err)) {
			r.log.Debug("ack not delivered", "client_id", c.ID)
		}
	default:
		c.Send(OutboundFrame{Event: EventError, AckID: in.AckID, Data: Ack{Error: fmt.Sprintf("unknown event %q", in.Event)}})
	}
}

func ackFrame(ackID string, msg *domain.Message, err error) OutboundFrame {
	if err != nil {
		return OutboundFrame{Event: EventAck, AckID: ackID, Data: Ack{OK: false, Error: err.Error()}}
	}
	return OutboundFrame{Event: EventAck, AckID: ackID, Data: Ack{OK: true, Message: msg}}
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrEmptyMessage) ||
		errors.Is(err, domain.ErrInvalidUserID) ||
		errors.Is(err, domain.ErrInvalidInput)
}
