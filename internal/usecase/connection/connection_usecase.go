package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	"github.com/google/uuid"
)

type ConnectionUseCase struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
	msgRepo  repository.MessageRepository
	log      *logger.Logger
}

func NewConnectionUseCase(
	connRepo repository.ConnectionRepository,
	userRepo repository.UserRepository,
	msgRepo repository.MessageRepository,
	log *logger.Logger,
) *ConnectionUseCase {
	return &ConnectionUseCase{
		connRepo: connRepo,
		userRepo: userRepo,
		msgRepo:  msgRepo,
		log:      log,
	}
}

// RequestRequest represents a new connection request
type RequestRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
}

// RespondRequest represents the receiver's answer
type RespondRequest struct {
	ConnectionID string                  `json:"connectionId" binding:"required"`
	Action       domain.ConnectionAction `json:"action" binding:"required"`
}

// Request opens a pending request from requester to receiver. created is
// false when a previously rejected record was reopened.
func (uc *ConnectionUseCase) Request(ctx context.Context, requesterID, receiverID uuid.UUID) (conn *domain.Connection, created bool, err error) {
	if requesterID == receiverID {
		return nil, false, domain.ErrSelfRequest
	}

	exists, err := uc.userRepo.Exists(ctx, receiverID)
	if err != nil {
		return nil, false, fmt.Errorf("check receiver: %w", err)
	}
	if !exists {
		return nil, false, domain.ErrReceiverNotFound
	}

	existing, err := uc.connRepo.GetByPair(ctx, requesterID, receiverID)
	switch {
	case err == nil:
		conn, err = uc.resolveExisting(ctx, existing, requesterID, receiverID, true)
		return conn, false, err
	case !errors.Is(err, domain.ErrConnectionNotFound):
		return nil, false, fmt.Errorf("find connection: %w", err)
	}

	conn = &domain.Connection{
		ID:          uuid.New(),
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      domain.ConnectionStatusPending,
	}
	err = uc.connRepo.Create(ctx, conn)
	if err == nil {
		return conn, true, nil
	}
	if !errors.Is(err, domain.ErrConnectionExists) {
		return nil, false, fmt.Errorf("create connection: %w", err)
	}

	// A concurrent request for the same pair won the insert.
	existing, err = uc.connRepo.GetByPair(ctx, requesterID, receiverID)
	if err != nil {
		return nil, false, fmt.Errorf("find connection: %w", err)
	}
	conn, err = uc.resolveExisting(ctx, existing, requesterID, receiverID, true)
	return conn, false, err
}

// resolveExisting applies a request to the pair's record. Only a rejected
// record changes: it is reopened in the new direction.
func (uc *ConnectionUseCase) resolveExisting(ctx context.Context, existing *domain.Connection, requesterID, receiverID uuid.UUID, retry bool) (*domain.Connection, error) {
	switch existing.Status {
	case domain.ConnectionStatusPending:
		if existing.RequesterID == receiverID {
			return nil, &domain.PendingRequestError{ConnectionID: existing.ID}
		}
		return nil, domain.ErrDuplicateRequest
	case domain.ConnectionStatusAccepted:
		return nil, domain.ErrAlreadyConnected
	}

	reopened := *existing
	reopened.RequesterID = requesterID
	reopened.ReceiverID = receiverID
	reopened.Status = domain.ConnectionStatusPending

	err := uc.connRepo.TransitionStatus(ctx, &reopened, domain.ConnectionStatusRejected)
	if err == nil {
		return &reopened, nil
	}
	if !errors.Is(err, domain.ErrConnectionNotFound) || !retry {
		return nil, fmt.Errorf("reopen connection: %w", err)
	}

	// The record changed underneath us; classify its current state once more.
	current, err := uc.connRepo.GetByPair(ctx, requesterID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("find connection: %w", err)
	}
	return uc.resolveExisting(ctx, current, requesterID, receiverID, false)
}

// Respond lets the receiver accept or reject a pending request.
func (uc *ConnectionUseCase) Respond(ctx context.Context, userID, connectionID uuid.UUID, action domain.ConnectionAction) (*domain.Connection, error) {
	target, err := action.TargetStatus()
	if err != nil {
		return nil, err
	}

	conn, err := uc.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.ReceiverID != userID {
		return nil, domain.ErrNotAuthorized
	}
	if conn.Status != domain.ConnectionStatusPending {
		return nil, domain.ErrRequestNotPending
	}

	conn.Status = target
	if err := uc.connRepo.TransitionStatus(ctx, conn, domain.ConnectionStatusPending); err != nil {
		if errors.Is(err, domain.ErrConnectionNotFound) {
			return nil, domain.ErrRequestNotPending
		}
		return nil, fmt.Errorf("update connection: %w", err)
	}
	return conn, nil
}

// ConnectionView is a connection with the other party's identity attached.
type ConnectionView struct {
	*domain.Connection
	User *domain.UserSummary `json:"user"`
}

// ListReceived returns pending requests addressed to userID.
func (uc *ConnectionUseCase) ListReceived(ctx context.Context, userID uuid.UUID) ([]ConnectionView, error) {
	conns, err := uc.connRepo.ListByReceiver(ctx, userID, domain.ConnectionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list received requests: %w", err)
	}
	return uc.withOtherParty(ctx, userID, conns)
}

// ListSent returns pending requests sent by userID.
func (uc *ConnectionUseCase) ListSent(ctx context.Context, userID uuid.UUID) ([]ConnectionView, error) {
	conns, err := uc.connRepo.ListByRequester(ctx, userID, domain.ConnectionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list sent requests: %w", err)
	}
	return uc.withOtherParty(ctx, userID, conns)
}

func (uc *ConnectionUseCase) withOtherParty(ctx context.Context, userID uuid.UUID, conns []*domain.Connection) ([]ConnectionView, error) {
	users, err := uc.loadOthers(ctx, userID, conns)
	if err != nil {
		return nil, err
	}
	views := make([]ConnectionView, 0, len(conns))
	for _, c := range conns {
		other, _ := c.GetOtherUserID(userID)
		views = append(views, ConnectionView{Connection: c, User: users[other].Summary()})
	}
	return views, nil
}

func (uc *ConnectionUseCase) loadOthers(ctx context.Context, userID uuid.UUID, conns []*domain.Connection) (map[uuid.UUID]*domain.User, error) {
	ids := make([]uuid.UUID, 0, len(conns))
	for _, c := range conns {
		if other, ok := c.GetOtherUserID(userID); ok {
			ids = append(ids, other)
		}
	}
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

// Peer is an accepted connection seen from one side.
type Peer struct {
	ConnectionID uuid.UUID           `json:"connectionId"`
	User         *domain.UserSummary `json:"user"`
	Since        time.Time           `json:"since"`
}

// ListConnections returns accepted connections of userID, one entry per peer.
func (uc *ConnectionUseCase) ListConnections(ctx context.Context, userID uuid.UUID) ([]Peer, error) {
	conns, err := uc.connRepo.ListByUser(ctx, userID, domain.ConnectionStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	users, err := uc.loadOthers(ctx, userID, conns)
	if err != nil {
		return nil, err
	}

	peers := make([]Peer, 0, len(conns))
	for _, c := range conns {
		other, _ := c.GetOtherUserID(userID)
		summary := users[other].Summary()
		if summary == nil {
			summary = &domain.UserSummary{ID: other}
		}
		peers = append(peers, Peer{ConnectionID: c.ID, User: summary, Since: c.UpdatedAt})
	}
	return peers, nil
}

// RemoveResult reports both steps of a removal.
type RemoveResult struct {
	HistoryDeleted  bool  `json:"historyDeleted"`
	DeletedMessages int64 `json:"deletedMessages"`
}

// Remove deletes the connection and then the pair's chat history. A failed
// history purge is reported, not returned; it can be retried through the
// chat history endpoint.
func (uc *ConnectionUseCase) Remove(ctx context.Context, userID, connectionID uuid.UUID) (*RemoveResult, error) {
	conn, err := uc.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	other, ok := conn.GetOtherUserID(userID)
	if !ok {
		return nil, domain.ErrNotAuthorized
	}

	if err := uc.connRepo.Delete(ctx, conn.ID); err != nil {
		return nil, err
	}

	n, err := uc.msgRepo.DeleteConversation(ctx, userID, other)
	if err != nil {
		uc.log.Error("purge chat history after connection removal failed",
			"connection_id", conn.ID, "user_id", userID, "peer_id", other, "error", err)
		return &RemoveResult{}, nil
	}
	return &RemoveResult{HistoryDeleted: true, DeletedMessages: n}, nil
}
