package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/connection"
	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connectionUseCase *connection.ConnectionUseCase
	log               *logger.Logger
}

func NewConnectionHandler(connectionUseCase *connection.ConnectionUseCase, log *logger.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUseCase: connectionUseCase,
		log:               log.With("handler", "connection"),
	}
}

func connectionStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrSelfRequest),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrInvalidUserID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrReceiverNotFound),
		errors.Is(err, domain.ErrConnectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRequest),
		errors.Is(err, domain.ErrAlreadyRequested),
		errors.Is(err, domain.ErrAlreadyConnected),
		errors.Is(err, domain.ErrRequestNotPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Request handles POST /connections/request
// @Summary Send a connection request
// @Description Opens a pending request, or reopens a previously rejected one
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body connection.RequestRequest true "Receiver"
// @Success 201 {object} domain.Connection
// @Success 200 {object} domain.Connection
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /connections/request [post]
func (h *ConnectionHandler) Request(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req connection.RequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Message: "receiverId is required"})
		return
	}
	receiverID, err := domain.ParseID(req.ReceiverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(err))
		return
	}

	conn, created, err := h.connectionUseCase.Request(c.Request.Context(), userID, receiverID)
	if err != nil {
		var pending *domain.PendingRequestError
		if errors.As(err, &pending) {
			resp := newErrorResponse(domain.ErrAlreadyRequested)
			resp.ConnectionID = &pending.ConnectionID
			c.JSON(http.StatusConflict, resp)
			return
		}
		fail(c, h.log, connectionStatus(err), err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Connection request sent", "connection": conn})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Connection request sent successfully", "connection": conn})
}

// ListReceived handles GET /connections/requests
// @Summary Pending requests addressed to me
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {array} connection.ConnectionView
// @Failure 500 {object} ErrorResponse
// @Router /connections/requests [get]
func (h *ConnectionHandler) ListReceived(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	views, err := h.connectionUseCase.ListReceived(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, connectionStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "requests": views})
}

// ListSent handles GET /connections/requests/sent
// @Summary Pending requests I sent
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {array} connection.ConnectionView
// @Failure 500 {object} ErrorResponse
// @Router /connections/requests/sent [get]
func (h *ConnectionHandler) ListSent(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	views, err := h.connectionUseCase.ListSent(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, connectionStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "requests": views})
}

// Respond handles POST /connections/respond
// @Summary Accept or reject a request
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body connection.RespondRequest true "Connection and action"
// @Success 200 {object} domain.Connection
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /connections/respond [post]
func (h *ConnectionHandler) Respond(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req connection.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Message: "connectionId and action are required"})
		return
	}
	connectionID, err := domain.ParseID(req.ConnectionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(err))
		return
	}

	conn, err := h.connectionUseCase.Respond(c.Request.Context(), userID, connectionID, req.Action)
	if err != nil {
		fail(c, h.log, connectionStatus(err), err)
		return
	}

	message := "Connection request accepted successfully"
	if conn.Status == domain.ConnectionStatusRejected {
		message = "Connection request rejected successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "connection": conn})
}

// List handles GET /connections
// @Summary My accepted connections
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {array} connection.Peer
// @Failure 500 {object} ErrorResponse
// @Router /connections [get]
func (h *ConnectionHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	peers, err := h.connectionUseCase.ListConnections(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, connectionStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(peers), "connections": peers})
}

// Remove handles DELETE /connections/:id
// @Summary Remove a connection
// @Description Deletes the connection and the chat history between both users
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} connection.RemoveResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /connections/{id} [delete]
func (h *ConnectionHandler) Remove(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	connectionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.connectionUseCase.Remove(c.Request.Context(), userID, connectionID)
	if err != nil {
		fail(c, h.log, connectionStatus(err), err)
		return
	}

	message := "Connection removed and chat history deleted"
	if !result.HistoryDeleted {
		message = "Connection removed, chat history could not be deleted"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         message,
		"historyDeleted":  result.HistoryDeleted,
		"deletedMessages": result.DeletedMessages,
	})
}
