package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/realtime"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/chat"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatUseCase *chat.ChatUseCase
	relay       *realtime.Relay
	log         *logger.Logger
}

func NewChatHandler(chatUseCase *chat.ChatUseCase, relay *realtime.Relay, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
		relay:       relay,
		log:         log.With("handler", "chat"),
	}
}

func chatStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Send handles POST /chat/send
// @Summary Send a message
// @Description Stores the message and pushes it to the recipient when online
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body chat.SendRequest true "Recipient and text"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/send [post]
func (h *ChatHandler) Send(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req chat.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(domain.ErrEmptyMessage))
		return
	}

	msg, err := h.relay.Send(c.Request.Context(), userID, req)
	if err != nil {
		fail(c, h.log, chatStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "message": msg})
}

// History handles GET /chat/history/:peerId
// @Summary Conversation with a peer
// @Description Oldest first; marks the peer's messages to me as read and delivered
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param peerId path string true "Peer user ID"
// @Success 200 {array} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/history/{peerId} [get]
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	peerID, ok := pathID(c, "peerId")
	if !ok {
		return
	}

	messages, err := h.chatUseCase.History(c.Request.Context(), userID, peerID)
	if err != nil {
		fail(c, h.log, chatStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// DeleteHistory handles DELETE /chat/history/:peerId
// @Summary Delete a conversation
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param peerId path string true "Peer user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chat/history/{peerId} [delete]
func (h *ChatHandler) DeleteHistory(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	peerID, ok := pathID(c, "peerId")
	if !ok {
		return
	}

	n, err := h.chatUseCase.DeleteHistory(c.Request.Context(), userID, peerID)
	if err != nil {
		fail(c, h.log, chatStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"deletedCount": n,
		"message":      "Chat history deleted successfully",
	})
}

// Unread handles GET /chat/unread
// @Summary Unread messages summary
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} chat.UnreadSummary
// @Failure 500 {object} ErrorResponse
// @Router /chat/unread [get]
func (h *ChatHandler) Unread(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	summary, err := h.chatUseCase.Unread(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, chatStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MarkDelivered handles POST /chat/delivered
// @Summary Mark all messages to me as delivered
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /chat/delivered [post]
func (h *ChatHandler) MarkDelivered(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if _, err := h.chatUseCase.MarkDelivered(c.Request.Context(), userID); err != nil {
		fail(c, h.log, chatStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
