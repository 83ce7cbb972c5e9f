package handler

import (
	"net/http"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error        string     `json:"error"`
	Message      string     `json:"message,omitempty"`
	ConnectionID *uuid.UUID `json:"connectionId,omitempty"`
}

func newErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error(), Message: err.Error()}
}

// callerID reads the identity set by the auth middleware. It writes 401 when absent.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a path parameter as an identity reference. It writes 400 on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := domain.ParseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(err))
		return uuid.Nil, false
	}
	return id, true
}

// fail writes err with status. Server errors are logged with the route.
func fail(c *gin.Context, log *logger.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "route", c.FullPath(), "method", c.Request.Method, "error", err)
	}
	c.JSON(status, newErrorResponse(err))
}
