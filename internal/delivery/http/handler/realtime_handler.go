package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// TokenVerifier resolves a bearer credential to a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (uuid.UUID, error)
}

type RealtimeHandler struct {
	relay    *realtime.Relay
	verifier TokenVerifier
	upgrader websocket.Upgrader
	connCfg  realtime.ConnConfig
	log      *logger.Logger
}

// NewRealtimeHandler builds the websocket endpoint. An empty allowedOrigins
// list or a "*" entry accepts every origin.
func NewRealtimeHandler(
	relay *realtime.Relay,
	verifier TokenVerifier,
	allowedOrigins []string,
	connCfg realtime.ConnConfig,
	log *logger.Logger,
) *RealtimeHandler {
	return &RealtimeHandler{
		relay:    relay,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		connCfg: connCfg,
		log:     log.With("handler", "realtime"),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

// socketToken reads the credential from the Authorization header, falling back
// to the token query parameter for browser clients.
func socketToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}

// Connect handles GET /ws
// @Summary Open the realtime channel
// @Description Upgrades to a websocket bound to the caller's identity
// @Tags realtime
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Success 101
// @Failure 401 {object} ErrorResponse
// @Router /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	token := socketToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "missing token"})
		return
	}
	userID, err := h.verifier.VerifyToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "invalid token"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		h.log.Debug("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}
	h.relay.Serve(c.Request.Context(), ws, userID, h.connCfg)
}
