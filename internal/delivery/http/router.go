package http

import (
	"net/http"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/meetmatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	interestHandler   *handler.InterestHandler
	connectionHandler *handler.ConnectionHandler
	chatHandler       *handler.ChatHandler
	realtimeHandler   *handler.RealtimeHandler
	authMiddleware    *middleware.AuthMiddleware
	metrics           *metrics.Metrics
	log               *logger.Logger
	corsOrigins       []string
}

func NewRouter(
	interestHandler *handler.InterestHandler,
	connectionHandler *handler.ConnectionHandler,
	chatHandler *handler.ChatHandler,
	realtimeHandler *handler.RealtimeHandler,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
	log *logger.Logger,
	corsOrigins []string,
) *Router {
	return &Router{
		interestHandler:   interestHandler,
		connectionHandler: connectionHandler,
		chatHandler:       chatHandler,
		realtimeHandler:   realtimeHandler,
		authMiddleware:    authMiddleware,
		metrics:           m,
		log:               log,
		corsOrigins:       corsOrigins,
	}
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	wildcard := len(r.corsOrigins) == 0
	for _, o := range r.corsOrigins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		// credentials cannot be combined with a literal "*" origin
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = r.corsOrigins
	}
	return cfg
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(r.log))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(cors.New(r.corsConfig()))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	// Realtime channel authenticates itself before the upgrade
	router.GET("/ws", r.realtimeHandler.Connect)

	// Public profile lookup
	router.GET("/interests/:id", r.interestHandler.GetPublic)

	protected := router.Group("")
	protected.Use(r.authMiddleware.RequireAuth())
	{
		connections := protected.Group("/connections")
		{
			connections.POST("/request", r.connectionHandler.Request)
			connections.GET("/requests", r.connectionHandler.ListReceived)
			connections.GET("/requests/sent", r.connectionHandler.ListSent)
			connections.POST("/respond", r.connectionHandler.Respond)
			connections.GET("", r.connectionHandler.List)
			connections.DELETE("/:id", r.connectionHandler.Remove)
		}

		interests := protected.Group("/interests")
		{
			interests.POST("/update", r.interestHandler.UpdateInterests)
			interests.GET("/", r.interestHandler.GetMine)
			interests.GET("/matches", r.interestHandler.FindMatches)
			interests.POST("/updatePersonality", r.interestHandler.UpdatePersonality)
		}

		chat := protected.Group("/chat")
		{
			chat.POST("/send", r.chatHandler.Send)
			chat.GET("/history/:peerId", r.chatHandler.History)
			chat.DELETE("/history/:peerId", r.chatHandler.DeleteHistory)
			chat.GET("/unread", r.chatHandler.Unread)
			chat.POST("/delivered", r.chatHandler.MarkDelivered)
		}
	}

	return router
}
