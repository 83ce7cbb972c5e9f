package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/meetmatch-backend/internal/config"
	"github.com/gdugdh24/meetmatch-backend/internal/delivery/http"
	"github.com/gdugdh24/meetmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/meetmatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/database"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/server"
	"github.com/gdugdh24/meetmatch-backend/internal/realtime"
	"github.com/gdugdh24/meetmatch-backend/internal/repository"
	mongostore "github.com/gdugdh24/meetmatch-backend/internal/repository/mongo"
	"github.com/gdugdh24/meetmatch-backend/internal/repository/postgres"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/auth"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/chat"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/connection"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/interest"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories is one consistent set of store adapters.
type Repositories struct {
	Users       repository.UserRepository
	Profiles    repository.ProfileRepository
	Connections repository.ConnectionRepository
	Messages    repository.MessageRepository
}

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics
	DB      *sqlx.DB
	Mongo   *mongo.Client
	Redis   *redis.Client
	Relay   *realtime.Relay
	Server  *server.Server
	Gemini  *gemini.GeminiClient
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log, Metrics: metrics.New()}

	repos, err := c.openStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	// Initialize Redis
	if cfg.Redis.Enabled {
		c.Redis, err = database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
	}

	// AI features are optional
	var (
		embedder   interest.Embedder
		summarizer interest.Summarizer
	)
	if cfg.Gemini.APIKey != "" {
		c.Gemini, err = gemini.NewGeminiClient(ctx, gemini.Options{
			APIKey:         cfg.Gemini.APIKey,
			EmbeddingModel: cfg.Gemini.EmbeddingModel,
			TextModel:      cfg.Gemini.TextModel,
		}, log)
		if err != nil {
			log.Warn("failed to initialize gemini client, continuing without AI features", "error", err)
		} else {
			embedder, summarizer = c.Gemini, c.Gemini
		}
	}

	// Initialize use cases
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	interestUseCase := interest.NewInterestUseCase(
		repos.Profiles,
		repos.Users,
		embedder,
		summarizer,
		interest.Config{
			DefaultLimit: cfg.Match.DefaultLimit,
			MaxLimit:     cfg.Match.MaxLimit,
			AITimeout:    cfg.Gemini.Timeout,
		},
		log.With("usecase", "interest"),
	)
	connectionUseCase := connection.NewConnectionUseCase(
		repos.Connections,
		repos.Users,
		repos.Messages,
		log.With("usecase", "connection"),
	)
	chatUseCase := chat.NewChatUseCase(repos.Messages, repos.Users)

	// Realtime relay
	hub := realtime.NewHub(log, c.Metrics, cfg.Websocket.ClientBuffer)
	presence := realtime.NewLocalPresence(hub)
	bus := realtime.NewLocalBus()
	if c.Redis != nil {
		presence = realtime.NewRedisPresence(c.Redis, cfg.Redis.PresencePrefix, cfg.Redis.PresenceTTL)
		bus = realtime.NewRedisBus(c.Redis, cfg.Redis.Channel, log)
	}
	c.Relay = realtime.NewRelay(chatUseCase, hub, presence, bus, c.Metrics, log)

	// Initialize handlers
	interestHandler := handler.NewInterestHandler(interestUseCase, log)
	connectionHandler := handler.NewConnectionHandler(connectionUseCase, log)
	chatHandler := handler.NewChatHandler(chatUseCase, c.Relay, log)
	realtimeHandler := handler.NewRealtimeHandler(c.Relay, tokens, cfg.CORS.Origins, realtime.ConnConfig{
		WriteWait:      cfg.Websocket.WriteWait,
		PongWait:       cfg.Websocket.PongWait,
		MaxMessageSize: cfg.Websocket.MaxMessageSize,
	}, log)

	if err := handler.RegisterValidations(); err != nil {
		_ = c.Close()
		return nil, err
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	// Initialize router
	router := http.NewRouter(
		interestHandler,
		connectionHandler,
		chatHandler,
		realtimeHandler,
		authMiddleware,
		c.Metrics,
		log,
		cfg.CORS.Origins,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	c.Server = server.NewServer(&cfg.Server, ginRouter, log)

	return c, nil
}

func (c *Container) openStore(ctx context.Context) (*Repositories, error) {
	switch c.Config.Store.Driver {
	case config.StoreDriverMongo:
		client, db, err := database.NewMongoClient(ctx, &c.Config.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		c.Mongo = client

		store := mongostore.NewStore(db)
		if c.Config.Store.Migrate {
			if err := store.EnsureIndexes(ctx); err != nil {
				return nil, fmt.Errorf("failed to ensure mongo indexes: %w", err)
			}
		}
		c.Log.Info("using mongo store", "database", c.Config.Mongo.Database)
		return &Repositories{
			Users:       mongostore.NewUserRepository(store),
			Profiles:    mongostore.NewProfileRepository(store),
			Connections: mongostore.NewConnectionRepository(store),
			Messages:    mongostore.NewMessageRepository(store),
		}, nil
	default:
		db, err := database.NewPostgresDB(ctx, &c.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db

		if c.Config.Store.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		c.Log.Info("using postgres store", "host", c.Config.Database.Host, "database", c.Config.Database.DBName)
		return &Repositories{
			Users:       postgres.NewUserRepository(db),
			Profiles:    postgres.NewProfileRepository(db),
			Connections: postgres.NewConnectionRepository(db),
			Messages:    postgres.NewMessageRepository(db),
		}, nil
	}
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warn("error closing redis", "error", err)
		}
	}

	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(context.Background()); err != nil {
			c.Log.Warn("error closing mongo", "error", err)
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
