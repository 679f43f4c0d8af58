package container

import (
	"fmt"
	"os"

	"github.com/cofoundry-app/cofoundry-backend/internal/config"
	delivery "github.com/cofoundry-app/cofoundry-backend/internal/delivery/http"
	"github.com/cofoundry-app/cofoundry-backend/internal/delivery/http/handler"
	"github.com/cofoundry-app/cofoundry-backend/internal/delivery/http/middleware"
	"github.com/cofoundry-app/cofoundry-backend/internal/infrastructure/database"
	"github.com/cofoundry-app/cofoundry-backend/internal/infrastructure/gemini"
	"github.com/cofoundry-app/cofoundry-backend/internal/infrastructure/server"
	"github.com/cofoundry-app/cofoundry-backend/internal/infrastructure/vector"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository/postgres"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/banner"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/candidates"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/interaction"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/match"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/profile"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/venture"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger zerolog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := newLogger(cfg.Logging.Level)

	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis is advisory (banner cache); start without it if unreachable.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, banner cache disabled")
			redisClient = nil
		}
	}

	// Gemini powers venture embedding at publish time. Without it ventures
	// stay unembedded and the candidate feed reports the missing dependency.
	var geminiClient *gemini.Client
	if cfg.Gemini.APIKey != "" {
		geminiClient, err = gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.EmbeddingModel, cfg.Gemini.ModelVersion)
		if err != nil {
			logger.Warn().Err(err).Msg("gemini client unavailable, venture embedding disabled")
			geminiClient = nil
		}
	}

	// Initialize repositories
	profileRepo := postgres.NewProfileRepository(db)
	ventureRepo := postgres.NewVentureRepository(db)
	interactionRepo := postgres.NewInteractionRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	vectorSource := vector.NewPgvectorSource(db, logger)

	// Initialize use cases
	profileUseCase := profile.NewUseCase(profileRepo)
	interactionUseCase := interaction.NewUseCase(interactionRepo, matchRepo, ventureRepo, logger)
	candidatesUseCase := candidates.NewUseCase(ventureRepo, profileRepo, interactionRepo, vectorSource, cfg.Matching, logger)
	bannerUseCase := banner.NewUseCase(ventureRepo, profileRepo, redisClient, cfg.Matching.BannerCacheTTL, logger)
	matchUseCase := match.NewUseCase(matchRepo, profileRepo, logger)

	var embedder venture.Embedder
	if geminiClient != nil {
		embedder = geminiClient
	}
	ventureUseCase := venture.NewUseCase(ventureRepo, embedder, logger)

	// Initialize handlers
	profileHandler := handler.NewProfileHandler(profileUseCase)
	ventureHandler := handler.NewVentureHandler(ventureUseCase)
	interactionHandler := handler.NewInteractionHandler(interactionUseCase)
	candidateHandler := handler.NewCandidateHandler(candidatesUseCase, bannerUseCase)
	matchHandler := handler.NewMatchHandler(matchUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.AccessSecret)

	// Initialize router
	router := delivery.NewRouter(
		profileHandler,
		ventureHandler,
		interactionHandler,
		candidateHandler,
		matchHandler,
		authMiddleware,
		logger,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
	}, nil
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn().Err(err).Msg("error closing redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
