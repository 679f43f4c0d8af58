package http

import (
	"github.com/cofoundry-app/cofoundry-backend/internal/delivery/http/handler"
	"github.com/cofoundry-app/cofoundry-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Router struct {
	profileHandler     *handler.ProfileHandler
	ventureHandler     *handler.VentureHandler
	interactionHandler *handler.InteractionHandler
	candidateHandler   *handler.CandidateHandler
	matchHandler       *handler.MatchHandler
	authMiddleware     *middleware.AuthMiddleware
	logger             zerolog.Logger
}

func NewRouter(
	profileHandler *handler.ProfileHandler,
	ventureHandler *handler.VentureHandler,
	interactionHandler *handler.InteractionHandler,
	candidateHandler *handler.CandidateHandler,
	matchHandler *handler.MatchHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger zerolog.Logger,
) *Router {
	return &Router{
		profileHandler:     profileHandler,
		ventureHandler:     ventureHandler,
		interactionHandler: interactionHandler,
		candidateHandler:   candidateHandler,
		matchHandler:       matchHandler,
		authMiddleware:     authMiddleware,
		logger:             logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(r.logger), gin.Recovery())

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile routes
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
			}

			// Venture routes
			ventures := protected.Group("/ventures")
			{
				ventures.POST("", r.ventureHandler.Publish)
				ventures.GET("/me", r.ventureHandler.GetCurrent)
			}

			// Interaction engine routes
			protected.POST("/interactions", r.interactionHandler.RecordInteraction)
			protected.GET("/pending-requests", r.candidateHandler.FindPendingRequests)
			protected.GET("/banner-counts", r.candidateHandler.GetBannerCounts)

			// Match routes
			matches := protected.Group("/matches")
			{
				matches.GET("", r.matchHandler.ListMatches)
				matches.GET("/candidates", r.candidateHandler.FindCandidates)
			}
		}
	}

	return router
}
