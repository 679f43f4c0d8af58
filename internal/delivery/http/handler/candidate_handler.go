package handler

import (
	"net/http"
	"strconv"

	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/banner"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/candidates"
	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidatesUseCase *candidates.UseCase
	bannerUseCase     *banner.UseCase
}

func NewCandidateHandler(candidatesUseCase *candidates.UseCase, bannerUseCase *banner.UseCase) *CandidateHandler {
	return &CandidateHandler{
		candidatesUseCase: candidatesUseCase,
		bannerUseCase:     bannerUseCase,
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// FindCandidates handles GET /matches/candidates?limit=N
func (h *CandidateHandler) FindCandidates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	limit := queryInt(c, "limit", candidates.DefaultCandidateLimit)

	feed, err := h.candidatesUseCase.FindCandidates(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// FindPendingRequests handles GET /pending-requests?limit=&offset=
func (h *CandidateHandler) FindPendingRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	limit := queryInt(c, "limit", candidates.DefaultPendingLimit)
	offset := queryInt(c, "offset", 0)

	items, err := h.candidatesUseCase.FindPendingRequests(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetBannerCounts handles GET /banner-counts
func (h *CandidateHandler) GetBannerCounts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	counts, err := h.bannerUseCase.GetBannerCounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}
