package handler

import (
	"net/http"

	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/venture"
	"github.com/gin-gonic/gin"
)

type VentureHandler struct {
	ventureUseCase *venture.UseCase
}

func NewVentureHandler(ventureUseCase *venture.UseCase) *VentureHandler {
	return &VentureHandler{ventureUseCase: ventureUseCase}
}

// Publish handles POST /ventures
func (h *VentureHandler) Publish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req venture.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title and pitch are required"})
		return
	}

	created, err := h.ventureUseCase.Publish(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetCurrent handles GET /ventures/me
func (h *VentureHandler) GetCurrent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	current, err := h.ventureUseCase.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, current)
}
