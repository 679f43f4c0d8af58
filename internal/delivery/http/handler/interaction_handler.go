package handler

import (
	"net/http"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/usecase/interaction"
	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionUseCase *interaction.UseCase
}

func NewInteractionHandler(interactionUseCase *interaction.UseCase) *InteractionHandler {
	return &InteractionHandler{interactionUseCase: interactionUseCase}
}

// InteractionRequest is the POST /interactions body
type InteractionRequest struct {
	TargetUserID int    `json:"targetUserId" binding:"required"`
	Action       string `json:"action" binding:"required"`
}

// RecordInteraction handles POST /interactions
func (h *InteractionHandler) RecordInteraction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing target user or action"})
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.interactionUseCase.RecordInteraction(c.Request.Context(), userID, req.TargetUserID, action); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
