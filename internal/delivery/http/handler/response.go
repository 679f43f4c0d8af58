package handler

import (
	"errors"
	"net/http"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the single error shape for every failure path
type ErrorResponse struct {
	Error string `json:"error"`
}

// currentUserID reads the identity the auth middleware resolved.
func currentUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := userID.(int)
	return id, ok
}

// respondError maps the domain taxonomy onto status codes. Dependency
// errors keep only the dependency name; the cause goes to the log, not the
// client.
func respondError(c *gin.Context, err error) {
	var depErr *domain.DependencyError

	switch {
	case errors.Is(err, domain.ErrInvalidAction), errors.Is(err, domain.ErrSelfInteraction):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrVentureNotFound),
		errors.Is(err, domain.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.As(err, &depErr):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: depErr.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
