package repository

import (
	"context"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
)

type MatchRepository interface {
	// Create returns domain.ErrDuplicate when the pair is already matched,
	// regardless of argument order.
	Create(ctx context.Context, match *domain.Match) error
	GetByUsers(ctx context.Context, user1ID, user2ID int) (*domain.Match, error)
	GetActiveMatches(ctx context.Context, userID int) ([]*domain.Match, error)
	// Deactivate flips is_active off for the pair. A missing match is not an
	// error.
	Deactivate(ctx context.Context, user1ID, user2ID int) error
}
