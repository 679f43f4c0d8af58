package repository

import (
	"context"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
)

type InteractionRepository interface {
	// InsertLike returns domain.ErrDuplicate when the (actor, target, like)
	// row already exists.
	InsertLike(ctx context.Context, interaction *domain.Interaction) error
	// UpsertPass refreshes created_at/updated_at on the existing row instead
	// of inserting a second one.
	UpsertPass(ctx context.Context, interaction *domain.Interaction) error
	// InsertBlock returns domain.ErrDuplicate when the block row already exists.
	InsertBlock(ctx context.Context, interaction *domain.Interaction) error
	// DeleteBlock removes the block row actorID created against targetID.
	// Deleting a non-existent row is not an error.
	DeleteBlock(ctx context.Context, actorID, targetID int) error
	HasLike(ctx context.Context, actorID, targetID int) (bool, error)
	// BlockedUserIDs returns users with a block row in either direction
	// relative to userID.
	BlockedUserIDs(ctx context.Context, userID int) ([]int, error)
	// EvaluatedUserIDs returns targets userID has already liked or passed.
	EvaluatedUserIDs(ctx context.Context, userID int) ([]int, error)
	// PendingLikes returns unreciprocated likes toward userID, most recent
	// first, paginated at the query level.
	PendingLikes(ctx context.Context, userID, limit, offset int) ([]*domain.Interaction, error)
}
