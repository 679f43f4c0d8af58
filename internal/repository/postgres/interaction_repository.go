package postgres

import (
	"context"
	"errors"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
// Idempotence for like/block/match relies on the store constraint plus this
// adapter, not on read-then-write checks.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

type interactionRepository struct {
	db *sqlx.DB
}

func NewInteractionRepository(db *sqlx.DB) repository.InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) InsertLike(ctx context.Context, interaction *domain.Interaction) error {
	interaction.Action = domain.ActionLike
	return r.insert(ctx, interaction)
}

func (r *interactionRepository) InsertBlock(ctx context.Context, interaction *domain.Interaction) error {
	interaction.Action = domain.ActionBlock
	return r.insert(ctx, interaction)
}

func (r *interactionRepository) insert(ctx context.Context, interaction *domain.Interaction) error {
	query := `
		INSERT INTO interactions (actor_id, target_id, action, actor_venture_id, target_venture_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		interaction.ActorID, interaction.TargetID, interaction.Action,
		interaction.ActorVentureID, interaction.TargetVentureID,
	).Scan(&interaction.ID, &interaction.CreatedAt, &interaction.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *interactionRepository) UpsertPass(ctx context.Context, interaction *domain.Interaction) error {
	interaction.Action = domain.ActionPass
	query := `
		INSERT INTO interactions (actor_id, target_id, action, actor_venture_id, target_venture_id)
		VALUES ($1, $2, 'pass', $3, $4)
		ON CONFLICT (actor_id, target_id, action)
		DO UPDATE SET created_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		interaction.ActorID, interaction.TargetID,
		interaction.ActorVentureID, interaction.TargetVentureID,
	).Scan(&interaction.ID, &interaction.CreatedAt, &interaction.UpdatedAt)
}

func (r *interactionRepository) DeleteBlock(ctx context.Context, actorID, targetID int) error {
	query := `DELETE FROM interactions WHERE actor_id = $1 AND target_id = $2 AND action = 'block'`
	_, err := r.db.ExecContext(ctx, query, actorID, targetID)
	return err
}

func (r *interactionRepository) HasLike(ctx context.Context, actorID, targetID int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM interactions
			WHERE actor_id = $1 AND target_id = $2 AND action = 'like'
		)
	`
	err := r.db.GetContext(ctx, &exists, query, actorID, targetID)
	return exists, err
}

func (r *interactionRepository) BlockedUserIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	query := `
		SELECT target_id FROM interactions WHERE actor_id = $1 AND action = 'block'
		UNION
		SELECT actor_id FROM interactions WHERE target_id = $1 AND action = 'block'
	`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *interactionRepository) EvaluatedUserIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	query := `
		SELECT DISTINCT target_id FROM interactions
		WHERE actor_id = $1 AND action IN ('like', 'pass')
	`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *interactionRepository) PendingLikes(ctx context.Context, userID, limit, offset int) ([]*domain.Interaction, error) {
	var likes []*domain.Interaction
	query := `
		SELECT * FROM interactions i
		WHERE i.target_id = $1 AND i.action = 'like'
		  AND NOT EXISTS (
			SELECT 1 FROM interactions r
			WHERE r.actor_id = $1 AND r.target_id = i.actor_id AND r.action = 'like'
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM interactions b
			WHERE b.action = 'block'
			  AND ((b.actor_id = $1 AND b.target_id = i.actor_id)
			    OR (b.actor_id = i.actor_id AND b.target_id = $1))
		  )
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &likes, query, userID, limit, offset)
	return likes, err
}
