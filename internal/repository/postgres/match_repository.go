package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

// orderPair keeps user1_id < user2_id so the unique constraint is
// independent of which side liked last.
func orderPair(user1ID, user2ID int) (int, int) {
	if user1ID > user2ID {
		return user2ID, user1ID
	}
	return user1ID, user2ID
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	user1ID, user2ID := orderPair(match.User1ID, match.User2ID)

	query := `
		INSERT INTO matches (user1_id, user2_id, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, user1ID, user2ID, match.IsActive).
		Scan(&match.ID, &match.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}

	match.User1ID = user1ID
	match.User2ID = user2ID
	return err
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID int) (*domain.Match, error) {
	user1ID, user2ID = orderPair(user1ID, user2ID)

	var match domain.Match
	query := `SELECT * FROM matches WHERE user1_id = $1 AND user2_id = $2`
	err := r.db.GetContext(ctx, &match, query, user1ID, user2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetActiveMatches(ctx context.Context, userID int) ([]*domain.Match, error) {
	var matches []*domain.Match
	query := `
		SELECT * FROM matches
		WHERE (user1_id = $1 OR user2_id = $1) AND is_active = true
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &matches, query, userID)
	return matches, err
}

func (r *matchRepository) Deactivate(ctx context.Context, user1ID, user2ID int) error {
	user1ID, user2ID = orderPair(user1ID, user2ID)

	query := `UPDATE matches SET is_active = false WHERE user1_id = $1 AND user2_id = $2`
	_, err := r.db.ExecContext(ctx, query, user1ID, user2ID)
	return err
}
