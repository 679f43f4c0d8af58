package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ventureRepository struct {
	db *sqlx.DB
}

func NewVentureRepository(db *sqlx.DB) repository.VentureRepository {
	return &ventureRepository{db: db}
}

func (r *ventureRepository) Create(ctx context.Context, venture *domain.Venture) error {
	query := `
		INSERT INTO ventures (user_id, title, pitch)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, venture.UserID, venture.Title, venture.Pitch).
		Scan(&venture.ID, &venture.CreatedAt)
}

func (r *ventureRepository) GetCurrentByUserID(ctx context.Context, userID int) (*domain.Venture, error) {
	var venture domain.Venture
	query := `
		SELECT * FROM ventures
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &venture, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVentureNotFound
		}
		return nil, err
	}
	return &venture, nil
}

func (r *ventureRepository) GetEmbeddingRef(ctx context.Context, ventureID int) (*domain.EmbeddingRef, error) {
	var ref domain.EmbeddingRef
	query := `SELECT id, model, version FROM venture_embeddings WHERE venture_id = $1`
	err := r.db.GetContext(ctx, &ref, query, ventureID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

// vectorLiteral renders a pgvector input literal, e.g. [0.1,0.2,0.3].
func vectorLiteral(vector []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (r *ventureRepository) InsertEmbedding(ctx context.Context, id uuid.UUID, ventureID, userID int, model, version string, vector []float32) error {
	query := `
		INSERT INTO venture_embeddings (id, venture_id, user_id, model, version, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		ON CONFLICT (venture_id)
		DO UPDATE SET model = $4, version = $5, embedding = $6::vector
	`
	_, err := r.db.ExecContext(ctx, query, id, ventureID, userID, model, version, vectorLiteral(vector))
	return err
}

func (r *ventureRepository) BannerCounts(ctx context.Context, locationID *int, model, version string) (domain.BannerCounts, error) {
	var counts domain.BannerCounts
	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles p
			 WHERE $1::int IS NULL OR p.location_id = $1) AS total_profiles,
			(SELECT COUNT(*) FROM venture_embeddings e
			 WHERE e.model = $2 AND e.version = $3) AS related_topics
	`
	err := r.db.GetContext(ctx, &counts, query, locationID, model, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BannerCounts{}, nil
		}
		return domain.BannerCounts{}, err
	}
	return counts, nil
}
