package vector

import (
	"context"
	"fmt"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// PgvectorSource runs KNN over the venture_embeddings ivfflat cosine index.
// Raw score is 1 - cosine distance, so results land in [-1, 1] descending.
type PgvectorSource struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewPgvectorSource(db *sqlx.DB, logger zerolog.Logger) repository.VectorSource {
	return &PgvectorSource{db: db, logger: logger.With().Str("component", "pgvector").Logger()}
}

func (s *PgvectorSource) KNN(ctx context.Context, embeddingID uuid.UUID, model, version string, limit, probes int) ([]domain.CandidateRaw, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin knn transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// SET LOCAL scopes the probe count to this transaction. The parameter is
	// an integer under our control, not caller input.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL ivfflat.probes = %d", probes)); err != nil {
		return nil, fmt.Errorf("set ivfflat probes: %w", err)
	}

	// Only each user's current venture participates; an older venture's
	// embedding must not represent them in the ranking.
	query := `
		SELECT e.user_id,
		       1 - (e.embedding <=> base.embedding) AS raw_score,
		       p.stage, p.timezone, p.availability_hours
		FROM venture_embeddings e
		JOIN venture_embeddings base ON base.id = $1
		LEFT JOIN profiles p ON p.user_id = e.user_id
		WHERE e.model = $2 AND e.version = $3 AND e.id <> base.id
		  AND e.venture_id = (
			SELECT id FROM ventures cur
			WHERE cur.user_id = e.user_id
			ORDER BY created_at DESC
			LIMIT 1
		  )
		ORDER BY e.embedding <=> base.embedding
		LIMIT $4
	`
	var candidates []domain.CandidateRaw
	if err := tx.SelectContext(ctx, &candidates, query, embeddingID, model, version, limit); err != nil {
		return nil, fmt.Errorf("knn query: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit knn transaction: %w", err)
	}

	s.logger.Debug().
		Str("embedding_id", embeddingID.String()).
		Int("returned", len(candidates)).
		Msg("knn query completed")
	return candidates, nil
}
