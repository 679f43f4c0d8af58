package repository

import (
	"context"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/google/uuid"
)

// VectorSource is the external nearest-neighbor search. Results come back
// ordered by descending raw score; the engine never re-sorts them.
type VectorSource interface {
	KNN(ctx context.Context, embeddingID uuid.UUID, model, version string, limit, probes int) ([]domain.CandidateRaw, error)
}
