package repository

import (
	"context"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/google/uuid"
)

type VentureRepository interface {
	Create(ctx context.Context, venture *domain.Venture) error
	// GetCurrentByUserID returns the most recently created venture, or
	// domain.ErrVentureNotFound.
	GetCurrentByUserID(ctx context.Context, userID int) (*domain.Venture, error)
	// GetEmbeddingRef returns nil, nil when the venture has never been
	// embedded.
	GetEmbeddingRef(ctx context.Context, ventureID int) (*domain.EmbeddingRef, error)
	InsertEmbedding(ctx context.Context, id uuid.UUID, ventureID, userID int, model, version string, vector []float32) error
	// BannerCounts returns a single aggregate row: a location-filtered
	// profile count and a topic count restricted to model+version. An empty
	// result maps to zeros.
	BannerCounts(ctx context.Context, locationID *int, model, version string) (domain.BannerCounts, error)
}
