package venture

import (
	"context"
	"fmt"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Embedder produces the embedding vector for a venture's text, along with
// the model and version that generated it.
type Embedder interface {
	EmbedVenture(ctx context.Context, title, pitch string) (vector []float32, model, version string, err error)
}

type UseCase struct {
	ventureRepo repository.VentureRepository
	embedder    Embedder
	logger      zerolog.Logger
}

func NewUseCase(ventureRepo repository.VentureRepository, embedder Embedder, logger zerolog.Logger) *UseCase {
	return &UseCase{
		ventureRepo: ventureRepo,
		embedder:    embedder,
		logger:      logger.With().Str("component", "venture").Logger(),
	}
}

// PublishRequest creates a new current venture
type PublishRequest struct {
	Title string `json:"title" binding:"required,max=120"`
	Pitch string `json:"pitch" binding:"required,max=4000"`
}

// Publish stores a new venture (which becomes the user's current one) and
// embeds it. An embedding failure is soft: the venture exists but stays
// invisible to the candidate pipeline until re-published.
func (uc *UseCase) Publish(ctx context.Context, userID int, req *PublishRequest) (*domain.Venture, error) {
	venture := &domain.Venture{
		UserID: userID,
		Title:  req.Title,
		Pitch:  req.Pitch,
	}
	if err := uc.ventureRepo.Create(ctx, venture); err != nil {
		return nil, domain.NewDependencyError("venture store", err)
	}

	if uc.embedder == nil {
		uc.logger.Warn().Int("venture", venture.ID).Msg("no embedder configured, venture left unembedded")
		return venture, nil
	}

	vector, model, version, err := uc.embedder.EmbedVenture(ctx, venture.Title, venture.Pitch)
	if err != nil {
		uc.logger.Error().Err(err).Int("venture", venture.ID).Msg("embedding failed, venture left unembedded")
		return venture, nil
	}

	if err := uc.ventureRepo.InsertEmbedding(ctx, uuid.New(), venture.ID, userID, model, version, vector); err != nil {
		return nil, domain.NewDependencyError("venture store", fmt.Errorf("store embedding: %w", err))
	}

	uc.logger.Info().
		Int("venture", venture.ID).
		Str("model", model).
		Str("version", version).
		Msg("venture published and embedded")
	return venture, nil
}

func (uc *UseCase) GetCurrent(ctx context.Context, userID int) (*domain.Venture, error) {
	return uc.ventureRepo.GetCurrentByUserID(ctx, userID)
}
