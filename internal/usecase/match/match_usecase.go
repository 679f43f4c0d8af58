package match

import (
	"context"
	"time"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/rs/zerolog"
)

type UseCase struct {
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	logger      zerolog.Logger
}

func NewUseCase(matchRepo repository.MatchRepository, profileRepo repository.ProfileRepository, logger zerolog.Logger) *UseCase {
	return &UseCase{
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		logger:      logger.With().Str("component", "match").Logger(),
	}
}

// MatchResponse is one active match with the other party's profile
type MatchResponse struct {
	MatchID   int             `json:"match_id"`
	User      *domain.Profile `json:"user"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListMatches returns the caller's active matches, newest first. A match
// whose counterpart profile cannot be resolved is skipped rather than
// returned half-empty.
func (uc *UseCase) ListMatches(ctx context.Context, userID int) ([]*MatchResponse, error) {
	matches, err := uc.matchRepo.GetActiveMatches(ctx, userID)
	if err != nil {
		return nil, domain.NewDependencyError("match store", err)
	}

	responses := make([]*MatchResponse, 0, len(matches))
	for _, m := range matches {
		otherID, ok := m.GetOtherUserID(userID)
		if !ok {
			continue
		}
		profile, err := uc.profileRepo.GetByUserID(ctx, otherID)
		if err != nil {
			uc.logger.Warn().Err(err).Int("user", otherID).Msg("match counterpart profile missing")
			continue
		}
		responses = append(responses, &MatchResponse{
			MatchID:   m.ID,
			User:      profile,
			CreatedAt: m.CreatedAt,
		})
	}
	return responses, nil
}
