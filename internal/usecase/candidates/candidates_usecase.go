package candidates

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/cofoundry-app/cofoundry-backend/internal/config"
	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCandidateLimit = 20
	DefaultPendingLimit   = 50
)

// UseCase turns the raw ranked id list from the vector source into a
// deduplicated, exclusion-filtered, enriched result set. Ordering is the
// vector source's descending-score order throughout; enrichment never
// re-sorts.
type UseCase struct {
	ventureRepo     repository.VentureRepository
	profileRepo     repository.ProfileRepository
	interactionRepo repository.InteractionRepository
	vectorSource    repository.VectorSource
	cfg             config.MatchingConfig
	logger          zerolog.Logger
}

func NewUseCase(
	ventureRepo repository.VentureRepository,
	profileRepo repository.ProfileRepository,
	interactionRepo repository.InteractionRepository,
	vectorSource repository.VectorSource,
	cfg config.MatchingConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		ventureRepo:     ventureRepo,
		profileRepo:     profileRepo,
		interactionRepo: interactionRepo,
		vectorSource:    vectorSource,
		cfg:             cfg,
		logger:          logger.With().Str("component", "candidates").Logger(),
	}
}

// CandidateFeedResponse is the findCandidates result
type CandidateFeedResponse struct {
	Items       []*domain.EnrichedCandidate `json:"items"`
	BaseVenture *domain.Venture             `json:"baseVenture"`
}

// FindCandidates returns up to limit enriched candidates for userID.
func (uc *UseCase) FindCandidates(ctx context.Context, userID, limit int) (*CandidateFeedResponse, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	venture, err := uc.ventureRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrVentureNotFound) {
			return nil, err
		}
		return nil, domain.NewDependencyError("venture store", err)
	}

	// Both external calls on the retrieval path are bounded: a hung
	// embedding lookup or vector query fails the request instead of
	// pinning it.
	refCtx, cancelRef := context.WithTimeout(ctx, uc.cfg.VectorTimeout)
	ref, err := uc.ventureRepo.GetEmbeddingRef(refCtx, venture.ID)
	cancelRef()
	if err != nil {
		return nil, domain.NewDependencyError("embedding resolver", err)
	}
	if ref == nil {
		return nil, domain.NewDependencyError("embedding resolver", errors.New("venture has no stored embedding"))
	}

	knnCtx, cancel := context.WithTimeout(ctx, uc.cfg.VectorTimeout)
	defer cancel()

	raw, err := uc.vectorSource.KNN(knnCtx, ref.ID, ref.Model, ref.Version, uc.cfg.OverfetchWindow, uc.cfg.IvfflatProbes)
	if err != nil {
		return nil, domain.NewDependencyError("vector source", err)
	}

	excluded, err := uc.excludedUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Filter first, truncate second: excluded ids must not shrink the page
	// below limit while filterable alternates exist in the over-fetch window.
	filtered := make([]domain.CandidateRaw, 0, limit)
	seen := make(map[int]struct{}, len(raw))
	for _, candidate := range raw {
		if candidate.UserID == userID {
			continue
		}
		if _, dup := seen[candidate.UserID]; dup {
			continue
		}
		if _, skip := excluded[candidate.UserID]; skip {
			continue
		}
		seen[candidate.UserID] = struct{}{}
		filtered = append(filtered, candidate)
		if len(filtered) == limit {
			break
		}
	}

	items, err := uc.enrich(ctx, filtered)
	if err != nil {
		return nil, err
	}

	return &CandidateFeedResponse{Items: items, BaseVenture: venture}, nil
}

// FindPendingRequests returns users who liked userID without reciprocation,
// most recent like first. Pagination happens at the raw interaction query
// so page boundaries stay stable; an enrichment drop shrinks the page
// rather than backfilling from the next one.
func (uc *UseCase) FindPendingRequests(ctx context.Context, userID, limit, offset int) ([]*domain.EnrichedCandidate, error) {
	if limit <= 0 {
		limit = DefaultPendingLimit
	}
	if offset < 0 {
		offset = 0
	}

	likes, err := uc.interactionRepo.PendingLikes(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.NewDependencyError("interaction store", err)
	}

	raw := make([]domain.CandidateRaw, 0, len(likes))
	likedAt := make(map[int]*domain.Interaction, len(likes))
	for _, like := range likes {
		if like.ActorID <= 0 {
			// Unresolvable requester; filtered before enrichment is attempted.
			continue
		}
		raw = append(raw, domain.CandidateRaw{UserID: like.ActorID})
		likedAt[like.ActorID] = like
	}

	items, err := uc.enrich(ctx, raw)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if like, ok := likedAt[item.UserID]; ok {
			t := like.CreatedAt
			item.LikedAt = &t
		}
	}
	return items, nil
}

// excludedUserIDs merges blocked pairs (either direction) with targets the
// user already liked or passed.
func (uc *UseCase) excludedUserIDs(ctx context.Context, userID int) (map[int]struct{}, error) {
	blocked, err := uc.interactionRepo.BlockedUserIDs(ctx, userID)
	if err != nil {
		return nil, domain.NewDependencyError("interaction store", err)
	}
	evaluated, err := uc.interactionRepo.EvaluatedUserIDs(ctx, userID)
	if err != nil {
		return nil, domain.NewDependencyError("interaction store", err)
	}

	excluded := make(map[int]struct{}, len(blocked)+len(evaluated))
	for _, id := range blocked {
		excluded[id] = struct{}{}
	}
	for _, id := range evaluated {
		excluded[id] = struct{}{}
	}
	return excluded, nil
}

// enrich joins each candidate against profile/venture/preference/city data
// with a bounded fan-out. A single failed candidate is dropped; every
// candidate failing on store errors is treated as a store outage.
func (uc *UseCase) enrich(ctx context.Context, raw []domain.CandidateRaw) ([]*domain.EnrichedCandidate, error) {
	results := make([]*domain.EnrichedCandidate, len(raw))
	var storeFailures atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.EnrichmentConcurrency)
	for i, candidate := range raw {
		i, candidate := i, candidate
		g.Go(func() error {
			enriched, err := uc.enrichOne(gctx, candidate)
			if err != nil {
				if !errors.Is(err, domain.ErrProfileNotFound) {
					storeFailures.Add(1)
					uc.logger.Warn().Err(err).Int("user", candidate.UserID).Msg("enrichment failed, candidate dropped")
				}
				return nil
			}
			results[i] = enriched
			return nil
		})
	}
	_ = g.Wait()

	if len(raw) > 0 && storeFailures.Load() == int64(len(raw)) {
		return nil, domain.NewDependencyError("profile store", errors.New("enrichment failed for every candidate"))
	}

	// Compact in place; slot order preserves the raw ranking.
	items := make([]*domain.EnrichedCandidate, 0, len(results))
	for _, item := range results {
		if item != nil {
			items = append(items, item)
		}
	}
	return items, nil
}

func (uc *UseCase) enrichOne(ctx context.Context, candidate domain.CandidateRaw) (*domain.EnrichedCandidate, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, candidate.UserID)
	if err != nil {
		return nil, err
	}

	enriched := &domain.EnrichedCandidate{
		UserID:   candidate.UserID,
		RawScore: candidate.RawScore,
		Profile:  profile,
	}

	if venture, err := uc.ventureRepo.GetCurrentByUserID(ctx, candidate.UserID); err == nil {
		enriched.Venture = venture
	} else if !errors.Is(err, domain.ErrVentureNotFound) {
		uc.logger.Debug().Err(err).Int("user", candidate.UserID).Msg("venture enrichment skipped")
	}

	if pref, err := uc.profileRepo.GetPreferences(ctx, candidate.UserID); err == nil {
		enriched.Preference = pref
	} else {
		uc.logger.Debug().Err(err).Int("user", candidate.UserID).Msg("preference enrichment skipped")
	}

	if profile.LocationID != nil {
		if city, err := uc.profileRepo.ResolveCity(ctx, *profile.LocationID); err == nil && city != nil {
			enriched.CityName = &city.CityName
			enriched.CountryName = &city.CountryName
		}
	}

	return enriched, nil
}
