package banner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SentinelVersion is used when a venture exists but was never embedded.
// Stored versions are numeric generation tags, so this matches zero rows
// and the aggregate deterministically returns zero.
const SentinelVersion = "unversioned"

// UseCase serves the informational banner counts. It is a soft widget: a
// user without a venture gets zeros, not an error.
type UseCase struct {
	ventureRepo repository.VentureRepository
	profileRepo repository.ProfileRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

func NewUseCase(
	ventureRepo repository.VentureRepository,
	profileRepo repository.ProfileRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		ventureRepo: ventureRepo,
		profileRepo: profileRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "banner").Logger(),
	}
}

func (uc *UseCase) GetBannerCounts(ctx context.Context, userID int) (domain.BannerCounts, error) {
	cacheKey := fmt.Sprintf("banner:%d", userID)
	if cached, ok := uc.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	venture, err := uc.ventureRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrVentureNotFound) {
			return domain.BannerCounts{}, nil
		}
		return domain.BannerCounts{}, domain.NewDependencyError("venture store", err)
	}

	model, version := "", SentinelVersion
	ref, err := uc.ventureRepo.GetEmbeddingRef(ctx, venture.ID)
	if err != nil {
		return domain.BannerCounts{}, domain.NewDependencyError("venture store", err)
	}
	if ref != nil {
		model, version = ref.Model, ref.Version
	}

	// Location filter is best-effort; a missing profile just widens the count.
	var locationID *int
	if profile, err := uc.profileRepo.GetByUserID(ctx, userID); err == nil {
		locationID = profile.LocationID
	}

	counts, err := uc.ventureRepo.BannerCounts(ctx, locationID, model, version)
	if err != nil {
		return domain.BannerCounts{}, domain.NewDependencyError("profile store", err)
	}

	uc.toCache(ctx, cacheKey, counts)
	return counts, nil
}

func (uc *UseCase) fromCache(ctx context.Context, key string) (domain.BannerCounts, bool) {
	if uc.cache == nil {
		return domain.BannerCounts{}, false
	}
	payload, err := uc.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			uc.logger.Warn().Err(err).Msg("banner cache read failed")
		}
		return domain.BannerCounts{}, false
	}
	var counts domain.BannerCounts
	if err := json.Unmarshal(payload, &counts); err != nil {
		return domain.BannerCounts{}, false
	}
	return counts, true
}

func (uc *UseCase) toCache(ctx context.Context, key string, counts domain.BannerCounts) {
	if uc.cache == nil {
		return
	}
	payload, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, payload, uc.cacheTTL).Err(); err != nil {
		uc.logger.Warn().Err(err).Msg("banner cache write failed")
	}
}
