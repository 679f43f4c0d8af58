package interaction

import (
	"context"
	"errors"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/rs/zerolog"
)

// UseCase is the interaction state machine: it records like/pass/block/
// unblock rows and detects reciprocity. Idempotence rides on store-level
// uniqueness constraints; duplicate errors are absorbed here and never
// surface to callers.
type UseCase struct {
	interactionRepo repository.InteractionRepository
	matchRepo       repository.MatchRepository
	ventureRepo     repository.VentureRepository
	logger          zerolog.Logger
}

func NewUseCase(
	interactionRepo repository.InteractionRepository,
	matchRepo repository.MatchRepository,
	ventureRepo repository.VentureRepository,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		interactionRepo: interactionRepo,
		matchRepo:       matchRepo,
		ventureRepo:     ventureRepo,
		logger:          logger.With().Str("component", "interaction").Logger(),
	}
}

// RecordInteraction applies one action from actorID toward targetID.
func (uc *UseCase) RecordInteraction(ctx context.Context, actorID, targetID int, action domain.Action) error {
	if actorID == targetID {
		return domain.ErrSelfInteraction
	}

	switch action {
	case domain.ActionLike:
		return uc.recordLike(ctx, actorID, targetID)
	case domain.ActionPass:
		return uc.recordPass(ctx, actorID, targetID)
	case domain.ActionBlock:
		return uc.recordBlock(ctx, actorID, targetID)
	case domain.ActionUnblock:
		if err := uc.interactionRepo.DeleteBlock(ctx, actorID, targetID); err != nil {
			return domain.NewDependencyError("interaction store", err)
		}
		return nil
	default:
		return domain.ErrInvalidAction
	}
}

func (uc *UseCase) recordLike(ctx context.Context, actorID, targetID int) error {
	row := &domain.Interaction{
		ActorID:         actorID,
		TargetID:        targetID,
		ActorVentureID:  uc.currentVentureID(ctx, actorID),
		TargetVentureID: uc.currentVentureID(ctx, targetID),
	}

	err := uc.interactionRepo.InsertLike(ctx, row)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		uc.logger.Debug().Int("actor", actorID).Int("target", targetID).Msg("duplicate like absorbed")
	case err != nil:
		return domain.NewDependencyError("interaction store", err)
	}

	// Detection runs after every like, duplicate or not, so a lost match
	// from an earlier race still gets created.
	return uc.maybeCreateMatch(ctx, actorID, targetID)
}

func (uc *UseCase) recordPass(ctx context.Context, actorID, targetID int) error {
	row := &domain.Interaction{
		ActorID:         actorID,
		TargetID:        targetID,
		ActorVentureID:  uc.currentVentureID(ctx, actorID),
		TargetVentureID: uc.currentVentureID(ctx, targetID),
	}
	if err := uc.interactionRepo.UpsertPass(ctx, row); err != nil {
		return domain.NewDependencyError("interaction store", err)
	}
	return nil
}

func (uc *UseCase) recordBlock(ctx context.Context, actorID, targetID int) error {
	row := &domain.Interaction{ActorID: actorID, TargetID: targetID}
	err := uc.interactionRepo.InsertBlock(ctx, row)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		// Already blocked; nothing new to enforce.
	case err != nil:
		return domain.NewDependencyError("interaction store", err)
	}

	// Policy: blocking an already-matched user deactivates the match.
	if err := uc.matchRepo.Deactivate(ctx, actorID, targetID); err != nil {
		return domain.NewDependencyError("match store", err)
	}
	return nil
}

// maybeCreateMatch creates a match when a reciprocal like exists. A
// duplicate insert means a concurrent like from the other side won the
// race; that is success, not failure.
func (uc *UseCase) maybeCreateMatch(ctx context.Context, actorID, targetID int) error {
	reciprocal, err := uc.interactionRepo.HasLike(ctx, targetID, actorID)
	if err != nil {
		return domain.NewDependencyError("interaction store", err)
	}
	if !reciprocal {
		return nil
	}

	match := &domain.Match{User1ID: actorID, User2ID: targetID, IsActive: true}
	err = uc.matchRepo.Create(ctx, match)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		uc.logger.Debug().Int("actor", actorID).Int("target", targetID).Msg("pair already matched")
		return nil
	case err != nil:
		return domain.NewDependencyError("match store", err)
	}

	uc.logger.Info().
		Int("user1", match.User1ID).
		Int("user2", match.User2ID).
		Msg("match created")
	return nil
}

// currentVentureID is best-effort context for the interaction row; absence
// of a venture is stored as null.
func (uc *UseCase) currentVentureID(ctx context.Context, userID int) *int {
	venture, err := uc.ventureRepo.GetCurrentByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrVentureNotFound) {
			uc.logger.Warn().Err(err).Int("user", userID).Msg("venture lookup failed")
		}
		return nil
	}
	return &venture.ID
}
