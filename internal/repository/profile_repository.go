package repository

import (
	"context"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	GetPreferences(ctx context.Context, userID int) (*domain.Preference, error)
	ResolveCity(ctx context.Context, cityID int) (*domain.City, error)
}
