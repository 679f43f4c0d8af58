package profile

import (
	"context"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
)

type UseCase struct {
	profileRepo repository.ProfileRepository
}

func NewUseCase(profileRepo repository.ProfileRepository) *UseCase {
	return &UseCase{profileRepo: profileRepo}
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	DisplayName       *string  `json:"display_name"`
	Bio               *string  `json:"bio"`
	Stage             *string  `json:"stage" binding:"omitempty,oneof=idea prototype mvp revenue scaling"`
	Timezone          *string  `json:"timezone"`
	AvailabilityHours *int     `json:"availability_hours" binding:"omitempty,min=1,max=80"`
	LocationID        *int     `json:"location_id"`
	Skills            []string `json:"skills"`
	LinkedinURL       *string  `json:"linkedin_url"`
}

func (uc *UseCase) GetMyProfile(ctx context.Context, userID int) (*domain.Profile, error) {
	return uc.profileRepo.GetByUserID(ctx, userID)
}

func (uc *UseCase) UpdateProfile(ctx context.Context, userID int, req *UpdateProfileRequest) (*domain.Profile, error) {
	current, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		current.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		current.Bio = req.Bio
	}
	if req.Stage != nil {
		current.Stage = req.Stage
	}
	if req.Timezone != nil {
		current.Timezone = req.Timezone
	}
	if req.AvailabilityHours != nil {
		current.AvailabilityHours = req.AvailabilityHours
	}
	if req.LocationID != nil {
		current.LocationID = req.LocationID
	}
	if req.Skills != nil {
		current.Skills = req.Skills
	}
	if req.LinkedinURL != nil {
		current.LinkedinURL = req.LinkedinURL
	}

	if err := uc.profileRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
