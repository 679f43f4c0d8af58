package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cofoundry-app/cofoundry-backend/internal/domain"
	"github.com/cofoundry-app/cofoundry-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		SELECT id, user_id, display_name, bio, stage, timezone,
		       availability_hours, location_id, skills, linkedin_url,
		       created_at, updated_at
		FROM profiles WHERE user_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.DisplayName, &profile.Bio,
		&profile.Stage, &profile.Timezone, &profile.AvailabilityHours,
		&profile.LocationID, pq.Array(&profile.Skills), &profile.LinkedinURL,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $1, bio = $2, stage = $3, timezone = $4,
		    availability_hours = $5, location_id = $6, skills = $7,
		    linkedin_url = $8, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.DisplayName, profile.Bio, profile.Stage, profile.Timezone,
		profile.AvailabilityHours, profile.LocationID, pq.Array(profile.Skills),
		profile.LinkedinURL, profile.UserID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *profileRepository) GetPreferences(ctx context.Context, userID int) (*domain.Preference, error) {
	var pref domain.Preference
	query := `
		SELECT user_id, remote_ok, preferred_stages, preferred_skills,
		       min_availability_hours, updated_at
		FROM preferences WHERE user_id = $1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&pref.UserID, &pref.RemoteOK, pq.Array(&pref.PreferredStages),
		pq.Array(&pref.PreferredSkills), &pref.MinAvailability, &pref.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *profileRepository) ResolveCity(ctx context.Context, cityID int) (*domain.City, error) {
	var city domain.City
	query := `SELECT id, city_name, country_name FROM cities WHERE id = $1`
	err := r.db.GetContext(ctx, &city, query, cityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}
