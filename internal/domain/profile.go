package domain

import "time"

type Profile struct {
	ID                int       `json:"id" db:"id"`
	UserID            int       `json:"user_id" db:"user_id"`
	DisplayName       string    `json:"display_name" db:"display_name"`
	Bio               *string   `json:"bio" db:"bio"`
	Stage             *string   `json:"stage" db:"stage"`
	Timezone          *string   `json:"timezone" db:"timezone"`
	AvailabilityHours *int      `json:"availability_hours" db:"availability_hours"`
	LocationID        *int      `json:"location_id" db:"location_id"`
	Skills            []string  `json:"skills" db:"skills"`
	LinkedinURL       *string   `json:"linkedin_url" db:"linkedin_url"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Preference holds what a user is looking for in a co-founder.
type Preference struct {
	UserID          int       `json:"user_id" db:"user_id"`
	RemoteOK        bool      `json:"remote_ok" db:"remote_ok"`
	PreferredStages []string  `json:"preferred_stages" db:"preferred_stages"`
	PreferredSkills []string  `json:"preferred_skills" db:"preferred_skills"`
	MinAvailability *int      `json:"min_availability_hours" db:"min_availability_hours"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// City resolves a profile's location_id to display fields.
type City struct {
	ID          int    `json:"id" db:"id"`
	CityName    string `json:"city_name" db:"city_name"`
	CountryName string `json:"country_name" db:"country_name"`
}
