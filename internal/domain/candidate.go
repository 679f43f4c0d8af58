package domain

import "time"

// CandidateRaw is one row from the vector source, ephemeral per request.
// RawScore is a cosine similarity in [-1, 1] and is treated as an opaque
// ordering key.
type CandidateRaw struct {
	UserID            int      `json:"user_id" db:"user_id"`
	RawScore          float64  `json:"raw_score" db:"raw_score"`
	Stage             *string  `json:"stage" db:"stage"`
	Timezone          *string  `json:"timezone" db:"timezone"`
	AvailabilityHours *int     `json:"availability_hours" db:"availability_hours"`
}

// EnrichedCandidate is a CandidateRaw joined with relational data. A
// candidate whose profile cannot be resolved is dropped, never returned
// partially filled.
type EnrichedCandidate struct {
	UserID      int         `json:"user_id"`
	RawScore    float64     `json:"raw_score"`
	Profile     *Profile    `json:"profile"`
	Venture     *Venture    `json:"venture,omitempty"`
	Preference  *Preference `json:"preference,omitempty"`
	CityName    *string     `json:"city_name,omitempty"`
	CountryName *string     `json:"country_name,omitempty"`
	LikedAt     *time.Time  `json:"liked_at,omitempty"`
}

type BannerCounts struct {
	TotalProfiles int `json:"total_profiles" db:"total_profiles"`
	RelatedTopics int `json:"related_topics" db:"related_topics"`
}
