package domain

import (
	"time"

	"github.com/google/uuid"
)

// Venture is a user's pitched idea. A user may have many; only the most
// recently created one counts as current.
type Venture struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Pitch     string    `json:"pitch" db:"pitch"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EmbeddingRef points at a venture's stored embedding row. KNN queries and
// banner aggregates must use the same model+version so counts and rankings
// come from one embedding generation.
type EmbeddingRef struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Model   string    `json:"model" db:"model"`
	Version string    `json:"version" db:"version"`
}
