package domain

import "time"

// Action is the closed set of interaction verbs. Anything else is rejected
// at the boundary with ErrInvalidAction.
type Action string

const (
	ActionLike    Action = "like"
	ActionPass    Action = "pass"
	ActionBlock   Action = "block"
	ActionUnblock Action = "unblock"
)

// ParseAction validates a raw action string from a request body.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionLike, ActionPass, ActionBlock, ActionUnblock:
		return Action(s), nil
	}
	return "", ErrInvalidAction
}

type Interaction struct {
	ID              int       `json:"id" db:"id"`
	ActorID         int       `json:"actor_id" db:"actor_id"`
	TargetID        int       `json:"target_id" db:"target_id"`
	Action          Action    `json:"action" db:"action"`
	ActorVentureID  *int      `json:"actor_venture_id" db:"actor_venture_id"`
	TargetVentureID *int      `json:"target_venture_id" db:"target_venture_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
