package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	ChoiceID  uuid.UUID `json:"choice_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Tally maps a choice id to the number of votes it received.
type Tally map[uuid.UUID]int64

// Count returns the votes of a choice, zero when the choice has none.
func (t Tally) Count(choiceID uuid.UUID) int64 {
	return t[choiceID]
}

// PollSummary is a point-in-time result of a poll, never persisted.
type PollSummary struct {
	PollID     uuid.UUID   `json:"poll_id"`
	Question   string      `json:"question"`
	TotalVotes int64       `json:"total_votes"`
	Leading    []uuid.UUID `json:"leading_choices"`
	IsExpired  bool        `json:"is_expired"`
}
