package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxQuestionLength   = 256
	MaxChoiceTextLength = 40
	MinChoices          = 2
	MaxChoices          = 6
	MaxPollDays         = 7
	MaxPollHours        = 23
)

type Poll struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Choices   []Choice  `json:"choices"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Choice struct {
	ID     uuid.UUID `json:"id"`
	PollID uuid.UUID `json:"poll_id"`
	Text   string    `json:"text"`
}

// ExpirationFor computes the expiration instant of a poll created at createdAt
// and open for the given number of days and hours.
func ExpirationFor(createdAt time.Time, days, hours int) time.Time {
	return createdAt.Add(time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour)
}

// IsExpired reports whether the poll no longer accepts votes at now.
// The boundary instant itself counts as expired.
func (p *Poll) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Choice returns the choice with the given id when it belongs to the poll.
func (p *Poll) Choice(id uuid.UUID) (Choice, bool) {
	for _, c := range p.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// PollCursor is a position in the newest-first poll listing, which orders by
// created_at descending and then by id.
type PollCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func (p *Poll) Cursor() PollCursor {
	return PollCursor{CreatedAt: p.CreatedAt, ID: p.ID}
}

// Before reports whether the cursor sorts ahead of p in the listing.
func (c PollCursor) Before(p *Poll) bool {
	if p.CreatedAt.Equal(c.CreatedAt) {
		return c.ID.String() < p.ID.String()
	}
	return p.CreatedAt.Before(c.CreatedAt)
}
