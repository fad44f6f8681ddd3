package domain

import (
	"time"

	"github.com/google/uuid"
)

type PollView struct {
	ID             uuid.UUID    `json:"id"`
	Question       string       `json:"question"`
	Choices        []ChoiceView `json:"choices"`
	CreatedBy      UserSummary  `json:"created_by"`
	CreatedAt      time.Time    `json:"created_at"`
	ExpiresAt      time.Time    `json:"expires_at"`
	IsExpired      bool         `json:"is_expired"`
	SelectedChoice *uuid.UUID   `json:"selected_choice,omitempty"`
	TotalVotes     int64        `json:"total_votes"`
}

type ChoiceView struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	VoteCount int64     `json:"vote_count"`
}

// NewPollView assembles the response view of a poll. Expiry is evaluated
// against now, the assembly instant, and choices missing from the tally
// report zero votes.
func NewPollView(poll *Poll, tally Tally, creator UserSummary, selected *uuid.UUID, now time.Time) PollView {
	view := PollView{
		ID:        poll.ID,
		Question:  poll.Question,
		Choices:   make([]ChoiceView, 0, len(poll.Choices)),
		CreatedBy: creator,
		CreatedAt: poll.CreatedAt,
		ExpiresAt: poll.ExpiresAt,
		IsExpired: poll.IsExpired(now),
	}

	for _, c := range poll.Choices {
		count := tally.Count(c.ID)
		view.Choices = append(view.Choices, ChoiceView{ID: c.ID, Text: c.Text, VoteCount: count})
		view.TotalVotes += count
	}

	if selected != nil {
		id := *selected
		view.SelectedChoice = &id
	}

	return view
}

// NewPollViews assembles views for polls, keeping their order. Creators
// absent from creators are rendered with their id only; selections holds
// the caller's chosen choice per poll id.
func NewPollViews(polls []*Poll, tally Tally, creators map[uuid.UUID]UserSummary, selections map[uuid.UUID]uuid.UUID, now time.Time) []PollView {
	views := make([]PollView, 0, len(polls))
	for _, p := range polls {
		creator, ok := creators[p.CreatedBy]
		if !ok {
			creator = UserSummary{ID: p.CreatedBy}
		}

		var selected *uuid.UUID
		if choiceID, ok := selections[p.ID]; ok {
			selected = &choiceID
		}

		views = append(views, NewPollView(p, tally, creator, selected, now))
	}
	return views
}
