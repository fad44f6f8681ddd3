package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

type VoteRepository interface {
	// SaveVote inserts the vote. It returns domain.ErrAlreadyVoted when the
	// (poll, user) pair already has a vote; the store enforces that atomically.
	SaveVote(ctx context.Context, vote *domain.Vote) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// VotedPollIDs returns a page of poll ids the user voted on, most recent
	// vote first, and the total number of such polls.
	VotedPollIDs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error)
}

type TallyRepository interface {
	CountByPollGroupByChoice(ctx context.Context, pollID uuid.UUID) (domain.Tally, error)
	CountByPollsGroupByChoice(ctx context.Context, pollIDs []uuid.UUID) (domain.Tally, error)
	// UserChoice returns the choice the user voted for, or nil.
	UserChoice(ctx context.Context, userID, pollID uuid.UUID) (*uuid.UUID, error)
	UserChoices(ctx context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

type VoteInput struct {
	PollID   uuid.UUID
	ChoiceID uuid.UUID
	UserID   uuid.UUID
}

type VoteService interface {
	// Cast records a single vote and returns its id.
	Cast(ctx context.Context, input VoteInput) (uuid.UUID, error)
}

type TallyService interface {
	TallyOne(ctx context.Context, pollID uuid.UUID) (domain.Tally, error)
	TallyMany(ctx context.Context, pollIDs []uuid.UUID) (domain.Tally, error)
	UserVoteFor(ctx context.Context, viewer *domain.UserPrincipal, pollID uuid.UUID) (*uuid.UUID, error)
	UserVotesFor(ctx context.Context, viewer *domain.UserPrincipal, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}
