package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	// FindByIDs returns the polls with the given ids, newest first.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Poll, error)
	// List returns a page of polls, newest first, and the total number of polls.
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, int64, error)
	ListByCreator(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Poll, int64, error)
	// ListAfter returns up to limit polls that follow the cursor in listing
	// order, or the first ones when after is nil. Polls created later sort
	// ahead of any cursor, so a walk never repeats or skips a row.
	ListAfter(ctx context.Context, after *domain.PollCursor, limit int) ([]*domain.Poll, error)
	CountByCreator(ctx context.Context, userID uuid.UUID) (int64, error)
}

type CreatePollInput struct {
	Question string
	Choices  []string
	Days     int
	Hours    int
}

type PollService interface {
	Create(ctx context.Context, creator *domain.UserPrincipal, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id uuid.UUID, viewer *domain.UserPrincipal) (*domain.PollView, error)
	// CastVote records the voter's choice and returns the poll as it reads afterwards.
	CastVote(ctx context.Context, voter *domain.UserPrincipal, pollID, choiceID uuid.UUID) (*domain.PollView, error)
	ListPolls(ctx context.Context, viewer *domain.UserPrincipal, page domain.PageRequest) (domain.Page[domain.PollView], error)
	ListPollsCreatedBy(ctx context.Context, username string, viewer *domain.UserPrincipal, page domain.PageRequest) (domain.Page[domain.PollView], error)
	ListPollsVotedBy(ctx context.Context, username string, viewer *domain.UserPrincipal, page domain.PageRequest) (domain.Page[domain.PollView], error)
}

type SummaryService interface {
	SummarizeAllPolls(ctx context.Context) ([]domain.PollSummary, error)
}
