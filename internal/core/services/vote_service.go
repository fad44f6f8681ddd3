package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, log zerolog.Logger) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		log:      log,
		now:      time.Now,
	}
}

// Cast checks, in order, that the poll exists, is still open and owns the
// choice, then attempts the insert. There is no "has voted" pre-check: the
// unique (poll_id, user_id) constraint decides which of concurrent casts wins.
func (s *voteService) Cast(ctx context.Context, input ports.VoteInput) (uuid.UUID, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return uuid.Nil, err
	}

	now := s.now()
	if poll.IsExpired(now) {
		return uuid.Nil, domain.ErrPollExpired
	}

	if _, ok := poll.Choice(input.ChoiceID); !ok {
		return uuid.Nil, domain.ErrChoiceNotFound
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    poll.ID,
		ChoiceID:  input.ChoiceID,
		UserID:    input.UserID,
		CreatedAt: now,
	}

	if err := s.voteRepo.SaveVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			s.log.Info().
				Stringer("poll_id", poll.ID).
				Stringer("user_id", input.UserID).
				Msg("user has already voted in poll")
			return uuid.Nil, domain.ErrAlreadyVoted
		}
		return uuid.Nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	return vote.ID, nil
}
