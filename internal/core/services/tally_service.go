package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

// tallyService reads vote counts straight from the ledger on every call.
// Nothing is cached between requests.
type tallyService struct {
	repo ports.TallyRepository
}

func NewTallyService(repo ports.TallyRepository) ports.TallyService {
	return &tallyService{repo: repo}
}

func (s *tallyService) TallyOne(ctx context.Context, pollID uuid.UUID) (domain.Tally, error) {
	return s.repo.CountByPollGroupByChoice(ctx, pollID)
}

func (s *tallyService) TallyMany(ctx context.Context, pollIDs []uuid.UUID) (domain.Tally, error) {
	if len(pollIDs) == 0 {
		return domain.Tally{}, nil
	}
	return s.repo.CountByPollsGroupByChoice(ctx, pollIDs)
}

// UserVoteFor returns nil for anonymous viewers without touching storage.
func (s *tallyService) UserVoteFor(ctx context.Context, viewer *domain.UserPrincipal, pollID uuid.UUID) (*uuid.UUID, error) {
	if viewer == nil {
		return nil, nil
	}
	return s.repo.UserChoice(ctx, viewer.ID, pollID)
}

func (s *tallyService) UserVotesFor(ctx context.Context, viewer *domain.UserPrincipal, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	if viewer == nil || len(pollIDs) == 0 {
		return map[uuid.UUID]uuid.UUID{}, nil
	}
	return s.repo.UserChoices(ctx, viewer.ID, pollIDs)
}
