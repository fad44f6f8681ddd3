package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

const defaultSummaryBatchSize = 100

type summaryService struct {
	pollRepo  ports.PollRepository
	tallies   ports.TallyService
	batchSize int
	now       func() time.Time
}

func NewSummaryService(pollRepo ports.PollRepository, tallies ports.TallyService, batchSize int) ports.SummaryService {
	if batchSize <= 0 {
		batchSize = defaultSummaryBatchSize
	}
	return &summaryService{
		pollRepo:  pollRepo,
		tallies:   tallies,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// SummarizeAllPolls walks every poll in batches and tallies each batch in
// parallel. Summaries come back in listing order, newest poll first. The walk
// is keyed on the last poll of each batch, so polls created meanwhile are left
// out rather than shifting later batches.
func (s *summaryService) SummarizeAllPolls(ctx context.Context) ([]domain.PollSummary, error) {
	var batches [][]*domain.Poll
	var after *domain.PollCursor
	for {
		polls, err := s.pollRepo.ListAfter(ctx, after, s.batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch polls: %w", err)
		}
		if len(polls) == 0 {
			break
		}
		batches = append(batches, polls)
		if len(polls) < s.batchSize {
			break
		}
		cursor := polls[len(polls)-1].Cursor()
		after = &cursor
	}

	results := make([][]domain.PollSummary, len(batches))
	now := s.now()

	var wg sync.WaitGroup
	errChan := make(chan error, len(batches))

	for i, batch := range batches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summaries, err := s.summarize(ctx, batch, now)
			if err != nil {
				errChan <- fmt.Errorf("failed to summarize batch %d: %w", i, err)
				return
			}
			results[i] = summaries
		}()
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]domain.PollSummary, 0)
	for _, r := range results {
		summaries = append(summaries, r...)
	}
	return summaries, nil
}

func (s *summaryService) summarize(ctx context.Context, polls []*domain.Poll, now time.Time) ([]domain.PollSummary, error) {
	ids := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
	}

	tally, err := s.tallies.TallyMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.PollSummary, 0, len(polls))
	for _, p := range polls {
		summaries = append(summaries, summarizePoll(p, tally, now))
	}
	return summaries, nil
}

// summarizePoll lists every choice tied for the highest count. A poll with
// no votes has no leading choice.
func summarizePoll(p *domain.Poll, tally domain.Tally, now time.Time) domain.PollSummary {
	summary := domain.PollSummary{
		PollID:    p.ID,
		Question:  p.Question,
		Leading:   []uuid.UUID{},
		IsExpired: p.IsExpired(now),
	}

	var best int64
	for _, c := range p.Choices {
		n := tally.Count(c.ID)
		summary.TotalVotes += n
		switch {
		case n == 0:
		case n > best:
			best = n
			summary.Leading = []uuid.UUID{c.ID}
		case n == best:
			summary.Leading = append(summary.Leading, c.ID)
		}
	}
	return summary
}
