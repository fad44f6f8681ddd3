package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type pollService struct {
	pollRepo    ports.PollRepository
	userRepo    ports.UserRepository
	voteRepo    ports.VoteRepository
	tallies     ports.TallyService
	ledger      ports.VoteService
	maxPageSize int
	now         func() time.Time
}

func NewPollService(
	pollRepo ports.PollRepository,
	userRepo ports.UserRepository,
	voteRepo ports.VoteRepository,
	tallies ports.TallyService,
	ledger ports.VoteService,
	maxPageSize int,
) ports.PollService {
	return &pollService{
		pollRepo:    pollRepo,
		userRepo:    userRepo,
		voteRepo:    voteRepo,
		tallies:     tallies,
		ledger:      ledger,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, creator *domain.UserPrincipal, input ports.CreatePollInput) (*domain.Poll, error) {
	if creator == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validateCreatePoll(input); err != nil {
		return nil, err
	}

	pollID := uuid.New()
	now := s.now().UTC()

	poll := &domain.Poll{
		ID:        pollID,
		Question:  strings.TrimSpace(input.Question),
		CreatedBy: creator.ID,
		CreatedAt: now,
		ExpiresAt: domain.ExpirationFor(now, input.Days, input.Hours),
	}

	for _, text := range input.Choices {
		poll.Choices = append(poll.Choices, domain.Choice{
			ID:     uuid.New(),
			PollID: pollID,
			Text:   strings.TrimSpace(text),
		})
	}

	if err := s.pollRepo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func validateCreatePoll(input ports.CreatePollInput) error {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return domain.NewValidationError("question is required")
	}
	if utf8.RuneCountInString(question) > domain.MaxQuestionLength {
		return domain.NewValidationError("question must be at most %d characters", domain.MaxQuestionLength)
	}

	if len(input.Choices) < domain.MinChoices || len(input.Choices) > domain.MaxChoices {
		return domain.NewValidationError("a poll needs between %d and %d choices", domain.MinChoices, domain.MaxChoices)
	}
	for i, text := range input.Choices {
		text = strings.TrimSpace(text)
		if text == "" {
			return domain.NewValidationError("choice %d is empty", i+1)
		}
		if utf8.RuneCountInString(text) > domain.MaxChoiceTextLength {
			return domain.NewValidationError("choice %d must be at most %d characters", i+1, domain.MaxChoiceTextLength)
		}
	}

	if input.Days < 0 || input.Days > domain.MaxPollDays {
		return domain.NewValidationError("days must be between 0 and %d", domain.MaxPollDays)
	}
	if input.Hours < 0 || input.Hours > domain.MaxPollHours {
		return domain.NewValidationError("hours must be between 0 and %d", domain.MaxPollHours)
	}
	if input.Days == 0 && input.Hours == 0 {
		return domain.NewValidationError("poll length must be greater than zero")
	}

	return nil
}

func (s *pollService) GetPoll(ctx context.Context, id uuid.UUID, viewer *domain.UserPrincipal) (*domain.PollView, error) {
	poll, err := s.pollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tally, err := s.tallies.TallyOne(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	creator := domain.UserSummary{ID: poll.CreatedBy}
	user, err := s.userRepo.GetByID(ctx, poll.CreatedBy)
	switch {
	case err == nil:
		creator = user.Summary()
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to get poll creator: %w", err)
	}

	selected, err := s.tallies.UserVoteFor(ctx, viewer, poll.ID)
	if err != nil {
		return nil, err
	}

	view := domain.NewPollView(poll, tally, creator, selected, s.now())
	return &view, nil
}

func (s *pollService) CastVote(ctx context.Context, voter *domain.UserPrincipal, pollID, choiceID uuid.UUID) (*domain.PollView, error) {
	if voter == nil {
		return nil, domain.ErrUnauthorized
	}

	voteID, err := s.ledger.Cast(ctx, ports.VoteInput{
		PollID:   pollID,
		ChoiceID: choiceID,
		UserID:   voter.ID,
	})
	if err != nil {
		return nil, err
	}

	view, err := s.GetPoll(ctx, pollID, voter)
	if err != nil {
		return nil, &domain.VoteRecordedError{VoteID: voteID, Err: err}
	}
	return view, nil
}

func (s *pollService) ListPolls(ctx context.Context, viewer *domain.UserPrincipal, page domain.PageRequest) (domain.Page[domain.PollView], error) {
	if err := page.Validate(s.maxPageSize); err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	polls, total, err := s.pollRepo.List(ctx, page.Size, page.Offset())
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	views, err := s.views(ctx, polls, viewer, nil)
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	return domain.NewPage(views, page, total), nil
}

func (s *pollService) ListPollsCreatedBy(ctx context.Context, username string, viewer *domain.UserPrincipal, page domain.PageRequest) (domain.Page[domain.PollView], error) {
	if err := page.Validate(s.maxPageSize); err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	polls, total, err := s.pollRepo.ListByCreator(ctx, user.ID, page.Size, page.Offset())
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	creators := map[uuid.UUID]domain.UserSummary{user.ID: user.Summary()}
	views, err := s.views(ctx, polls, viewer, creators)
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	return domain.NewPage(views, page, total), nil
}

func (s *pollService) ListPollsVotedBy(ctx context.Context, username string, viewer *domain.UserPrincipal, page domain.PageRequest) (domain.Page[domain.PollView], error) {
	if err := page.Validate(s.maxPageSize); err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	pollIDs, total, err := s.voteRepo.VotedPollIDs(ctx, user.ID, page.Size, page.Offset())
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}
	if len(pollIDs) == 0 {
		return domain.NewPage[domain.PollView](nil, page, total), nil
	}

	polls, err := s.pollRepo.FindByIDs(ctx, pollIDs)
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	views, err := s.views(ctx, polls, viewer, nil)
	if err != nil {
		return domain.Page[domain.PollView]{}, err
	}

	return domain.NewPage(views, page, total), nil
}

// views renders a batch of polls with one tally query, one selection query
// and, unless creators is supplied, one creator query.
func (s *pollService) views(ctx context.Context, polls []*domain.Poll, viewer *domain.UserPrincipal, creators map[uuid.UUID]domain.UserSummary) ([]domain.PollView, error) {
	if len(polls) == 0 {
		return nil, nil
	}

	pollIDs := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		pollIDs = append(pollIDs, p.ID)
	}

	tally, err := s.tallies.TallyMany(ctx, pollIDs)
	if err != nil {
		return nil, err
	}

	selections, err := s.tallies.UserVotesFor(ctx, viewer, pollIDs)
	if err != nil {
		return nil, err
	}

	if creators == nil {
		creators, err = s.creators(ctx, polls)
		if err != nil {
			return nil, err
		}
	}

	return domain.NewPollViews(polls, tally, creators, selections, s.now()), nil
}

func (s *pollService) creators(ctx context.Context, polls []*domain.Poll) (map[uuid.UUID]domain.UserSummary, error) {
	seen := make(map[uuid.UUID]struct{}, len(polls))
	ids := make([]uuid.UUID, 0, len(polls))
	for _, p := range polls {
		if _, ok := seen[p.CreatedBy]; ok {
			continue
		}
		seen[p.CreatedBy] = struct{}{}
		ids = append(ids, p.CreatedBy)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll creators: %w", err)
	}

	creators := make(map[uuid.UUID]domain.UserSummary, len(users))
	for _, u := range users {
		creators[u.ID] = u.Summary()
	}
	return creators, nil
}
