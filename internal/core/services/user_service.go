package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type userService struct {
	userRepo ports.UserRepository
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewUserService(userRepo ports.UserRepository, pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.UserService {
	return &userService{
		userRepo: userRepo,
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, username string) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	polls, err := s.pollRepo.CountByCreator(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count polls: %w", err)
	}

	votes, err := s.voteRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	return &domain.UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		JoinedAt:  user.CreatedAt,
		PollCount: polls,
		VoteCount: votes,
	}, nil
}

func (s *userService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, domain.NewValidationError("username is required")
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *userService) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, domain.NewValidationError("email is required")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
