package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

func newTestVoteService(store *memStore) ports.VoteService {
	return NewVoteService(memPollRepo{store}, memVoteRepo{store}, zerolog.Nop())
}

func TestVoteService_Cast(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	poll := store.addPoll(alice.ID, time.Now().Add(-time.Hour), 24*time.Hour, "Yes", "No")
	svc := newTestVoteService(store)

	t.Run("records the vote", func(t *testing.T) {
		id, err := svc.Cast(context.Background(), ports.VoteInput{
			PollID:   poll.ID,
			ChoiceID: poll.Choices[0].ID,
			UserID:   alice.ID,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		assert.Equal(t, 1, store.voteCount())
	})

	t.Run("rejects a second vote by the same user", func(t *testing.T) {
		_, err := svc.Cast(context.Background(), ports.VoteInput{
			PollID:   poll.ID,
			ChoiceID: poll.Choices[1].ID,
			UserID:   alice.ID,
		})

		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Equal(t, 1, store.voteCount())
	})
}

func TestVoteService_Cast_Rejections(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	open := store.addPoll(alice.ID, time.Now().Add(-time.Hour), 24*time.Hour, "Yes", "No")
	closed := store.addPoll(alice.ID, time.Now().Add(-2*time.Hour), time.Hour, "Yes", "No")
	svc := newTestVoteService(store)

	tests := []struct {
		name    string
		input   ports.VoteInput
		wantErr error
	}{
		{
			name:    "unknown poll",
			input:   ports.VoteInput{PollID: uuid.New(), ChoiceID: open.Choices[0].ID, UserID: alice.ID},
			wantErr: domain.ErrPollNotFound,
		},
		{
			name:    "expired poll",
			input:   ports.VoteInput{PollID: closed.ID, ChoiceID: closed.Choices[0].ID, UserID: alice.ID},
			wantErr: domain.ErrPollExpired,
		},
		{
			name:    "choice of another poll",
			input:   ports.VoteInput{PollID: open.ID, ChoiceID: closed.Choices[0].ID, UserID: alice.ID},
			wantErr: domain.ErrChoiceNotFound,
		},
		{
			name:    "unknown choice",
			input:   ports.VoteInput{PollID: open.ID, ChoiceID: uuid.New(), UserID: alice.ID},
			wantErr: domain.ErrChoiceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Cast(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Zero(t, store.voteCount())
}

func TestVoteService_Cast_ExpiresAtBoundary(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	poll := store.addPoll(alice.ID, created, time.Hour, "Yes", "No")

	svc := newTestVoteService(store).(*voteService)
	svc.now = func() time.Time { return poll.ExpiresAt }

	_, err := svc.Cast(context.Background(), ports.VoteInput{
		PollID:   poll.ID,
		ChoiceID: poll.Choices[0].ID,
		UserID:   alice.ID,
	})

	assert.ErrorIs(t, err, domain.ErrPollExpired)
}

func TestVoteService_Cast_Concurrent(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	poll := store.addPoll(alice.ID, time.Now(), time.Hour, "Yes", "No")
	svc := newTestVoteService(store)

	const attempts = 50

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Cast(context.Background(), ports.VoteInput{
				PollID:   poll.ID,
				ChoiceID: poll.Choices[i%2].ID,
				UserID:   alice.ID,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrAlreadyVoted):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, 1, store.voteCount())
}
