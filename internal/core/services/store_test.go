package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

// memStore backs every repository port in memory. The (poll, user) pair is
// unique under mu, like the votes table constraint.
type memStore struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
	users map[uuid.UUID]*domain.User
	votes []*domain.Vote
	calls int
	lists int
	// afterList runs once each ListAfter call has released mu.
	afterList func(call int)
}

func newMemStore() *memStore {
	return &memStore{
		polls: make(map[uuid.UUID]*domain.Poll),
		users: make(map[uuid.UUID]*domain.User),
	}
}

func (s *memStore) touch() {
	s.calls++
}

func (s *memStore) addUser(username string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{
		ID:        uuid.New(),
		Name:      strings.ToUpper(username[:1]) + username[1:],
		Username:  username,
		Email:     username + "@example.com",
		Roles:     []string{domain.RoleUser},
		CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addPoll(creator uuid.UUID, createdAt time.Time, ttl time.Duration, texts ...string) *domain.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &domain.Poll{
		ID:        uuid.New(),
		Question:  "Question?",
		CreatedBy: creator,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
	for _, text := range texts {
		p.Choices = append(p.Choices, domain.Choice{ID: uuid.New(), PollID: p.ID, Text: text})
	}
	s.polls[p.ID] = p
	return p
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memStore) voteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes)
}

func (s *memStore) sortedPolls(keep func(*domain.Poll) bool) []*domain.Poll {
	var out []*domain.Poll
	for _, p := range s.polls {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func pageOf[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

type memPollRepo struct{ *memStore }

func (r memPollRepo) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	clone := *poll
	r.polls[poll.ID] = &clone
	return nil
}

func (r memPollRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	p, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return p, nil
}

func (r memPollRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return r.sortedPolls(func(p *domain.Poll) bool { return wanted[p.ID] }), nil
}

func (r memPollRepo) List(_ context.Context, limit, offset int) ([]*domain.Poll, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	all := r.sortedPolls(nil)
	return pageOf(all, limit, offset), int64(len(all)), nil
}

func (r memPollRepo) ListByCreator(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Poll, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	all := r.sortedPolls(func(p *domain.Poll) bool { return p.CreatedBy == userID })
	return pageOf(all, limit, offset), int64(len(all)), nil
}

func (r memPollRepo) ListAfter(_ context.Context, after *domain.PollCursor, limit int) ([]*domain.Poll, error) {
	r.mu.Lock()
	r.touch()
	r.lists++
	call, hook := r.lists, r.afterList
	all := r.sortedPolls(func(p *domain.Poll) bool { return after == nil || after.Before(p) })
	r.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return pageOf(all, limit, 0), nil
}

func (r memPollRepo) CountByCreator(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	return int64(len(r.sortedPolls(func(p *domain.Poll) bool { return p.CreatedBy == userID }))), nil
}

type memVoteRepo struct{ *memStore }

func (r memVoteRepo) SaveVote(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	for _, v := range r.votes {
		if v.PollID == vote.PollID && v.UserID == vote.UserID {
			return domain.ErrAlreadyVoted
		}
	}
	clone := *vote
	r.votes = append(r.votes, &clone)
	return nil
}

func (r memVoteRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	var n int64
	for _, v := range r.votes {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memVoteRepo) VotedPollIDs(_ context.Context, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	var mine []*domain.Vote
	for _, v := range r.votes {
		if v.UserID == userID {
			mine = append(mine, v)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	ids := make([]uuid.UUID, 0, len(mine))
	for _, v := range mine {
		ids = append(ids, v.PollID)
	}
	return pageOf(ids, limit, offset), int64(len(ids)), nil
}

type memTallyRepo struct{ *memStore }

func (r memTallyRepo) CountByPollGroupByChoice(ctx context.Context, pollID uuid.UUID) (domain.Tally, error) {
	return r.CountByPollsGroupByChoice(ctx, []uuid.UUID{pollID})
}

func (r memTallyRepo) CountByPollsGroupByChoice(_ context.Context, pollIDs []uuid.UUID) (domain.Tally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	wanted := make(map[uuid.UUID]bool, len(pollIDs))
	for _, id := range pollIDs {
		wanted[id] = true
	}
	tally := domain.Tally{}
	for _, v := range r.votes {
		if wanted[v.PollID] {
			tally[v.ChoiceID]++
		}
	}
	return tally, nil
}

func (r memTallyRepo) UserChoice(_ context.Context, userID, pollID uuid.UUID) (*uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	for _, v := range r.votes {
		if v.UserID == userID && v.PollID == pollID {
			id := v.ChoiceID
			return &id, nil
		}
	}
	return nil, nil
}

func (r memTallyRepo) UserChoices(_ context.Context, userID uuid.UUID, pollIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	wanted := make(map[uuid.UUID]bool, len(pollIDs))
	for _, id := range pollIDs {
		wanted[id] = true
	}
	out := make(map[uuid.UUID]uuid.UUID)
	for _, v := range r.votes {
		if v.UserID == userID && wanted[v.PollID] {
			out[v.PollID] = v.ChoiceID
		}
	}
	return out, nil
}

type memUserRepo struct{ *memStore }

func (r memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUserRepo) GetByUsernameOrEmail(_ context.Context, usernameOrEmail string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	for _, u := range r.users {
		if u.Username == usernameOrEmail || u.Email == strings.ToLower(usernameOrEmail) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(context.Background(), username)
	return err == nil, nil
}

func (r memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
