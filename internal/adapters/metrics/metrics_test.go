package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

func TestVoteResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, VoteAccepted},
		{domain.ErrAlreadyVoted, VoteDuplicate},
		{domain.ErrPollExpired, VoteExpired},
		{domain.ErrChoiceNotFound, VoteNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrPollNotFound), VoteNotFound},
		{domain.NewValidationError("bad"), VoteInvalid},
		{errors.New("connection reset"), VoteError},
		{&domain.VoteRecordedError{Err: errors.New("connection reset")}, VoteAccepted},
		{fmt.Errorf("cast: %w", &domain.VoteRecordedError{Err: domain.ErrPollNotFound}), VoteAccepted},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VoteResult(tt.err), "error %v", tt.err)
	}
}

func TestObserveVote(t *testing.T) {
	before := testutil.ToFloat64(VotesCastTotal.WithLabelValues(VoteDuplicate))

	ObserveVote(domain.ErrAlreadyVoted)

	assert.Equal(t, before+1, testutil.ToFloat64(VotesCastTotal.WithLabelValues(VoteDuplicate)))
}
