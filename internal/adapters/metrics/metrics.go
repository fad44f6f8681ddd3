// Package metrics defines the Prometheus collectors of the polls service.
// Collectors register with the default registry on package init.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

const namespace = "polls"

// Vote cast outcomes used as the result label.
const (
	VoteAccepted  = "accepted"
	VoteDuplicate = "duplicate"
	VoteExpired   = "expired"
	VoteInvalid   = "invalid"
	VoteNotFound  = "not_found"
	VoteError     = "error"
)

// VotesCastTotal counts vote attempts by outcome.
var VotesCastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of vote attempts, labelled by result.",
	},
	[]string{"result"},
)

// PollsCreatedTotal counts successfully created polls.
var PollsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of polls created.",
	},
)

// HTTPRequestDuration measures request latency by route pattern.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// ObserveVote records the outcome of a cast attempt.
func ObserveVote(err error) {
	VotesCastTotal.WithLabelValues(VoteResult(err)).Inc()
}

// VoteResult maps a cast error to its result label. A vote that was stored
// counts as accepted even when the poll could not be read back.
func VoteResult(err error) string {
	var recorded *domain.VoteRecordedError
	switch {
	case err == nil, errors.As(err, &recorded):
		return VoteAccepted
	case errors.Is(err, domain.ErrAlreadyVoted):
		return VoteDuplicate
	case errors.Is(err, domain.ErrPollExpired):
		return VoteExpired
	case errors.Is(err, domain.ErrNotFound):
		return VoteNotFound
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnauthorized):
		return VoteInvalid
	default:
		return VoteError
	}
}

// ObserveRequest records one served request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
