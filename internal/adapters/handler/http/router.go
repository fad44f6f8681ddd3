package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type Handlers struct {
	Polls  *PollHandler
	Votes  *VoteHandler
	Users  *UserHandler
	Auth   *AuthHandler
	Health *HealthHandler
}

type RouterOptions struct {
	Log            zerolog.Logger
	AuthService    ports.AuthService
	RequestTimeout time.Duration
}

func NewHandler(h Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Log))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/health", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}
		r.Use(Authenticate(opts.AuthService))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.Signup)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", h.Polls.ListPolls)
			r.Get("/{id}", h.Polls.GetPoll)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleUser))
				r.Post("/", h.Polls.CreatePoll)
				r.Post("/{id}/votes", h.Votes.CastVote)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.With(RequireRole(domain.RoleUser)).Get("/me", h.Users.GetMe)
			r.Get("/checkUsernameAvailability", h.Users.CheckUsernameAvailability)
			r.Get("/checkEmailAvailability", h.Users.CheckEmailAvailability)
		})

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", h.Users.GetProfile)
			r.Get("/polls", h.Users.ListPollsCreatedBy)
			r.Get("/votes", h.Users.ListPollsVotedBy)
		})
	})

	return r
}
