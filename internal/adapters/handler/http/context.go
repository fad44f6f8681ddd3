package http

import (
	"context"
	"net/http"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	authErrorKey contextKey = "auth_error"
)

func withPrincipal(ctx context.Context, p *domain.UserPrincipal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// principalFrom returns the authenticated caller, or nil for anonymous requests.
func principalFrom(r *http.Request) *domain.UserPrincipal {
	p, _ := r.Context().Value(principalKey).(*domain.UserPrincipal)
	return p
}

func authErrorFrom(r *http.Request) error {
	err, _ := r.Context().Value(authErrorKey).(error)
	return err
}
