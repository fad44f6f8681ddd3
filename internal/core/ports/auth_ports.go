package ports

import (
	"context"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
)

type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (string, error) // returns access_token
	Authenticate(ctx context.Context, accessToken string) (*domain.UserPrincipal, error)
}
