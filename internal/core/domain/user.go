package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const RoleUser = "ROLE_USER"

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPrincipal is the already authenticated caller of a request.
type UserPrincipal struct {
	ID       uuid.UUID
	Username string
	Name     string
	Roles    []string
}

func (p *UserPrincipal) HasRole(role string) bool {
	return p != nil && slices.Contains(p.Roles, role)
}

func (u *User) Principal() *UserPrincipal {
	return &UserPrincipal{ID: u.ID, Username: u.Username, Name: u.Name, Roles: u.Roles}
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Name: u.Name}
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	JoinedAt  time.Time `json:"joined_at"`
	PollCount int64     `json:"poll_count"`
	VoteCount int64     `json:"vote_count"`
}
