package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type UserHandler struct {
	users           ports.UserService
	polls           ports.PollService
	defaultPageSize int
}

func NewUserHandler(users ports.UserService, polls ports.PollService, defaultPageSize int) *UserHandler {
	return &UserHandler{
		users:           users,
		polls:           polls,
		defaultPageSize: defaultPageSize,
	}
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

// GetMe godoc
// @Summary      Returns the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.UserSummary
// @Failure      401  {object}  errorResponse
// @Router       /user/me [get]
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	if principal == nil {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}

	writeJSON(w, r, http.StatusOK, domain.UserSummary{
		ID:       principal.ID,
		Username: principal.Username,
		Name:     principal.Name,
	})
}

func (h *UserHandler) CheckUsernameAvailability(w http.ResponseWriter, r *http.Request) {
	available, err := h.users.IsUsernameAvailable(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, availabilityResponse{Available: available})
}

func (h *UserHandler) CheckEmailAvailability(w http.ResponseWriter, r *http.Request) {
	available, err := h.users.IsEmailAvailable(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, availabilityResponse{Available: available})
}

// GetProfile godoc
// @Summary      Returns a public user profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.UserProfile
// @Failure      404       {object}  errorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

// ListPollsCreatedBy godoc
// @Summary      Lists the polls a user created
// @Tags         users
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        page      query     int     false  "Page number, zero based"
// @Param        size      query     int     false  "Page size"
// @Success      200       {object}  domain.Page[domain.PollView]
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username}/polls [get]
func (h *UserHandler) ListPollsCreatedBy(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, h.defaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	polls, err := h.polls.ListPollsCreatedBy(r.Context(), chi.URLParam(r, "username"), principalFrom(r), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, polls)
}

// ListPollsVotedBy godoc
// @Summary      Lists the polls a user voted on
// @Tags         users
// @Produce      json
// @Param        username  path      string  true   "Username"
// @Param        page      query     int     false  "Page number, zero based"
// @Param        size      query     int     false  "Page size"
// @Success      200       {object}  domain.Page[domain.PollView]
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username}/votes [get]
func (h *UserHandler) ListPollsVotedBy(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, h.defaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	polls, err := h.polls.ListPollsVotedBy(r.Context(), chi.URLParam(r, "username"), principalFrom(r), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, polls)
}
