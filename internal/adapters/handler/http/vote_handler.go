package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/mypolls/internal/adapters/metrics"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type VoteHandler struct {
	service   ports.PollService
	validator *requestValidator
}

func NewVoteHandler(service ports.PollService) *VoteHandler {
	return &VoteHandler{
		service:   service,
		validator: newRequestValidator(),
	}
}

type voteRequest struct {
	ChoiceID string `json:"choice_id" validate:"required,uuid"`
}

// CastVote godoc
// @Summary      Votes on a poll
// @Description  Records the caller's single vote and returns the updated poll. A second vote on the same poll is rejected.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Poll id"
// @Param        vote  body      voteRequest  true  "Vote"
// @Success      200   {object}  domain.PollView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /polls/{id}/votes [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.CastVote(r.Context(), principalFrom(r), pollID, uuid.MustParse(req.ChoiceID))
	metrics.ObserveVote(err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, poll)
}
