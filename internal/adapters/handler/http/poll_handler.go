package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/mypolls/internal/adapters/metrics"
	"github.com/vncsmyrnk/mypolls/internal/core/domain"
	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type PollHandler struct {
	service         ports.PollService
	validator       *requestValidator
	defaultPageSize int
}

func NewPollHandler(service ports.PollService, defaultPageSize int) *PollHandler {
	return &PollHandler{
		service:         service,
		validator:       newRequestValidator(),
		defaultPageSize: defaultPageSize,
	}
}

type choiceRequest struct {
	Text string `json:"text" validate:"required,max=40"`
}

type pollLengthRequest struct {
	Days  int `json:"days" validate:"min=0,max=7"`
	Hours int `json:"hours" validate:"min=0,max=23"`
}

type createPollRequest struct {
	Question   string            `json:"question" validate:"required,max=256"`
	Choices    []choiceRequest   `json:"choices" validate:"required,min=2,max=6,dive"`
	PollLength pollLengthRequest `json:"poll_length"`
}

// CreatePoll godoc
// @Summary      Creates a poll
// @Description  Creates a poll owned by the authenticated user. The poll accepts votes until created_at + days + hours.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        poll  body      createPollRequest  true  "Poll"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	input := ports.CreatePollInput{
		Question: req.Question,
		Days:     req.PollLength.Days,
		Hours:    req.PollLength.Hours,
	}
	for _, c := range req.Choices {
		input.Choices = append(input.Choices, c.Text)
	}

	poll, err := h.service.Create(r.Context(), principalFrom(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.PollsCreatedTotal.Inc()

	w.Header().Set("Location", "/api/polls/"+poll.ID.String())
	writeJSON(w, r, http.StatusCreated, apiResponse{
		Success: true,
		Message: "Poll created successfully",
		ID:      poll.ID.String(),
	})
}

// ListPolls godoc
// @Summary      Lists polls
// @Description  Lists polls newest first. Authenticated callers see their own choice on each poll.
// @Tags         polls
// @Produce      json
// @Param        page  query     int  false  "Page number, zero based"
// @Param        size  query     int  false  "Page size"
// @Success      200   {object}  domain.Page[domain.PollView]
// @Failure      400   {object}  errorResponse
// @Router       /polls [get]
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r, h.defaultPageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	polls, err := h.service.ListPolls(r.Context(), principalFrom(r), page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, polls)
}

// GetPoll godoc
// @Summary      Returns one poll
// @Tags         polls
// @Produce      json
// @Param        id   path      string  true  "Poll id"
// @Success      200  {object}  domain.PollView
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /polls/{id} [get]
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, err := pollIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id, principalFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, poll)
}

func pollIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.ErrInvalidPollID
	}
	return id, nil
}
