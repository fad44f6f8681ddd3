package http

import (
	"net/http"

	"github.com/vncsmyrnk/mypolls/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	validator   *requestValidator
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   newRequestValidator(),
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=4,max=40"`
	Username string `json:"username" validate:"required,min=3,max=15"`
	Email    string `json:"email" validate:"required,email,max=40"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup godoc
// @Summary      Registers a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user  body      signupRequest  true  "User"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), ports.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+user.Username)
	writeJSON(w, r, http.StatusCreated, apiResponse{
		Success: true,
		Message: "User registered successfully",
		ID:      user.ID.String(),
	})
}

// Login godoc
// @Summary      Issues an access token
// @Description  Accepts a username or an email. The token goes in the Authorization header as "Bearer <token>".
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      loginRequest  true  "Credentials"
// @Success      200          {object}  tokenResponse
// @Failure      401          {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.authService.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "Bearer"})
}
