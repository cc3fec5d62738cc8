package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: auth,
		logger:      logger.With().Str("component", "auth_handler").Logger(),
	}
}

// LoginRequest carries either a username (admins) or an email (doctors and
// patients).
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, authenticate func(ctx context.Context, req LoginRequest) (string, error)) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := authenticate(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, func(ctx context.Context, req LoginRequest) (string, error) {
		return h.authService.LoginAdmin(ctx, req.Username, req.Password)
	})
}

func (h *AuthHandler) LoginDoctor(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, func(ctx context.Context, req LoginRequest) (string, error) {
		return h.authService.LoginDoctor(ctx, req.Email, req.Password)
	})
}

func (h *AuthHandler) LoginPatient(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, func(ctx context.Context, req LoginRequest) (string, error) {
		return h.authService.LoginPatient(ctx, req.Email, req.Password)
	})
}
