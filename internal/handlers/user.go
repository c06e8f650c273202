package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/officialryder1/couplequest-backend/internal/middleware"
	"github.com/officialryder1/couplequest-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles account and profile HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.userService.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", result.User.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Me handles GET /api/v1/profile
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.userService.ProfileFor(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
