package handlers

import (
	"net/http"

	"github.com/officialryder1/couplequest-backend/internal/middleware"
	"github.com/officialryder1/couplequest-backend/internal/models"
	"github.com/officialryder1/couplequest-backend/internal/services"
)

// CoupleHandler handles couple reads and the chat endpoints
type CoupleHandler struct {
	coupleService *services.CoupleService
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(coupleService *services.CoupleService) *CoupleHandler {
	return &CoupleHandler{coupleService: coupleService}
}

// Leaderboard handles GET /api/v1/couples/leaderboard
func (h *CoupleHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	couples, err := h.coupleService.Leaderboard(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if couples == nil {
		couples = []models.Couple{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"leaderboard": couples})
}

// Messages handles GET /api/v1/couples/messages
func (h *CoupleHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	messages, err := h.coupleService.MessageHistory(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []models.CoupleMessage{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// MarkMessagesRead handles POST /api/v1/couples/messages/read
func (h *CoupleHandler) MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.coupleService.MarkMessagesRead(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
