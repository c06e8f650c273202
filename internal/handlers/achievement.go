package handlers

import (
	"net/http"

	"github.com/officialryder1/couplequest-backend/internal/middleware"
	"github.com/officialryder1/couplequest-backend/internal/models"
	"github.com/officialryder1/couplequest-backend/internal/services"
)

// AchievementHandler handles achievement HTTP requests
type AchievementHandler struct {
	achievementService *services.AchievementService
	coupleService      *services.CoupleService
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievementService *services.AchievementService, coupleService *services.CoupleService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		coupleService:      coupleService,
	}
}

// Catalog handles GET /api/v1/achievements
func (h *AchievementHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.achievementService.Catalog(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"achievements": achievements})
}

// Unlocked handles GET /api/v1/achievements/unlocked
func (h *AchievementHandler) Unlocked(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	couple, err := h.coupleService.ActiveCoupleFor(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	unlocked, err := h.achievementService.UnlockedFor(r.Context(), couple.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if unlocked == nil {
		unlocked = []models.CoupleAchievement{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"unlocked": unlocked})
}
