package handlers

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/officialryder1/couplequest-backend/internal/middleware"
	"github.com/officialryder1/couplequest-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PairingHandler handles couple pairing HTTP requests
type PairingHandler struct {
	pairingService *services.PairingService
}

// NewPairingHandler creates a new pairing handler
func NewPairingHandler(pairingService *services.PairingService) *PairingHandler {
	return &PairingHandler{pairingService: pairingService}
}

type initiatePairingRequest struct {
	CoupleName string `json:"couple_name"`
}

type confirmPairingRequest struct {
	PairingCode string `json:"pairing_code"`
}

// Initiate handles POST /api/v1/pairing/initiate
func (h *PairingHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req initiatePairingRequest
	if r.Body != nil {
		// body is optional, the couple name has a default
		json.NewDecoder(r.Body).Decode(&req)
	}

	invite, err := h.pairingService.InitiatePairing(r.Context(), userID, req.CoupleName)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to initiate pairing")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"couple_id":    invite.CoupleID,
		"pairing_code": invite.PairingCode,
		"expires_at":   invite.ExpiresAt,
		"message":      "Share this code with your partner",
	})
}

// Confirm handles POST /api/v1/pairing/confirm
func (h *PairingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req confirmPairingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	couple, err := h.pairingService.ConfirmPairing(r.Context(), userID, req.PairingCode, clientIP(r))
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Pairing confirmation failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"couple":    couple,
		"couple_id": couple.ID,
		"message":   "Pairing successful",
	})
}

// Status handles GET /api/v1/pairing/status
func (h *PairingHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	status, err := h.pairingService.CheckStatus(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// clientIP returns the request's remote IP. chi's RealIP middleware has
// already rewritten RemoteAddr from X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
