package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/officialryder1/couplequest-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON body with the given status
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps the service failure taxonomy to HTTP status
// codes. Internal detail never reaches the caller: unknown errors become
// a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrUnauthorized):
		respondError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrRateLimited):
		respondError(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, services.ErrAlreadyPaired),
		errors.Is(err, services.ErrSelfPairing),
		errors.Is(err, services.ErrMissingCode),
		errors.Is(err, services.ErrInvalidOrExpiredCode),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrValidation):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
