package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/officialryder1/couplequest-backend/internal/middleware"
	"github.com/officialryder1/couplequest-backend/internal/models"
	"github.com/officialryder1/couplequest-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TaskHandler handles task HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("task_id", task.ID).Str("user_id", userID).Msg("Task created")
	respondJSON(w, http.StatusCreated, task)
}

// List handles GET /api/v1/tasks?status=done|undone
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tasks, err := h.taskService.List(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// Complete handles PATCH /api/v1/tasks/{task_id}/complete
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	taskID := chi.URLParam(r, "task_id")
	if taskID == "" {
		respondError(w, "task_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.taskService.Complete(r.Context(), taskID, userID)
	if err != nil {
		log.Warn().Err(err).Str("task_id", taskID).Str("user_id", userID).Msg("Task completion failed")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
