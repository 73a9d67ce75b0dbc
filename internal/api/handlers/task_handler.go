package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/taskadder/taskadder-be/internal/auth"
	"github.com/taskadder/taskadder-be/internal/models"
	"github.com/taskadder/taskadder-be/internal/services"
)

// TaskHandler handles HTTP requests for task management. Every method
// resolves the acting user from the request context the auth gate filled
// in; the owner id never comes from the client.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

func actingUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Could not retrieve user id from context")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return "", false
	}
	return userID, true
}

// List returns all tasks of the acting user, newest first.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.ListTasks(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list tasks")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

// Create handles new task creation for the acting user.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var input services.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.CreateTask(userID, input)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to create task")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// Get returns a single task of the acting user.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "id")

	task, err := h.service.GetTask(userID, taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Update replaces the mutable fields of one of the acting user's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "id")

	var input services.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.service.UpdateTask(userID, taskID, input)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("task_id", taskID).Msg("Failed to update task")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete removes one of the acting user's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "id")

	if err := h.service.DeleteTask(userID, taskID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Task deleted successfully")
}
