package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/taskadder/taskadder-be/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidationErrors sends a 400 with per-field messages.
func writeValidationErrors(w http.ResponseWriter, fieldErrs apperr.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": "Validation failed",
		"errors":  fieldErrs,
	})
}

// writeServiceError maps a service error onto an HTTP response. Anything
// outside the taxonomy is a 500 with the detail kept out of the body.
func writeServiceError(w http.ResponseWriter, err error) {
	if fieldErrs, ok := apperr.AsFieldErrors(err); ok {
		writeValidationErrors(w, fieldErrs)
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, apperr.ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, "User already exists with this email")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		log.Error().Err(err).Msg("Unhandled service error")
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}
