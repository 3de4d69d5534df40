package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"profile/internal/lib/logger/sl"
	"profile/internal/services/profile"
	"profile/internal/storage"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps err onto a status code and renders it as {"message": ...}.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var ve *profile.ValidationError

	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, storage.ErrSkillNotAdded):
		writeMessage(w, http.StatusBadRequest, "Profile not found or skill already exists")
	case errors.Is(err, storage.ErrProfileNotFound):
		writeMessage(w, http.StatusNotFound, "Profile not found")
	default:
		log.Error("request failed", sl.Err(err))
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}
