package handler

import (
	"encoding/json"
	"net/http"

	"github.com/money-tracker-api/internal/application/contact"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DeletedCountEnvelope wraps person-delete responses, including partial failures.
type DeletedCountEnvelope struct {
	DeletedCount int    `json:"deleted_count"`
	Error        string `json:"error,omitempty"`
}

// AvatarEnvelope wraps avatar upload responses.
type AvatarEnvelope struct {
	Avatar string `json:"avatar"`
}

// ContactEnvelope is the submission receipt, with an error when a step failed.
type ContactEnvelope struct {
	*contact.Receipt
	Error string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
