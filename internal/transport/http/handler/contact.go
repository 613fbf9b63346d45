package handler

import (
	"encoding/json"
	"net/http"

	"github.com/money-tracker-api/internal/application/contact"
	"github.com/money-tracker-api/internal/domain"
	"go.uber.org/zap"
)

// ContactHandler handles contact-form submissions.
type ContactHandler struct {
	svc contact.Service
	log *zap.Logger
}

func NewContactHandler(svc contact.Service, log *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: log}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rc, err := h.svc.Submit(r.Context(), ident, req)
	if err != nil {
		status, msg := statusFor(err)
		if rc == nil || status != http.StatusInternalServerError {
			writeServiceError(w, r, h.log, err)
			return
		}
		logFailure(r, h.log, err)
		writeJSON(w, status, ContactEnvelope{Receipt: rc, Error: msg})
		return
	}
	writeJSON(w, http.StatusCreated, ContactEnvelope{Receipt: rc})
}
