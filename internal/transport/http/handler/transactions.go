package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/money-tracker-api/internal/application/transaction"
	"github.com/money-tracker-api/internal/domain"
	"go.uber.org/zap"
)

// TransactionHandler handles the caller's transaction endpoints.
type TransactionHandler struct {
	svc transaction.Service
	log *zap.Logger
}

func NewTransactionHandler(svc transaction.Service, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, log: log}
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	txs, err := h.svc.List(r.Context(), ident.Subject)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req domain.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := h.svc.Create(r.Context(), ident.Subject, req)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	tx, err := h.svc.Get(r.Context(), ident.Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := h.svc.Update(r.Context(), ident.Subject, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	tx, err := h.svc.MarkPaid(r.Context(), ident.Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), ident.Subject, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Transaction deleted"})
}

func (h *TransactionHandler) DeleteByPerson(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	person := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		// chi matched on the escaped path
		p, err := url.PathUnescape(person)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid person")
			return
		}
		person = p
	}
	n, err := h.svc.DeleteByPerson(r.Context(), ident.Subject, person)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			logFailure(r, h.log, err)
		}
		writeJSON(w, status, DeletedCountEnvelope{DeletedCount: n, Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, DeletedCountEnvelope{DeletedCount: n})
}
