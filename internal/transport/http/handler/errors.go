package handler

import (
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

const msgInternal = "internal server error"

// statusFor maps a service error onto an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, strings.TrimSuffix(err.Error(), ": "+domain.ErrBadRequest.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// writeServiceError writes the mapped error response. Server-side failures are
// logged in full; the client only sees a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logFailure(r, log, err)
	}
	writeError(w, status, msg)
}

func logFailure(r *http.Request, log *zap.Logger, err error) {
	fields := []zap.Field{
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if ident, ok := middleware.IdentityFromContext(r.Context()); ok {
		fields = append(fields, zap.String("user_id", ident.Subject))
	}
	log.Error("request failed", fields...)
}

// identity returns the verified caller or writes a 401.
func identity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return ident, ok
}
