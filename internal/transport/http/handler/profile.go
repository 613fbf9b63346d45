package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/money-tracker-api/internal/application/profile"
	"go.uber.org/zap"
)

// multipartOverhead is the allowance on top of the avatar limit for the
// multipart envelope.
const multipartOverhead = 64 << 10

// ProfileHandler handles the caller's profile and avatar endpoints.
type ProfileHandler struct {
	svc            profile.Service
	log            *zap.Logger
	maxAvatarBytes int64
}

func NewProfileHandler(svc profile.Service, maxAvatarBytes int64, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: log, maxAvatarBytes: maxAvatarBytes}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.svc.Update(r.Context(), ident, patch)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxAvatarBytes+multipartOverhead)
	f, header, err := r.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("avatar exceeds %d bytes", h.maxAvatarBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer f.Close()
	if header.Size > h.maxAvatarBytes {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("avatar exceeds %d bytes", h.maxAvatarBytes))
		return
	}

	p, err := h.svc.UploadAvatar(r.Context(), ident, header.Filename, f)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	avatar := ""
	if p.Avatar != nil {
		avatar = *p.Avatar
	}
	writeJSON(w, http.StatusOK, AvatarEnvelope{Avatar: avatar})
}

func (h *ProfileHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteAvatar(r.Context(), ident); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Avatar removed"})
}

func (h *ProfileHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	obj, err := h.svc.GetAvatar(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.log.Warn("stream avatar", zap.String("user_id", ident.Subject), zap.Error(err))
	}
}
