package handler

import (
	"net/http"

	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.writeError(w, pkgerrors.ErrInternal)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", map[string]string{"status": "healthy"})
}
