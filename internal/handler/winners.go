package handler

import (
	"net/http"

	"github.com/clutchden/clutchden-backend/internal/models"
)

func (h *Handler) RecentWinners(w http.ResponseWriter, r *http.Request) {
	winners, err := h.winners.Recent(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", winners)
}

func (h *Handler) TopWinners(w http.ResponseWriter, r *http.Request) {
	top, err := h.winners.Top(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", top)
}

func (h *Handler) AddWinner(w http.ResponseWriter, r *http.Request) {
	var winner models.Winner
	if !h.decode(w, r, &winner) {
		return
	}

	if err := h.winners.Add(r.Context(), &winner); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Winner added successfully", winner)
}
