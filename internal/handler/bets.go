package handler

import (
	"net/http"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/auth"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	var req struct {
		EventID  int64   `json:"eventId"`
		MarketID int64   `json:"marketId"`
		Stake    float64 `json:"stake"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	bet, err := h.bets.PlaceBet(r.Context(), userID, req.EventID, req.MarketID, req.Stake)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Bet placed successfully", bet)
}

func (h *Handler) ListBets(w http.ResponseWriter, r *http.Request) {
	bets, err := h.bets.ListBets(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", bets)
}

func (h *Handler) UserBets(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	bets, err := h.bets.UserBets(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", bets)
}

func (h *Handler) BetReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	betID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	receipt, err := h.bets.Receipt(r.Context(), userID, betID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Bet receipt fetched", receipt)
}
