package handler

import (
	"net/http"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/auth"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

func (h *Handler) OpenTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	ticket, err := h.support.OpenTicket(r.Context(), userID, req.Subject, req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Support ticket created", ticket)
}

func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	tickets, err := h.support.UserTickets(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", tickets)
}

func (h *Handler) AllTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.support.AllTickets(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", tickets)
}

func (h *Handler) ReplyTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	ticketID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	ticket, err := h.support.Reply(r.Context(), userID, ticketID, req.Message, auth.IsAdmin(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Reply added", ticket)
}

func (h *Handler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.support.Close(r.Context(), ticketID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Ticket closed", nil)
}
