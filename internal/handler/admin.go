package handler

import (
	"net/http"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.admin.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", user)
}

func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req struct {
		Disabled bool `json:"disabled"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.admin.SetUserStatus(r.Context(), id, req.Disabled)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Status updated", user)
}

func (h *Handler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.admin.ListTransactions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", transactions)
}

func (h *Handler) CreditUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64   `json:"userId"`
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.admin.Credit(r.Context(), req.UserID, req.Amount, req.Note)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Credited", tx)
}
