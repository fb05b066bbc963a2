package handler

import (
	"net/http"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/auth"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	balance, err := h.account.GetBalance(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", map[string]float64{"balance": balance})
}

func (h *Handler) RequestDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	details, err := h.account.RequestDeposit(r.Context(), userID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Deposit request submitted for admin approval", details)
}

func (h *Handler) RequestWithdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	var req struct {
		Amount        float64 `json:"amount"`
		WalletType    string  `json:"walletType"`
		WalletAddress string  `json:"walletAddress"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.account.RequestWithdraw(r.Context(), userID, req.Amount, req.WalletType, req.WalletAddress)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Withdrawal request submitted and pending admin approval", result)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	transactions, err := h.account.ListTransactions(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", transactions)
}

func (h *Handler) WithdrawHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	withdrawals, err := h.account.ListWithdrawals(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", withdrawals)
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	notifications, err := h.account.Notifications(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", notifications)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.account.MarkNotificationRead(r.Context(), userID, id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Notification marked as read", nil)
}

func (h *Handler) UnreadNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}

	count, err := h.account.UnreadNotifications(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", map[string]int64{"count": count})
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.writeError(w, pkgerrors.ErrUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.account.DeleteNotification(r.Context(), userID, id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Notification deleted", nil)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.account.ListPending(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "OK", pending)
}

func (h *Handler) ApproveTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	tx, err := h.account.Approve(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Transaction approved and balance updated", tx)
}

func (h *Handler) RejectTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	tx, err := h.account.Reject(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "Transaction rejected", tx)
}
