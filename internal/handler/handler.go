package handler

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	service "github.com/clutchden/clutchden-backend/internal/services"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"github.com/gorilla/mux"
)

type Handler struct {
	auth    service.AuthService
	account service.AccountService
	bets    service.BetService
	events  service.EventService
	winners service.WinnerService
	support service.SupportService
	admin   service.AdminService
	db      *sql.DB
}

func NewHandler(
	auth service.AuthService,
	account service.AccountService,
	bets service.BetService,
	events service.EventService,
	winners service.WinnerService,
	support service.SupportService,
	admin service.AdminService,
	db *sql.DB,
) *Handler {
	return &Handler{
		auth:    auth,
		account: account,
		bets:    bets,
		events:  events,
		winners: winners,
		support: support,
		admin:   admin,
		db:      db,
	}
}

// Every response uses the same envelope; on errors the "error" field is a
// stable kind so clients never have to parse message text.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal detail stays in the logs.
		slog.Error("request failed", "error", err)
		message = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Message: message, Error: kind})
}

func classify(err error) (int, string) {
	switch {
	case stderrors.Is(err, pkgerrors.ErrInvalidAmount),
		stderrors.Is(err, pkgerrors.ErrInvalidStake),
		stderrors.Is(err, pkgerrors.ErrWalletRequired),
		stderrors.Is(err, pkgerrors.ErrWalletNotSupported),
		stderrors.Is(err, pkgerrors.ErrEventNotStarted),
		stderrors.Is(err, pkgerrors.ErrEventEnded),
		stderrors.Is(err, pkgerrors.ErrTicketClosed),
		stderrors.Is(err, pkgerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case stderrors.Is(err, pkgerrors.ErrInsufficientBalance):
		return http.StatusBadRequest, "insufficient_balance"
	case stderrors.Is(err, pkgerrors.ErrAlreadyProcessed):
		return http.StatusBadRequest, "already_processed"
	case stderrors.Is(err, pkgerrors.ErrUserAlreadyExists):
		return http.StatusBadRequest, "user_exists"
	case stderrors.Is(err, pkgerrors.ErrInvalidCredentials),
		stderrors.Is(err, pkgerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case stderrors.Is(err, pkgerrors.ErrForbidden),
		stderrors.Is(err, pkgerrors.ErrNotBetOwner):
		return http.StatusForbidden, "forbidden"
	case stderrors.Is(err, pkgerrors.ErrUserNotFound),
		stderrors.Is(err, pkgerrors.ErrTransactionNotFound),
		stderrors.Is(err, pkgerrors.ErrEventNotFound),
		stderrors.Is(err, pkgerrors.ErrMarketNotFound),
		stderrors.Is(err, pkgerrors.ErrBetNotFound),
		stderrors.Is(err, pkgerrors.ErrTicketNotFound),
		stderrors.Is(err, pkgerrors.ErrNotificationNotFound):
		return http.StatusNotFound, "not_found"
	case stderrors.Is(err, pkgerrors.ErrNoAdminAccount):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, pkgerrors.ErrInvalidInput)
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.ErrInvalidInput
	}
	return id, nil
}
