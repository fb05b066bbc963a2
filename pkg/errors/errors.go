package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("admin privileges required")

	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoAdminAccount      = errors.New("admin account not found")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyProcessed    = errors.New("transaction already processed")
	ErrWalletNotSupported  = errors.New("wallet type not supported")
	ErrWalletRequired      = errors.New("wallet type and address required")

	ErrEventNotFound   = errors.New("event not found")
	ErrMarketNotFound  = errors.New("market not found")
	ErrEventNotStarted = errors.New("event has not started yet")
	ErrEventEnded      = errors.New("event is no longer open for betting")
	ErrInvalidStake    = errors.New("invalid stake")
	ErrBetNotFound     = errors.New("bet not found")
	ErrNotBetOwner     = errors.New("not the owner of this bet")

	ErrTicketNotFound = errors.New("support ticket not found")
	ErrTicketClosed   = errors.New("support ticket is closed")

	ErrNotificationNotFound = errors.New("notification not found")

	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)
