package repository

import (
	"context"

	"github.com/clutchden/clutchden-backend/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	ListPending(ctx context.Context) ([]models.Transaction, error)
	// Approve moves a pending transaction to completed and applies the
	// paired balance mutation in one database transaction. Deposits credit
	// the owner; withdrawals debit the owner and mark the linked withdrawal
	// record approved.
	Approve(ctx context.Context, id int64) (*models.Transaction, error)
	// Reject moves a pending transaction to rejected without touching the
	// balance. Withdrawal-kind transactions get their linked withdrawal
	// record marked rejected as well.
	Reject(ctx context.Context, id int64) (*models.Transaction, error)
}

type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.Withdrawal) error
	ListByUser(ctx context.Context, userID int64) ([]models.Withdrawal, error)
}
