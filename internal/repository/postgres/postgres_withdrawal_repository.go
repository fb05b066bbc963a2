package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/clutchden/clutchden-backend/internal/models"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

type PostgresWithdrawalRepository struct {
	db *sql.DB
}

func NewPostgresWithdrawalRepository(db *sql.DB) *PostgresWithdrawalRepository {
	return &PostgresWithdrawalRepository{db: db}
}

func (r *PostgresWithdrawalRepository) Create(ctx context.Context, w *models.Withdrawal) error {
	if w == nil {
		return pkgerrors.ErrInvalidInput
	}
	if w.Amount <= 0 {
		return pkgerrors.ErrInvalidAmount
	}
	if w.WalletType == "" || w.WalletAddress == "" {
		return pkgerrors.ErrWalletRequired
	}

	query := `
	INSERT INTO withdrawals (user_id, amount, wallet_type, wallet_address, reference, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		w.UserID, w.Amount, w.WalletType, w.WalletAddress, w.Reference, models.WithdrawalPending,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	w.Status = models.WithdrawalPending

	slog.Info("withdrawal created", "id", w.ID, "user_id", w.UserID, "amount", w.Amount, "wallet_type", w.WalletType)
	return nil
}

func (r *PostgresWithdrawalRepository) ListByUser(ctx context.Context, userID int64) ([]models.Withdrawal, error) {
	query := `
	SELECT id, user_id, amount, wallet_type, wallet_address, reference, status, created_at, updated_at
	FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	withdrawals := []models.Withdrawal{}
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.WalletType, &w.WalletAddress, &w.Reference, &w.Status, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}
