package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/clutchden/clutchden-backend/internal/models"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

type PostgresAdminAccountRepository struct {
	db *sql.DB
}

func NewPostgresAdminAccountRepository(db *sql.DB) *PostgresAdminAccountRepository {
	return &PostgresAdminAccountRepository{db: db}
}

// Get returns the payment account deposits are settled against. There is at
// most one active row; none configured means deposits cannot be requested.
func (r *PostgresAdminAccountRepository) Get(ctx context.Context) (*models.AdminAccount, error) {
	var acc models.AdminAccount
	var walletAddress sql.NullString
	err := r.db.QueryRowContext(ctx, `
	SELECT id, bank_name, account_name, account_number, wallet_address
	FROM admin_accounts ORDER BY id LIMIT 1`).
		Scan(&acc.ID, &acc.BankName, &acc.AccountName, &acc.AccountNumber, &walletAddress)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrNoAdminAccount
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin account: %w", err)
	}
	acc.WalletAddress = walletAddress.String
	return &acc, nil
}
