package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/observability"
	"github.com/clutchden/clutchden-backend/internal/models"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, status, wallet_type, wallet_address, withdrawal_id, note, created_at, updated_at`

func scanTransaction(row interface {
	Scan(dest ...any) error
}) (*models.Transaction, error) {
	var tx models.Transaction
	var walletType, walletAddress, note sql.NullString
	var withdrawalID sql.NullInt64
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Type,
		&tx.Amount,
		&tx.Status,
		&walletType,
		&walletAddress,
		&withdrawalID,
		&note,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.WalletType = walletType.String
	tx.WalletAddress = walletAddress.String
	tx.Note = note.String
	if withdrawalID.Valid {
		tx.WithdrawalID = &withdrawalID.Int64
	}
	return &tx, nil
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "CreateTransaction")
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues("CreateTransaction", status).Inc()
		observability.RepositoryDuration.WithLabelValues("CreateTransaction").Observe(time.Since(start).Seconds())
	}()

	if tx == nil {
		err = pkgerrors.ErrInvalidInput
		return err
	}
	if tx.Type != models.TypeDeposit && tx.Type != models.TypeWithdrawal {
		err = fmt.Errorf("%w: unknown transaction type %q", pkgerrors.ErrInvalidInput, tx.Type)
		return err
	}
	if tx.Amount <= 0 {
		err = pkgerrors.ErrInvalidAmount
		return err
	}

	span.SetAttributes(
		attribute.Int64("user_id", tx.UserID),
		attribute.Float64("amount", tx.Amount),
		attribute.String("type", string(tx.Type)),
	)

	// Rows land as pending unless the caller pins a status, as admin
	// credits do when they record an already-applied mutation.
	status := tx.Status
	if status == "" {
		status = models.StatusPending
	}

	query := `
	INSERT INTO transactions (user_id, type, amount, status, wallet_type, wallet_address, withdrawal_id, note)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''))
	RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		tx.UserID, tx.Type, tx.Amount, status,
		tx.WalletType, tx.WalletAddress, tx.WithdrawalID, tx.Note,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		err = fmt.Errorf("failed to create transaction: %w", err)
		return err
	}
	tx.Status = status

	slog.Info("transaction created", "id", tx.ID, "user_id", tx.UserID, "type", tx.Type, "amount", tx.Amount)
	return nil
}

func (r *PostgresTransactionRepository) ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresTransactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *PostgresTransactionRepository) ListPending(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = 'pending' ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *PostgresTransactionRepository) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

// Approve locks the transaction row, verifies it is still pending, applies
// the balance mutation and the status change, and commits them as one unit.
// A concurrent duplicate approval blocks on the row lock and then fails the
// pending check, so the balance moves exactly once.
func (r *PostgresTransactionRepository) Approve(ctx context.Context, id int64) (*models.Transaction, error) {
	return r.process(ctx, id, true)
}

// Reject is the same state transition without a balance mutation.
func (r *PostgresTransactionRepository) Reject(ctx context.Context, id int64) (*models.Transaction, error) {
	return r.process(ctx, id, false)
}

func (r *PostgresTransactionRepository) process(ctx context.Context, id int64, approve bool) (*models.Transaction, error) {
	var err error
	method := "RejectTransaction"
	if approve {
		method = "ApproveTransaction"
	}
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, method)
	span.SetAttributes(attribute.Int64("transaction_id", id))
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues(method, status).Inc()
		observability.RepositoryDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	tx, err := scanTransaction(dbTx.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrTransactionNotFound
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("failed to lock transaction: %w", err)
		return nil, err
	}

	if tx.Status != models.StatusPending {
		err = pkgerrors.ErrAlreadyProcessed
		return nil, err
	}

	if approve {
		delta := tx.Amount
		if tx.Type == models.TypeWithdrawal {
			delta = -tx.Amount
		}
		var newBalance float64
		err = dbTx.QueryRowContext(ctx, `
		UPDATE users
		SET balance = balance + $1
		WHERE id = $2
		AND (balance + $1) >= 0
		RETURNING balance
		`, delta, tx.UserID).Scan(&newBalance)
		if stderrors.Is(err, sql.ErrNoRows) {
			err = pkgerrors.ErrInsufficientBalance
			return nil, err
		}
		if err != nil {
			err = fmt.Errorf("failed to change balance: %w", err)
			return nil, err
		}
		span.SetAttributes(attribute.Float64("new_balance", newBalance))
	}

	newStatus := models.StatusRejected
	withdrawalStatus := models.WithdrawalRejected
	if approve {
		// "approved" is normalized to completed on persist.
		newStatus = models.StatusCompleted
		withdrawalStatus = models.WithdrawalApproved
	}

	if tx.Type == models.TypeWithdrawal {
		if err = r.syncWithdrawal(ctx, dbTx, tx, withdrawalStatus); err != nil {
			return nil, err
		}
	}

	err = dbTx.QueryRowContext(ctx,
		`UPDATE transactions SET status = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`,
		newStatus, id,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		err = fmt.Errorf("failed to update transaction status: %w", err)
		return nil, err
	}
	tx.Status = newStatus

	if err = dbTx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit: %w", err)
		return nil, err
	}

	slog.Info("transaction processed", "id", tx.ID, "user_id", tx.UserID, "type", tx.Type, "status", tx.Status)
	return tx, nil
}

// syncWithdrawal updates the withdrawal record paired with a withdrawal-kind
// transaction. New transactions carry an explicit withdrawal_id; rows created
// before the link existed fall back to matching by (user, amount, pending),
// and finding nothing is not an error.
func (r *PostgresTransactionRepository) syncWithdrawal(ctx context.Context, dbTx *sql.Tx, tx *models.Transaction, status models.WithdrawalStatus) error {
	if tx.WithdrawalID != nil {
		_, err := dbTx.ExecContext(ctx,
			`UPDATE withdrawals SET status = $1, updated_at = now() WHERE id = $2`,
			status, *tx.WithdrawalID)
		if err != nil {
			return fmt.Errorf("failed to update withdrawal: %w", err)
		}
		return nil
	}

	res, err := dbTx.ExecContext(ctx, `
		UPDATE withdrawals SET status = $1, updated_at = now()
		WHERE id = (
			SELECT id FROM withdrawals
			WHERE user_id = $2 AND amount = $3 AND status = 'pending'
			ORDER BY created_at
			LIMIT 1
		)`, status, tx.UserID, tx.Amount)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		slog.Warn("no pending withdrawal matched transaction", "transaction_id", tx.ID, "user_id", tx.UserID, "amount", tx.Amount)
	}
	return nil
}
