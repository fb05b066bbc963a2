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

type PostgresBetRepository struct {
	db *sql.DB
}

func NewPostgresBetRepository(db *sql.DB) *PostgresBetRepository {
	return &PostgresBetRepository{db: db}
}

// Place deducts the stake and inserts the bet inside one database
// transaction, so a failed insert never leaves the balance reduced.
func (r *PostgresBetRepository) Place(ctx context.Context, bet *models.Bet) error {
	var err error
	tracer := otel.Tracer("bet-repository")
	ctx, span := tracer.Start(ctx, "PlaceBet")
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues("PlaceBet", status).Inc()
		observability.RepositoryDuration.WithLabelValues("PlaceBet").Observe(time.Since(start).Seconds())
	}()

	if bet == nil {
		err = pkgerrors.ErrInvalidInput
		return err
	}
	if bet.Stake <= 0 {
		err = pkgerrors.ErrInvalidStake
		return err
	}

	span.SetAttributes(
		attribute.Int64("user_id", bet.UserID),
		attribute.Int64("event_id", bet.EventID),
		attribute.Float64("stake", bet.Stake),
	)

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	var newBalance float64
	err = dbTx.QueryRowContext(ctx, `
		UPDATE users
		SET balance = balance - $1
		WHERE id = $2
		AND (balance - $1) >= 0
		RETURNING balance
		`, bet.Stake, bet.UserID).Scan(&newBalance)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrInsufficientBalance
		return err
	}
	if err != nil {
		err = fmt.Errorf("failed to deduct stake: %w", err)
		return err
	}

	err = dbTx.QueryRowContext(ctx, `
	INSERT INTO bets (user_id, event_id, market_name, market_odds, stake, potential_win, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, placed_at
	`, bet.UserID, bet.EventID, bet.MarketName, bet.MarketOdds, bet.Stake, bet.PotentialWin, models.BetPending,
	).Scan(&bet.ID, &bet.PlacedAt)
	if err != nil {
		err = fmt.Errorf("failed to insert bet: %w", err)
		return err
	}
	bet.Status = models.BetPending

	if err = dbTx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit: %w", err)
		return err
	}

	slog.Info("bet placed", "id", bet.ID, "user_id", bet.UserID, "event_id", bet.EventID,
		"stake", bet.Stake, "potential_win", bet.PotentialWin, "balance", newBalance)
	return nil
}

const betColumns = `id, user_id, event_id, market_name, market_odds, stake, potential_win, status, placed_at`

func (r *PostgresBetRepository) ListByUser(ctx context.Context, userID int64) ([]models.Bet, error) {
	return r.list(ctx, `SELECT `+betColumns+` FROM bets WHERE user_id = $1 ORDER BY placed_at DESC`, userID)
}

func (r *PostgresBetRepository) List(ctx context.Context) ([]models.Bet, error) {
	return r.list(ctx, `SELECT `+betColumns+` FROM bets ORDER BY placed_at DESC`)
}

func (r *PostgresBetRepository) list(ctx context.Context, query string, args ...any) ([]models.Bet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	bets := []models.Bet{}
	for rows.Next() {
		var bet models.Bet
		if err := rows.Scan(&bet.ID, &bet.UserID, &bet.EventID, &bet.MarketName, &bet.MarketOdds,
			&bet.Stake, &bet.PotentialWin, &bet.Status, &bet.PlacedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

// GetReceipt joins the bet with its owner and event for the receipt view.
// The owner id is returned separately so the service can enforce ownership.
func (r *PostgresBetRepository) GetReceipt(ctx context.Context, betID int64) (*models.BetReceipt, int64, error) {
	query := `
	SELECT b.id, u.id, u.username, COALESCE(e.title, 'Event removed'),
	       b.market_name, b.market_odds, b.stake, b.potential_win, b.status, b.placed_at
	FROM bets b
	JOIN users u ON u.id = b.user_id
	LEFT JOIN events e ON e.id = b.event_id
	WHERE b.id = $1`

	var receipt models.BetReceipt
	var ownerID int64
	err := r.db.QueryRowContext(ctx, query, betID).Scan(
		&receipt.ReceiptID, &ownerID, &receipt.Username, &receipt.EventTitle,
		&receipt.Market, &receipt.Odds, &receipt.Stake, &receipt.PotentialWin,
		&receipt.Status, &receipt.PlacedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, 0, pkgerrors.ErrBetNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bet receipt: %w", err)
	}
	return &receipt, ownerID, nil
}
