package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/clutchden/clutchden-backend/internal/models"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

type PostgresWinnerRepository struct {
	db *sql.DB
}

func NewPostgresWinnerRepository(db *sql.DB) *PostgresWinnerRepository {
	return &PostgresWinnerRepository{db: db}
}

func (r *PostgresWinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	if winner == nil {
		return pkgerrors.ErrInvalidInput
	}
	if winner.UserID == nil && winner.Username == "" {
		return fmt.Errorf("%w: winner needs a user id or username", pkgerrors.ErrInvalidInput)
	}

	err := r.db.QueryRowContext(ctx, `
	INSERT INTO winners (user_id, username, amount, prize, rank, image_url)
	VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, ''))
	RETURNING id, created_at
	`, winner.UserID, winner.Username, winner.Amount, winner.Prize, winner.Rank, winner.ImageURL).
		Scan(&winner.ID, &winner.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create winner: %w", err)
	}

	slog.Info("winner added", "id", winner.ID, "username", winner.Username, "amount", winner.Amount)
	return nil
}

func (r *PostgresWinnerRepository) Recent(ctx context.Context, limit int) ([]models.Winner, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, username, amount, prize, COALESCE(rank, 0), COALESCE(image_url, ''), created_at
	FROM winners ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent winners: %w", err)
	}
	defer rows.Close()

	winners := []models.Winner{}
	for rows.Next() {
		var w models.Winner
		var userID sql.NullInt64
		if err := rows.Scan(&w.ID, &userID, &w.Username, &w.Amount, &w.Prize, &w.Rank, &w.ImageURL, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		if userID.Valid {
			w.UserID = &userID.Int64
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

func (r *PostgresWinnerRepository) Top(ctx context.Context, limit int) ([]models.TopWinner, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT username, SUM(amount) AS total
	FROM winners
	GROUP BY username
	ORDER BY total DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top winners: %w", err)
	}
	defer rows.Close()

	top := []models.TopWinner{}
	for rows.Next() {
		var t models.TopWinner
		if err := rows.Scan(&t.Username, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan top winner: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
